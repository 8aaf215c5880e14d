package classfile

import "fmt"

// Tag identifies the kind of a constant-pool entry (JVM spec table 4.4-A,
// restricted to the subset this VM understands).
type Tag byte

const (
	TagUtf8        Tag = 1
	TagInteger     Tag = 3
	TagFloat       Tag = 4
	TagLong        Tag = 5
	TagDouble      Tag = 6
	TagClassRef    Tag = 7
	TagStringRef   Tag = 8
	TagFieldRef    Tag = 9
	TagMethodRef   Tag = 10
	TagNameAndType Tag = 12

	// tagReserved marks index 0 and the unused second slot that
	// Long/Double entries consume. It is never produced by a tag byte in
	// the file; it is synthesized by the parser.
	tagReserved Tag = 0
)

// Constant is one entry of a class's constant pool. Implementations are
// the tagged variants below; the interface exists only to let the pool
// hold a single map of heterogeneous entries instead of parallel arrays.
type Constant interface {
	constantTag() Tag
}

// Reserved occupies constant-pool index 0 and the second index consumed
// by a Long or Double entry. Looking one up is always a parser bug or a
// malformed cross-index, never a valid reference.
type Reserved struct{}

func (Reserved) constantTag() Tag { return tagReserved }

type Utf8 struct {
	Value string
}

func (Utf8) constantTag() Tag { return TagUtf8 }

type Integer struct {
	Value int32
}

func (Integer) constantTag() Tag { return TagInteger }

type Float struct {
	Value float32
}

func (Float) constantTag() Tag { return TagFloat }

type Long struct {
	Value int64
}

func (Long) constantTag() Tag { return TagLong }

type Double struct {
	Value float64
}

func (Double) constantTag() Tag { return TagDouble }

// ClassRef names a class or interface by its Utf8 binary name.
type ClassRef struct {
	NameIndex uint16
}

func (ClassRef) constantTag() Tag { return TagClassRef }

// StringRef names a Utf8 entry whose contents should be interned as a
// runtime string (via ldc).
type StringRef struct {
	Utf8Index uint16
}

func (StringRef) constantTag() Tag { return TagStringRef }

// FieldRef names a field by owning class and name-and-type.
type FieldRef struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (FieldRef) constantTag() Tag { return TagFieldRef }

// MethodRef names a method by owning class and name-and-type.
type MethodRef struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (MethodRef) constantTag() Tag { return TagMethodRef }

// NameAndType is a (name, descriptor) pair referenced by FieldRef and
// MethodRef entries.
type NameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (NameAndType) constantTag() Tag { return TagNameAndType }

// Pool is the 1-indexed constant pool of a single class.
type Pool map[uint16]Constant

// Utf8At resolves index to its Utf8 string, failing if it is not a Utf8
// entry.
func (p Pool) Utf8At(index uint16) (string, error) {
	c, ok := p[index]
	if !ok {
		return "", fmt.Errorf("constant pool index %d not present", index)
	}
	u, ok := c.(Utf8)
	if !ok {
		return "", fmt.Errorf("constant pool index %d is not Utf8 (got %T)", index, c)
	}
	return u.Value, nil
}

// ClassName resolves a ClassRef index to its binary class name.
func (p Pool) ClassName(index uint16) (string, error) {
	c, ok := p[index]
	if !ok {
		return "", fmt.Errorf("constant pool index %d not present", index)
	}
	ref, ok := c.(ClassRef)
	if !ok {
		return "", fmt.Errorf("constant pool index %d is not a ClassRef (got %T)", index, c)
	}
	return p.Utf8At(ref.NameIndex)
}

// NameAndTypeAt resolves a NameAndType index into its (name, descriptor)
// Utf8 strings.
func (p Pool) NameAndTypeAt(index uint16) (name, descriptor string, err error) {
	c, ok := p[index]
	if !ok {
		return "", "", fmt.Errorf("constant pool index %d not present", index)
	}
	nt, ok := c.(NameAndType)
	if !ok {
		return "", "", fmt.Errorf("constant pool index %d is not NameAndType (got %T)", index, c)
	}
	name, err = p.Utf8At(nt.NameIndex)
	if err != nil {
		return "", "", err
	}
	descriptor, err = p.Utf8At(nt.DescriptorIndex)
	if err != nil {
		return "", "", err
	}
	return name, descriptor, nil
}

// MethodRefAt resolves a MethodRef or FieldRef index to the owning
// class's name and the member's (name, descriptor).
func (p Pool) MethodRefAt(index uint16) (class, name, descriptor string, err error) {
	c, ok := p[index]
	if !ok {
		return "", "", "", fmt.Errorf("constant pool index %d not present", index)
	}

	var classIndex, natIndex uint16
	switch ref := c.(type) {
	case MethodRef:
		classIndex, natIndex = ref.ClassIndex, ref.NameAndTypeIndex
	case FieldRef:
		classIndex, natIndex = ref.ClassIndex, ref.NameAndTypeIndex
	default:
		return "", "", "", fmt.Errorf("constant pool index %d is not a MethodRef/FieldRef (got %T)", index, c)
	}

	class, err = p.ClassName(classIndex)
	if err != nil {
		return "", "", "", err
	}
	name, descriptor, err = p.NameAndTypeAt(natIndex)
	if err != nil {
		return "", "", "", err
	}
	return class, name, descriptor, nil
}
