package classfile

import (
	"math"

	"github.com/pkg/errors"

	bytescursor "jvmlite/internal/bytes"
)

// ErrBadMagic is returned when the first four bytes are not 0xCAFEBABE.
var ErrBadMagic = errors.New("bad magic: not a class file")

// ErrUnknownTag is returned for a constant-pool tag byte outside the
// subset this core understands. An unrecognized tag fails the parse
// rather than being skipped, which would corrupt pool index alignment.
var ErrUnknownTag = errors.New("unrecognized constant pool tag")

// Parse decodes a complete class file from data. On any failure, no
// partial Class is returned; all the caller has to release is data
// itself, which Parse never retains past return (Cursor.Bytes copies).
func Parse(data []byte) (*Class, error) {
	cur := bytescursor.New(data)

	magic, err := cur.U4()
	if err != nil {
		return nil, errors.Wrap(err, "reading magic")
	}
	if magic != Magic {
		return nil, errors.Wrapf(ErrBadMagic, "got %#08x", magic)
	}

	class := &Class{}
	if class.MinorVersion, err = cur.U2(); err != nil {
		return nil, errors.Wrap(err, "reading minor_version")
	}
	if class.MajorVersion, err = cur.U2(); err != nil {
		return nil, errors.Wrap(err, "reading major_version")
	}

	pool, err := parseConstantPool(cur)
	if err != nil {
		return nil, errors.Wrap(err, "reading constant pool")
	}
	class.ConstantPool = pool

	if class.AccessFlags, err = cur.U2(); err != nil {
		return nil, errors.Wrap(err, "reading access_flags")
	}
	if class.ThisClass, err = cur.U2(); err != nil {
		return nil, errors.Wrap(err, "reading this_class")
	}
	if class.SuperClass, err = cur.U2(); err != nil {
		return nil, errors.Wrap(err, "reading super_class")
	}

	if class.Name, err = pool.ClassName(class.ThisClass); err != nil {
		return nil, errors.Wrap(err, "resolving this_class")
	}
	// super_class is 0 for java/lang/Object; leave SuperName empty in
	// that case rather than treating it as a bad cross-index.
	if class.SuperClass != 0 {
		if class.SuperName, err = pool.ClassName(class.SuperClass); err != nil {
			return nil, errors.Wrap(err, "resolving super_class")
		}
	}

	ifaceCount, err := cur.U2()
	if err != nil {
		return nil, errors.Wrap(err, "reading interfaces_count")
	}
	class.Interfaces = make([]string, 0, ifaceCount)
	for i := uint16(0); i < ifaceCount; i++ {
		idx, err := cur.U2()
		if err != nil {
			return nil, errors.Wrap(err, "reading interface index")
		}
		name, err := pool.ClassName(idx)
		if err != nil {
			return nil, errors.Wrap(err, "resolving interface")
		}
		class.Interfaces = append(class.Interfaces, name)
	}

	if class.Fields, err = parseMembers(cur, pool); err != nil {
		return nil, errors.Wrap(err, "reading fields")
	}
	if class.Methods, err = parseMembers(cur, pool); err != nil {
		return nil, errors.Wrap(err, "reading methods")
	}
	if class.Attributes, err = parseAttributes(cur, pool); err != nil {
		return nil, errors.Wrap(err, "reading class attributes")
	}

	return class, nil
}

func parseConstantPool(cur *bytescursor.Cursor) (Pool, error) {
	count, err := cur.U2()
	if err != nil {
		return nil, err
	}

	pool := make(Pool, count)
	pool[0] = Reserved{}

	for i := uint16(1); i < count; i++ {
		tag, err := cur.U1()
		if err != nil {
			return nil, errors.Wrapf(err, "reading tag for index %d", i)
		}

		entry, wide, err := parseConstantEntry(cur, Tag(tag))
		if err != nil {
			return nil, errors.Wrapf(err, "index %d", i)
		}
		pool[i] = entry

		if wide {
			// Long/Double entries consume two index slots; the second
			// is reserved, not a structural gap, and must not be
			// reassigned by a later iteration.
			i++
			if i < count {
				pool[i] = Reserved{}
			}
		}
	}

	return pool, nil
}

func parseConstantEntry(cur *bytescursor.Cursor, tag Tag) (entry Constant, wide bool, err error) {
	switch tag {
	case TagUtf8:
		length, err := cur.U2()
		if err != nil {
			return nil, false, err
		}
		raw, err := cur.Bytes(int(length))
		if err != nil {
			return nil, false, err
		}
		return Utf8{Value: string(raw)}, false, nil

	case TagInteger:
		v, err := cur.I4()
		if err != nil {
			return nil, false, err
		}
		return Integer{Value: v}, false, nil

	case TagFloat:
		v, err := cur.F4()
		if err != nil {
			return nil, false, err
		}
		return Float{Value: v}, false, nil

	case TagLong:
		hi, err := cur.U4()
		if err != nil {
			return nil, false, err
		}
		lo, err := cur.U4()
		if err != nil {
			return nil, false, err
		}
		return Long{Value: int64(uint64(hi)<<32 | uint64(lo))}, true, nil

	case TagDouble:
		hi, err := cur.U4()
		if err != nil {
			return nil, false, err
		}
		lo, err := cur.U4()
		if err != nil {
			return nil, false, err
		}
		bits := uint64(hi)<<32 | uint64(lo)
		return Double{Value: math.Float64frombits(bits)}, true, nil

	case TagClassRef:
		idx, err := cur.U2()
		if err != nil {
			return nil, false, err
		}
		return ClassRef{NameIndex: idx}, false, nil

	case TagStringRef:
		idx, err := cur.U2()
		if err != nil {
			return nil, false, err
		}
		return StringRef{Utf8Index: idx}, false, nil

	case TagFieldRef:
		classIdx, err := cur.U2()
		if err != nil {
			return nil, false, err
		}
		natIdx, err := cur.U2()
		if err != nil {
			return nil, false, err
		}
		return FieldRef{ClassIndex: classIdx, NameAndTypeIndex: natIdx}, false, nil

	case TagMethodRef:
		classIdx, err := cur.U2()
		if err != nil {
			return nil, false, err
		}
		natIdx, err := cur.U2()
		if err != nil {
			return nil, false, err
		}
		return MethodRef{ClassIndex: classIdx, NameAndTypeIndex: natIdx}, false, nil

	case TagNameAndType:
		nameIdx, err := cur.U2()
		if err != nil {
			return nil, false, err
		}
		descIdx, err := cur.U2()
		if err != nil {
			return nil, false, err
		}
		return NameAndType{NameIndex: nameIdx, DescriptorIndex: descIdx}, false, nil

	default:
		return nil, false, errors.Wrapf(ErrUnknownTag, "tag %d", tag)
	}
}

func parseMembers(cur *bytescursor.Cursor, pool Pool) ([]Member, error) {
	count, err := cur.U2()
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, count)
	for i := uint16(0); i < count; i++ {
		var m Member
		if m.AccessFlags, err = cur.U2(); err != nil {
			return nil, errors.Wrapf(err, "member %d access_flags", i)
		}

		nameIdx, err := cur.U2()
		if err != nil {
			return nil, errors.Wrapf(err, "member %d name_index", i)
		}
		if m.Name, err = pool.Utf8At(nameIdx); err != nil {
			return nil, errors.Wrapf(err, "member %d name", i)
		}

		descIdx, err := cur.U2()
		if err != nil {
			return nil, errors.Wrapf(err, "member %d descriptor_index", i)
		}
		if m.Descriptor, err = pool.Utf8At(descIdx); err != nil {
			return nil, errors.Wrapf(err, "member %d descriptor", i)
		}

		if m.Attributes, err = parseAttributes(cur, pool); err != nil {
			return nil, errors.Wrapf(err, "member %d attributes", i)
		}

		for _, attr := range m.Attributes {
			if attr.Name == "Code" {
				code, err := parseCodeAttribute(attr.Data)
				if err != nil {
					return nil, errors.Wrapf(err, "member %d Code attribute", i)
				}
				m.Code = code
				break
			}
		}

		members = append(members, m)
	}

	return members, nil
}

func parseAttributes(cur *bytescursor.Cursor, pool Pool) ([]Attribute, error) {
	count, err := cur.U2()
	if err != nil {
		return nil, err
	}

	attrs := make([]Attribute, 0, count)
	for i := uint16(0); i < count; i++ {
		nameIdx, err := cur.U2()
		if err != nil {
			return nil, errors.Wrapf(err, "attribute %d name_index", i)
		}
		name, err := pool.Utf8At(nameIdx)
		if err != nil {
			return nil, errors.Wrapf(err, "attribute %d name", i)
		}

		length, err := cur.U4()
		if err != nil {
			return nil, errors.Wrapf(err, "attribute %d length", i)
		}
		data, err := cur.Bytes(int(length))
		if err != nil {
			return nil, errors.Wrapf(err, "attribute %d payload", i)
		}

		attrs = append(attrs, Attribute{Name: name, Data: data})
	}

	return attrs, nil
}

// parseCodeAttribute decodes max_stack/max_locals/code_length/code and
// then discards the exception table and nested attributes that follow,
// rather than assuming they are absent. A class with an empty try block
// still carries a (possibly zero-length) exception table here.
func parseCodeAttribute(data []byte) (*Code, error) {
	cur := bytescursor.New(data)

	maxStack, err := cur.U2()
	if err != nil {
		return nil, errors.Wrap(err, "max_stack")
	}
	maxLocals, err := cur.U2()
	if err != nil {
		return nil, errors.Wrap(err, "max_locals")
	}
	codeLength, err := cur.U4()
	if err != nil {
		return nil, errors.Wrap(err, "code_length")
	}
	code, err := cur.Bytes(int(codeLength))
	if err != nil {
		return nil, errors.Wrap(err, "code")
	}

	// Exception table: exception_table_length, then that many 8-byte
	// entries (start_pc, end_pc, handler_pc, catch_type). The core
	// ignores handlers but must still skip over them correctly.
	excCount, err := cur.U2()
	if err == nil {
		for i := uint16(0); i < excCount; i++ {
			if _, err := cur.Bytes(8); err != nil {
				return nil, errors.Wrap(err, "exception_table entry")
			}
		}
	}

	return &Code{MaxStack: maxStack, MaxLocals: maxLocals, Bytecode: code}, nil
}
