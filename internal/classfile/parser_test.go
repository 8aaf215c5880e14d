package classfile

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// classBuilder assembles a minimal valid class file byte-by-byte, the
// way a fixture would be hand-built in the absence of a real compiler.
type classBuilder struct {
	buf bytes.Buffer
}

func (b *classBuilder) u1(v uint8)  { b.buf.WriteByte(v) }
func (b *classBuilder) u2(v uint16) { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *classBuilder) u4(v uint32) { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *classBuilder) raw(p []byte) { b.buf.Write(p) }

func (b *classBuilder) utf8(s string) {
	b.u1(byte(TagUtf8))
	b.u2(uint16(len(s)))
	b.raw([]byte(s))
}

func (b *classBuilder) classRef(nameIdx uint16) {
	b.u1(byte(TagClassRef))
	b.u2(nameIdx)
}

// buildSimpleClass produces: class "Main" extends "java/lang/Object"
// with one method main()I whose Code attribute is `iconst_5; ireturn`.
func buildSimpleClass(t *testing.T) []byte {
	t.Helper()

	var c classBuilder
	c.u4(Magic)
	c.u2(0) // minor
	c.u2(52) // major

	c.u2(8) // constant_pool_count (indices 1..7)
	c.utf8("Main")              // 1
	c.classRef(1)                // 2
	c.utf8("java/lang/Object")   // 3
	c.classRef(3)                // 4
	c.utf8("main")                // 5
	c.utf8("()I")                 // 6
	c.utf8("Code")                // 7

	c.u2(0x0021) // access_flags
	c.u2(2)      // this_class
	c.u2(4)      // super_class
	c.u2(0)      // interfaces_count
	c.u2(0)      // fields_count

	c.u2(1)      // methods_count
	c.u2(0x0009) // method access_flags
	c.u2(5)      // name_index ("main")
	c.u2(6)      // descriptor_index ("()I")
	c.u2(1)      // attributes_count

	code := []byte{0x08, 0xAC} // iconst_5, ireturn
	var codeAttr classBuilder
	codeAttr.u2(1)                     // max_stack
	codeAttr.u2(0)                     // max_locals
	codeAttr.u4(uint32(len(code)))     // code_length
	codeAttr.raw(code)
	codeAttr.u2(0) // exception_table_count

	c.u2(7) // attribute name_index ("Code")
	c.u4(uint32(codeAttr.buf.Len()))
	c.raw(codeAttr.buf.Bytes())

	c.u2(0) // class attributes_count

	return c.buf.Bytes()
}

func TestParseSimpleClass(t *testing.T) {
	class, err := Parse(buildSimpleClass(t))
	require.NoError(t, err)
	require.Equal(t, "Main", class.Name)
	require.Equal(t, "java/lang/Object", class.SuperName)
	require.Len(t, class.Methods, 1)

	method, ok := class.Method("main")
	require.True(t, ok)
	require.Equal(t, "()I", method.Descriptor)
	require.NotNil(t, method.Code)
	require.Equal(t, []byte{0x08, 0xAC}, method.Code.Bytecode)
	require.EqualValues(t, 1, method.Code.MaxStack)
}

func TestParseBadMagic(t *testing.T) {
	data := buildSimpleClass(t)
	data[0] = 0x00
	_, err := Parse(data)
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestParseUnknownConstantTag(t *testing.T) {
	var c classBuilder
	c.u4(Magic)
	c.u2(0)
	c.u2(52)
	c.u2(2) // constant_pool_count
	c.u1(99) // unrecognized tag
	_, err := Parse(c.buf.Bytes())
	require.ErrorIs(t, err, ErrUnknownTag)
}

func TestParseTruncated(t *testing.T) {
	data := buildSimpleClass(t)
	_, err := Parse(data[:10])
	require.Error(t, err)
}

func TestLongConstantConsumesTwoSlots(t *testing.T) {
	var c classBuilder
	c.u4(Magic)
	c.u2(0)
	c.u2(52)

	c.u2(5) // constant_pool_count: indices 1 (Long, 2 slots), 3 (Utf8), 4 (ClassRef)
	c.u1(byte(TagLong))
	c.u4(0)
	c.u4(42) // Long value 42, spanning indices 1 and 2
	c.utf8("Main") // index 3
	c.classRef(3)  // index 4

	c.u2(0x0021)
	c.u2(4) // this_class -> index 4 (ClassRef to "Main")
	c.u2(0) // super_class 0 (java/lang/Object convention)
	c.u2(0)
	c.u2(0)
	c.u2(0)
	c.u2(0)

	class, err := Parse(c.buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, "Main", class.Name)

	long, ok := class.ConstantPool[1].(Long)
	require.True(t, ok)
	require.EqualValues(t, 42, long.Value)

	_, ok = class.ConstantPool[2].(Reserved)
	require.True(t, ok, "index 2 must be the reserved slot a Long entry consumes")
}
