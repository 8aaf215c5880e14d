package vm

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jvmlite/internal/classfile"
)

// writeHelloClass writes a minimal class file (main()V -> iconst_2;
// iconst_3; iadd; invokestatic println(I)V; return) to dir and returns
// its path.
func writeHelloClass(t *testing.T, dir string) string {
	t.Helper()

	var buf bytes.Buffer
	w := func(p []byte) { buf.Write(p) }
	u2 := func(v uint16) { w([]byte{byte(v >> 8), byte(v)}) }
	u4 := func(v uint32) { w([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}) }
	utf8 := func(s string) {
		w([]byte{byte(classfile.TagUtf8)})
		u2(uint16(len(s)))
		w([]byte(s))
	}
	classRef := func(idx uint16) {
		w([]byte{byte(classfile.TagClassRef)})
		u2(idx)
	}

	u4(classfile.Magic)
	u2(0)
	u2(52)

	natEntry := func(nameIdx, descIdx uint16) {
		w([]byte{byte(classfile.TagNameAndType)})
		u2(nameIdx)
		u2(descIdx)
	}
	methodRefEntry := func(classIdx, natIdx uint16) {
		w([]byte{byte(classfile.TagMethodRef)})
		u2(classIdx)
		u2(natIdx)
	}

	u2(15) // constant_pool_count
	utf8("Main")              // 1
	classRef(1)                 // 2
	utf8("java/lang/Object")    // 3
	classRef(3)                  // 4
	utf8("main")                   // 5
	utf8("()V")                    // 6
	utf8("Code")                    // 7
	utf8("java/lang/System")         // 8
	classRef(8)                       // 9
	utf8("println")                    // 10
	utf8("(I)V")                        // 11
	natEntry(10, 11)                     // 12
	methodRefEntry(9, 12)                 // 13
	utf8("unused padding")                // 14

	u2(0x0021)
	u2(2)
	u2(4)
	u2(0)
	u2(0)

	u2(1)      // methods_count
	u2(0x0009) // access_flags
	u2(5)      // name_index
	u2(6)      // descriptor_index
	u2(1)      // attributes_count

	code := []byte{0x05, 0x06, 0x60, 0xB8, 0x00, 0x0D, 0xB1} // iconst_2, iconst_3, iadd, invokestatic #13, return
	u2(7)                                                    // attribute name_index ("Code")
	u4(uint32(2 + 2 + 4 + len(code) + 2))
	u2(2) // max_stack
	u2(0) // max_locals
	u4(uint32(len(code)))
	w(code)
	u2(0) // exception_table_count

	u2(0) // class attributes_count

	path := filepath.Join(dir, "Main.class")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestVMLoadAndRun(t *testing.T) {
	path := writeHelloClass(t, t.TempDir())

	var out bytes.Buffer
	machine := New(bytes.NewReader(nil), &out, zap.NewNop().Sugar(), false)

	class, err := machine.LoadFile(path)
	require.NoError(t, err)

	_, hasResult, err := machine.Run(class, "main")
	require.NoError(t, err)
	require.False(t, hasResult)
}

func TestVMLoadFileMissing(t *testing.T) {
	machine := New(bytes.NewReader(nil), &bytes.Buffer{}, zap.NewNop().Sugar(), false)
	_, err := machine.LoadFile(filepath.Join(t.TempDir(), "missing.class"))
	require.Error(t, err)
}
