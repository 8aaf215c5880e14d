package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"jvmlite/internal/runtime"
)

func TestShimStringBuilderAppendChain(t *testing.T) {
	it := New(strings.NewReader(""), &bytes.Buffer{}, nil)
	ref, err := it.Strings.NewMutable("count: ")
	require.NoError(t, err)
	recv := runtime.Ref(ref)

	result, ok, err := shimBuilderAppendInt(it, &recv, []runtime.Value{runtime.Int(42)})
	require.NoError(t, err)
	require.True(t, ok)

	result, ok, err = shimBuilderAppendString(it, &result, []runtime.Value{func() runtime.Value {
		r, err := it.Strings.Intern("!")
		require.NoError(t, err)
		return runtime.Ref(r)
	}()})
	require.NoError(t, err)
	require.True(t, ok)

	str, ok, err := shimBuilderToString(it, &result, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "count: 42!", str.RefVal().Get())
}

func TestShimMathMaxMin(t *testing.T) {
	it := New(strings.NewReader(""), &bytes.Buffer{}, nil)

	v, ok, err := shimMathMax(it, nil, []runtime.Value{runtime.Int(3), runtime.Int(9)})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int32(9), v.Int32())

	v, ok, err = shimMathMin(it, nil, []runtime.Value{runtime.Int(3), runtime.Int(9)})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int32(3), v.Int32())
}

func TestShimScannerNextLineTrimsNewline(t *testing.T) {
	it := New(strings.NewReader("hello world\r\nsecond"), &bytes.Buffer{}, nil)

	v, ok, err := shimScannerNextLine(it, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hello world", v.RefVal().Get())
}

func TestLookupShimExactTriple(t *testing.T) {
	_, ok := lookupShim("java/io/PrintStream", "println", "(I)V")
	require.True(t, ok)

	_, ok = lookupShim("com/example/NotPrintStream", "println", "(I)V")
	require.False(t, ok, "lookup must not substring-match class names")
}
