package interp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"jvmlite/internal/runtime"
)

func TestParseDescriptorBasicTypes(t *testing.T) {
	mt, err := ParseDescriptor("(IJFD)V")
	require.NoError(t, err)
	require.Equal(t, []runtime.Kind{runtime.KindInt, runtime.KindLong, runtime.KindFloat, runtime.KindDouble}, mt.Params)
	require.True(t, mt.Void)
}

func TestParseDescriptorStringParamAndReturn(t *testing.T) {
	mt, err := ParseDescriptor("(Ljava/lang/String;I)Ljava/lang/String;")
	require.NoError(t, err)
	require.Equal(t, []runtime.Kind{runtime.KindRef, runtime.KindInt}, mt.Params)
	require.False(t, mt.Void)
	require.Equal(t, runtime.KindRef, mt.ReturnKind)
}

func TestParseDescriptorArray(t *testing.T) {
	mt, err := ParseDescriptor("([Ljava/lang/String;)V")
	require.NoError(t, err)
	require.Equal(t, []runtime.Kind{runtime.KindRef}, mt.Params)
}

func TestParseDescriptorMalformed(t *testing.T) {
	_, err := ParseDescriptor("II)V")
	require.ErrorIs(t, err, ErrBadDescriptor)

	_, err = ParseDescriptor("(I")
	require.ErrorIs(t, err, ErrBadDescriptor)

	_, err = ParseDescriptor("(X)V")
	require.ErrorIs(t, err, ErrBadDescriptor)
}
