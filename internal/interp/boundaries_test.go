package interp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeBoundariesSimple(t *testing.T) {
	code := []byte{0x08, 0x06, 0x60, 0xAC} // iconst_5, iconst_3, iadd, ireturn
	boundaries, err := computeBoundaries(code)
	require.NoError(t, err)
	require.True(t, boundaries[0])
	require.True(t, boundaries[1])
	require.True(t, boundaries[2])
	require.True(t, boundaries[3])
	require.False(t, boundaries[4])
}

func TestComputeBoundariesRejectsMidInstructionTrailing(t *testing.T) {
	// sipush needs 2 operand bytes but only 1 is provided.
	code := []byte{0x11, 0x00}
	_, err := computeBoundaries(code)
	require.Error(t, err)
}

func TestComputeBoundariesWithOperands(t *testing.T) {
	code := []byte{0x10, 0x05, 0xB8, 0x00, 0x01, 0xB1} // bipush 5, invokestatic #1, return
	boundaries, err := computeBoundaries(code)
	require.NoError(t, err)
	require.True(t, boundaries[0])
	require.True(t, boundaries[2])
	require.True(t, boundaries[5])
	require.False(t, boundaries[1])
	require.False(t, boundaries[3])
	require.False(t, boundaries[4])
}
