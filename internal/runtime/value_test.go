package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueConstructorsRoundTrip(t *testing.T) {
	require.Equal(t, int32(-7), Int(-7).Int32())
	require.Equal(t, int64(1<<40), Long(1<<40).Int64())
	require.Equal(t, float32(1.5), Float32(1.5).Float32Val())
	require.Equal(t, 3.25, Float64(3.25).Float64Val())

	pool := NewStringPool()
	ref, err := pool.Intern("hi")
	require.NoError(t, err)
	require.Equal(t, "hi", Ref(ref).RefVal().Get())

	require.Nil(t, NullRef.RefVal())
}

func TestValueKindMismatchPanics(t *testing.T) {
	require.Panics(t, func() {
		Int(1).Float64Val()
	})
}
