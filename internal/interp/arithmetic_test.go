package interp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"jvmlite/internal/runtime"
)

func newTestFrame(t *testing.T, maxStack int) *runtime.Frame {
	t.Helper()
	frame, err := runtime.NewFrame("Main", "test", "()V", 4, maxStack)
	require.NoError(t, err)
	return frame
}

func TestBinaryIntOps(t *testing.T) {
	frame := newTestFrame(t, 2)
	require.NoError(t, frame.Push(runtime.Int(7)))
	require.NoError(t, frame.Push(runtime.Int(3)))
	require.NoError(t, binaryInt(frame, OpIadd))
	v, err := frame.Pop()
	require.NoError(t, err)
	require.Equal(t, int32(10), v.Int32())

	require.NoError(t, frame.Push(runtime.Int(7)))
	require.NoError(t, frame.Push(runtime.Int(0)))
	err = binaryInt(frame, OpIdiv)
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestBinaryIntRemByZero(t *testing.T) {
	frame := newTestFrame(t, 2)
	require.NoError(t, frame.Push(runtime.Int(7)))
	require.NoError(t, frame.Push(runtime.Int(0)))
	err := binaryInt(frame, OpIrem)
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestBinaryLongDivByZero(t *testing.T) {
	frame := newTestFrame(t, 2)
	require.NoError(t, frame.Push(runtime.Long(5)))
	require.NoError(t, frame.Push(runtime.Long(0)))
	err := binaryLong(frame, OpLdiv)
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestBinaryFloatDivByZeroYieldsInf(t *testing.T) {
	frame := newTestFrame(t, 2)
	require.NoError(t, frame.Push(runtime.Float32(1)))
	require.NoError(t, frame.Push(runtime.Float32(0)))
	require.NoError(t, binaryFloat(frame, OpFdiv))
	v, err := frame.Pop()
	require.NoError(t, err)
	require.True(t, math.IsInf(float64(v.Float32Val()), 1))
}

func TestBinaryDoubleRem(t *testing.T) {
	frame := newTestFrame(t, 2)
	require.NoError(t, frame.Push(runtime.Float64(5.5)))
	require.NoError(t, frame.Push(runtime.Float64(2)))
	require.NoError(t, binaryDouble(frame, OpDrem))
	v, err := frame.Pop()
	require.NoError(t, err)
	require.Equal(t, 1.5, v.Float64Val())
}

func TestCompareLong(t *testing.T) {
	frame := newTestFrame(t, 2)
	require.NoError(t, frame.Push(runtime.Long(1)))
	require.NoError(t, frame.Push(runtime.Long(2)))
	require.NoError(t, compareLong(frame))
	v, err := frame.Pop()
	require.NoError(t, err)
	require.Equal(t, int32(-1), v.Int32())
}

func TestCompareFloatNaN(t *testing.T) {
	frame := newTestFrame(t, 2)
	require.NoError(t, frame.Push(runtime.Float32(float32(math.NaN()))))
	require.NoError(t, frame.Push(runtime.Float32(1)))
	require.NoError(t, compareFloat(frame, -1))
	v, err := frame.Pop()
	require.NoError(t, err)
	require.Equal(t, int32(-1), v.Int32())

	require.NoError(t, frame.Push(runtime.Float32(float32(math.NaN()))))
	require.NoError(t, frame.Push(runtime.Float32(1)))
	require.NoError(t, compareFloat(frame, 1))
	v, err = frame.Pop()
	require.NoError(t, err)
	require.Equal(t, int32(1), v.Int32())
}

func TestCompareDoubleOrdering(t *testing.T) {
	frame := newTestFrame(t, 2)
	require.NoError(t, frame.Push(runtime.Float64(3)))
	require.NoError(t, frame.Push(runtime.Float64(2)))
	require.NoError(t, compareDouble(frame, -1))
	v, err := frame.Pop()
	require.NoError(t, err)
	require.Equal(t, int32(1), v.Int32())
}

func TestFloatToInt32Saturation(t *testing.T) {
	require.Equal(t, int32(0), floatToInt32(float32(math.NaN())))
	require.Equal(t, int32(math.MaxInt32), floatToInt32(float32(math.Inf(1))))
	require.Equal(t, int32(math.MinInt32), floatToInt32(float32(math.Inf(-1))))
	require.Equal(t, int32(42), floatToInt32(42.9))
}

func TestDoubleToInt64Saturation(t *testing.T) {
	require.Equal(t, int64(0), doubleToInt64(math.NaN()))
	require.Equal(t, int64(math.MaxInt64), doubleToInt64(math.Inf(1)))
	require.Equal(t, int64(math.MinInt64), doubleToInt64(math.Inf(-1)))
	require.Equal(t, int64(-7), doubleToInt64(-7.9))
}

func TestI2lSignExtendsViaConvert(t *testing.T) {
	frame := newTestFrame(t, 1)
	require.NoError(t, frame.Push(runtime.Int(-1)))
	require.NoError(t, convert(frame, func(v runtime.Value) runtime.Value { return runtime.Long(int64(v.Int32())) }))
	v, err := frame.Pop()
	require.NoError(t, err)
	require.Equal(t, int64(-1), v.Int64())
}

func TestL2iTakesLowBitsViaConvert(t *testing.T) {
	frame := newTestFrame(t, 1)
	require.NoError(t, frame.Push(runtime.Long(0x1_0000_0005)))
	require.NoError(t, convert(frame, func(v runtime.Value) runtime.Value { return runtime.Int(int32(v.Int64())) }))
	v, err := frame.Pop()
	require.NoError(t, err)
	require.Equal(t, int32(5), v.Int32())
}
