package interp

import (
	"math"

	"github.com/pkg/errors"

	"jvmlite/internal/runtime"
)

func binaryInt(frame *runtime.Frame, op Opcode) error {
	b, err := frame.Pop()
	if err != nil {
		return err
	}
	a, err := frame.Pop()
	if err != nil {
		return err
	}
	av, bv := a.Int32(), b.Int32()

	var result int32
	switch op {
	case OpIadd:
		result = av + bv
	case OpIsub:
		result = av - bv
	case OpImul:
		result = av * bv
	case OpIdiv:
		if bv == 0 {
			return errors.Wrapf(ErrDivisionByZero, "in %s.%s", frame.ClassName, frame.MethodName)
		}
		result = av / bv
	case OpIrem:
		if bv == 0 {
			return errors.Wrapf(ErrDivisionByZero, "in %s.%s", frame.ClassName, frame.MethodName)
		}
		result = av % bv
	case OpIand:
		result = av & bv
	case OpIor:
		result = av | bv
	case OpIxor:
		result = av ^ bv
	}
	return frame.Push(runtime.Int(result))
}

func unaryInt(frame *runtime.Frame, fn func(int32) int32) error {
	v, err := frame.Pop()
	if err != nil {
		return err
	}
	return frame.Push(runtime.Int(fn(v.Int32())))
}

func binaryLong(frame *runtime.Frame, op Opcode) error {
	b, err := frame.Pop()
	if err != nil {
		return err
	}
	a, err := frame.Pop()
	if err != nil {
		return err
	}
	av, bv := a.Int64(), b.Int64()

	var result int64
	switch op {
	case OpLadd:
		result = av + bv
	case OpLsub:
		result = av - bv
	case OpLmul:
		result = av * bv
	case OpLdiv:
		if bv == 0 {
			return errors.Wrapf(ErrDivisionByZero, "in %s.%s", frame.ClassName, frame.MethodName)
		}
		result = av / bv
	case OpLrem:
		if bv == 0 {
			return errors.Wrapf(ErrDivisionByZero, "in %s.%s", frame.ClassName, frame.MethodName)
		}
		result = av % bv
	}
	return frame.Push(runtime.Long(result))
}

func unaryLong(frame *runtime.Frame, fn func(int64) int64) error {
	v, err := frame.Pop()
	if err != nil {
		return err
	}
	return frame.Push(runtime.Long(fn(v.Int64())))
}

func binaryFloat(frame *runtime.Frame, op Opcode) error {
	b, err := frame.Pop()
	if err != nil {
		return err
	}
	a, err := frame.Pop()
	if err != nil {
		return err
	}
	av, bv := a.Float32Val(), b.Float32Val()

	var result float32
	switch op {
	case OpFadd:
		result = av + bv
	case OpFsub:
		result = av - bv
	case OpFmul:
		result = av * bv
	case OpFdiv:
		result = av / bv
	case OpFrem:
		result = float32(math.Mod(float64(av), float64(bv)))
	}
	return frame.Push(runtime.Float32(result))
}

func unaryFloat(frame *runtime.Frame, fn func(float32) float32) error {
	v, err := frame.Pop()
	if err != nil {
		return err
	}
	return frame.Push(runtime.Float32(fn(v.Float32Val())))
}

func binaryDouble(frame *runtime.Frame, op Opcode) error {
	b, err := frame.Pop()
	if err != nil {
		return err
	}
	a, err := frame.Pop()
	if err != nil {
		return err
	}
	av, bv := a.Float64Val(), b.Float64Val()

	var result float64
	switch op {
	case OpDadd:
		result = av + bv
	case OpDsub:
		result = av - bv
	case OpDmul:
		result = av * bv
	case OpDdiv:
		result = av / bv
	case OpDrem:
		result = math.Mod(av, bv)
	}
	return frame.Push(runtime.Float64(result))
}

func unaryDouble(frame *runtime.Frame, fn func(float64) float64) error {
	v, err := frame.Pop()
	if err != nil {
		return err
	}
	return frame.Push(runtime.Float64(fn(v.Float64Val())))
}

func convert(frame *runtime.Frame, fn func(runtime.Value) runtime.Value) error {
	v, err := frame.Pop()
	if err != nil {
		return err
	}
	return frame.Push(fn(v))
}

func compareLong(frame *runtime.Frame) error {
	b, err := frame.Pop()
	if err != nil {
		return err
	}
	a, err := frame.Pop()
	if err != nil {
		return err
	}
	av, bv := a.Int64(), b.Int64()
	switch {
	case av < bv:
		return frame.Push(runtime.Int(-1))
	case av > bv:
		return frame.Push(runtime.Int(1))
	default:
		return frame.Push(runtime.Int(0))
	}
}

// compareFloat implements fcmpl/fcmpg: nanResult is -1 for fcmpl, 1 for
// fcmpg, returned whenever either operand is NaN.
func compareFloat(frame *runtime.Frame, nanResult int32) error {
	b, err := frame.Pop()
	if err != nil {
		return err
	}
	a, err := frame.Pop()
	if err != nil {
		return err
	}
	av, bv := a.Float32Val(), b.Float32Val()
	if av != av || bv != bv {
		return frame.Push(runtime.Int(nanResult))
	}
	switch {
	case av < bv:
		return frame.Push(runtime.Int(-1))
	case av > bv:
		return frame.Push(runtime.Int(1))
	default:
		return frame.Push(runtime.Int(0))
	}
}

func compareDouble(frame *runtime.Frame, nanResult int32) error {
	b, err := frame.Pop()
	if err != nil {
		return err
	}
	a, err := frame.Pop()
	if err != nil {
		return err
	}
	av, bv := a.Float64Val(), b.Float64Val()
	if av != av || bv != bv {
		return frame.Push(runtime.Int(nanResult))
	}
	switch {
	case av < bv:
		return frame.Push(runtime.Int(-1))
	case av > bv:
		return frame.Push(runtime.Int(1))
	default:
		return frame.Push(runtime.Int(0))
	}
}
