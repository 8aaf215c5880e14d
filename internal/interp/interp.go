// Package interp implements the fetch-decode-dispatch interpreter over
// the supported JVM opcode set, invocation/return handling, and
// host-shim dispatch.
package interp

import (
	"bufio"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"jvmlite/internal/classfile"
	"jvmlite/internal/runtime"
)

// MaxLoadedClasses bounds the VM's class registry.
const MaxLoadedClasses = 32

// Interp is the VM-wide interpreter state: loaded classes, the string
// pool, host I/O streams, and the resource budget counters.
type Interp struct {
	Classes map[string]*classfile.Class
	Strings *runtime.StringPool

	Stdin  *bufio.Reader
	Stdout *bufio.Writer

	Log *zap.SugaredLogger

	activeStackSlots int
	activeLocalSlots int

	// staticFieldRef is a single shared non-null placeholder pushed by
	// every getstatic — the shim table never inspects the receiver for
	// print/println, so every access to a static field (System.out and
	// friends) can safely reuse the one ref instead of interning a fresh
	// pool entry per call.
	staticFieldRef runtime.Value
}

// New constructs an Interp reading from stdin and writing to stdout.
func New(stdin io.Reader, stdout io.Writer, log *zap.SugaredLogger) *Interp {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	pool := runtime.NewStringPool()
	ref, _ := pool.Intern("") // pool starts empty; cannot fail
	return &Interp{
		Classes:        make(map[string]*classfile.Class),
		Strings:        pool,
		Stdin:          bufio.NewReader(stdin),
		Stdout:         bufio.NewWriter(stdout),
		Log:            log,
		staticFieldRef: runtime.Ref(ref),
	}
}

// LoadClass registers class in the VM's class registry, keyed by its
// resolved name.
func (it *Interp) LoadClass(class *classfile.Class) error {
	if len(it.Classes) >= MaxLoadedClasses {
		return errors.Wrapf(ErrTooManyClasses, "limit %d", MaxLoadedClasses)
	}
	it.Classes[class.Name] = class
	it.Log.Debugw("class loaded", "class", class.Name, "methods", len(class.Methods))
	return nil
}

// Invoke runs methodName on the given class with no arguments (the CLI
// entry point: main([Ljava/lang/String;)V, called with a null args array
// since argv plumbing is out of scope). It returns the method's return
// value (full width; only the CLI boundary narrows it) and whether the
// method was non-void.
func (it *Interp) Invoke(class *classfile.Class, methodName string) (runtime.Value, bool, error) {
	member, ok := class.Method(methodName)
	if !ok {
		return runtime.Value{}, false, errors.Wrapf(ErrMethodNotFound, "%s.%s", class.Name, methodName)
	}

	mt, err := ParseDescriptor(member.Descriptor)
	if err != nil {
		return runtime.Value{}, false, err
	}

	// The CLI only ever invokes a static, argument-less entry point in
	// this core (main([Ljava/lang/String;)V or a nullary method); a
	// null args-array slot is supplied when the descriptor expects one
	// so stack/locals layout still lines up.
	args := make([]runtime.Value, len(mt.Params))
	for i, k := range mt.Params {
		if k == runtime.KindRef {
			args[i] = runtime.NullRef
		}
	}

	return it.invokeMember(class, member, args)
}

func (it *Interp) invokeMember(class *classfile.Class, member *classfile.Member, args []runtime.Value) (runtime.Value, bool, error) {
	if member.Code == nil {
		return runtime.Value{}, false, errors.Wrapf(ErrMethodNotFound, "%s.%s has no Code attribute", class.Name, member.Name)
	}

	frame, err := runtime.NewFrame(class.Name, member.Name, member.Descriptor, int(member.Code.MaxLocals), int(member.Code.MaxStack))
	if err != nil {
		return runtime.Value{}, false, err
	}

	if err := it.reserveBudget(int(member.Code.MaxStack), int(member.Code.MaxLocals)); err != nil {
		return runtime.Value{}, false, err
	}
	defer it.releaseBudget(int(member.Code.MaxStack), int(member.Code.MaxLocals))

	for i, v := range args {
		if err := frame.StoreLocal(i, v); err != nil {
			return runtime.Value{}, false, err
		}
	}

	boundaries, err := computeBoundaries(member.Code.Bytecode)
	if err != nil {
		return runtime.Value{}, false, errors.Wrapf(err, "%s.%s", class.Name, member.Name)
	}

	return it.run(class, frame, member.Code.Bytecode, boundaries)
}

func (it *Interp) reserveBudget(stackSlots, localSlots int) error {
	if it.activeStackSlots+stackSlots > runtime.MaxTotalOperandSlots {
		return errors.Wrapf(runtime.ErrStackOverflow, "VM-wide operand budget %d exceeded", runtime.MaxTotalOperandSlots)
	}
	if it.activeLocalSlots+localSlots > runtime.MaxTotalLocals {
		return errors.Wrapf(runtime.ErrLocalsOutOfRange, "VM-wide locals budget %d exceeded", runtime.MaxTotalLocals)
	}
	it.activeStackSlots += stackSlots
	it.activeLocalSlots += localSlots
	return nil
}

func (it *Interp) releaseBudget(stackSlots, localSlots int) {
	it.activeStackSlots -= stackSlots
	it.activeLocalSlots -= localSlots
}

// run is the fetch-decode-dispatch loop for one frame. It returns once a
// return opcode is hit, translating it into (value, hasValue, nil).
func (it *Interp) run(class *classfile.Class, frame *runtime.Frame, code []byte, boundaries map[int]bool) (runtime.Value, bool, error) {
	pool := class.ConstantPool

	for {
		if frame.PC < 0 || frame.PC >= len(code) {
			return runtime.Value{}, false, errors.Wrapf(ErrBadBranchTarget, "pc %d out of range in %s.%s", frame.PC, class.Name, frame.MethodName)
		}

		opPC := frame.PC
		op := Opcode(code[opPC])
		if operands, ok := operandLen(op); ok {
			frame.PC = opPC + 1 + operands
		} else {
			frame.PC = opPC + 1
		}

		switch op {
		case OpNop:

		case OpAconstNull:
			if err := frame.Push(runtime.NullRef); err != nil {
				return runtime.Value{}, false, err
			}

		case OpIconstM1, OpIconst0, OpIconst1, OpIconst2, OpIconst3, OpIconst4, OpIconst5:
			if err := frame.Push(runtime.Int(int32(op) - int32(OpIconst0))); err != nil {
				return runtime.Value{}, false, err
			}

		case OpLconst0, OpLconst1:
			if err := frame.Push(runtime.Long(int64(op) - int64(OpLconst0))); err != nil {
				return runtime.Value{}, false, err
			}

		case OpFconst0, OpFconst1, OpFconst2:
			if err := frame.Push(runtime.Float32(float32(int(op) - int(OpFconst0)))); err != nil {
				return runtime.Value{}, false, err
			}

		case OpDconst0, OpDconst1:
			if err := frame.Push(runtime.Float64(float64(int(op) - int(OpDconst0)))); err != nil {
				return runtime.Value{}, false, err
			}

		case OpBipush:
			b := code[opPC+1]
			if err := frame.Push(runtime.Int(int32(int8(b)))); err != nil {
				return runtime.Value{}, false, err
			}

		case OpSipush:
			v := int16(uint16(code[opPC+1])<<8 | uint16(code[opPC+2]))
			if err := frame.Push(runtime.Int(int32(v))); err != nil {
				return runtime.Value{}, false, err
			}

		case OpLdc:
			idx := uint16(code[opPC+1])
			v, err := loadConstant(pool, idx, it.Strings)
			if err != nil {
				return runtime.Value{}, false, err
			}
			if err := frame.Push(v); err != nil {
				return runtime.Value{}, false, err
			}

		case OpIload, OpLload, OpFload, OpDload, OpAload:
			idx := int(code[opPC+1])
			v, err := frame.LoadLocal(idx)
			if err != nil {
				return runtime.Value{}, false, err
			}
			if err := frame.Push(v); err != nil {
				return runtime.Value{}, false, err
			}

		case OpIload0, OpAload0:
			if err := pushLocal(frame, 0); err != nil {
				return runtime.Value{}, false, err
			}
		case OpIload1, OpAload1:
			if err := pushLocal(frame, 1); err != nil {
				return runtime.Value{}, false, err
			}
		case OpIload2, OpAload2:
			if err := pushLocal(frame, 2); err != nil {
				return runtime.Value{}, false, err
			}
		case OpIload3, OpAload3:
			if err := pushLocal(frame, 3); err != nil {
				return runtime.Value{}, false, err
			}

		case OpIstore, OpLstore, OpFstore, OpDstore, OpAstore:
			idx := int(code[opPC+1])
			v, err := frame.Pop()
			if err != nil {
				return runtime.Value{}, false, err
			}
			if err := frame.StoreLocal(idx, v); err != nil {
				return runtime.Value{}, false, err
			}

		case OpIstore0, OpAstore0:
			if err := storeLocal(frame, 0); err != nil {
				return runtime.Value{}, false, err
			}
		case OpIstore1, OpAstore1:
			if err := storeLocal(frame, 1); err != nil {
				return runtime.Value{}, false, err
			}
		case OpIstore2, OpAstore2:
			if err := storeLocal(frame, 2); err != nil {
				return runtime.Value{}, false, err
			}
		case OpIstore3, OpAstore3:
			if err := storeLocal(frame, 3); err != nil {
				return runtime.Value{}, false, err
			}

		case OpPop:
			if _, err := frame.Pop(); err != nil {
				return runtime.Value{}, false, err
			}
		case OpDup:
			if err := frame.Dup(); err != nil {
				return runtime.Value{}, false, err
			}
		case OpSwap:
			if err := frame.Swap(); err != nil {
				return runtime.Value{}, false, err
			}

		case OpIadd, OpIsub, OpImul, OpIdiv, OpIrem, OpIand, OpIor, OpIxor:
			if err := binaryInt(frame, op); err != nil {
				return runtime.Value{}, false, err
			}
		case OpIneg:
			if err := unaryInt(frame, func(v int32) int32 { return -v }); err != nil {
				return runtime.Value{}, false, err
			}

		case OpLadd, OpLsub, OpLmul, OpLdiv, OpLrem:
			if err := binaryLong(frame, op); err != nil {
				return runtime.Value{}, false, err
			}
		case OpLneg:
			if err := unaryLong(frame, func(v int64) int64 { return -v }); err != nil {
				return runtime.Value{}, false, err
			}

		case OpFadd, OpFsub, OpFmul, OpFdiv, OpFrem:
			if err := binaryFloat(frame, op); err != nil {
				return runtime.Value{}, false, err
			}
		case OpFneg:
			if err := unaryFloat(frame, func(v float32) float32 { return -v }); err != nil {
				return runtime.Value{}, false, err
			}

		case OpDadd, OpDsub, OpDmul, OpDdiv, OpDrem:
			if err := binaryDouble(frame, op); err != nil {
				return runtime.Value{}, false, err
			}
		case OpDneg:
			if err := unaryDouble(frame, func(v float64) float64 { return -v }); err != nil {
				return runtime.Value{}, false, err
			}

		case OpI2l:
			if err := convert(frame, func(v runtime.Value) runtime.Value { return runtime.Long(int64(v.Int32())) }); err != nil {
				return runtime.Value{}, false, err
			}
		case OpI2f:
			if err := convert(frame, func(v runtime.Value) runtime.Value { return runtime.Float32(float32(v.Int32())) }); err != nil {
				return runtime.Value{}, false, err
			}
		case OpI2d:
			if err := convert(frame, func(v runtime.Value) runtime.Value { return runtime.Float64(float64(v.Int32())) }); err != nil {
				return runtime.Value{}, false, err
			}
		case OpL2i:
			if err := convert(frame, func(v runtime.Value) runtime.Value { return runtime.Int(int32(v.Int64())) }); err != nil {
				return runtime.Value{}, false, err
			}
		case OpL2f:
			if err := convert(frame, func(v runtime.Value) runtime.Value { return runtime.Float32(float32(v.Int64())) }); err != nil {
				return runtime.Value{}, false, err
			}
		case OpL2d:
			if err := convert(frame, func(v runtime.Value) runtime.Value { return runtime.Float64(float64(v.Int64())) }); err != nil {
				return runtime.Value{}, false, err
			}
		case OpF2i:
			if err := convert(frame, func(v runtime.Value) runtime.Value { return runtime.Int(floatToInt32(v.Float32Val())) }); err != nil {
				return runtime.Value{}, false, err
			}
		case OpF2l:
			if err := convert(frame, func(v runtime.Value) runtime.Value { return runtime.Long(floatToInt64(v.Float32Val())) }); err != nil {
				return runtime.Value{}, false, err
			}
		case OpF2d:
			if err := convert(frame, func(v runtime.Value) runtime.Value { return runtime.Float64(float64(v.Float32Val())) }); err != nil {
				return runtime.Value{}, false, err
			}
		case OpD2i:
			if err := convert(frame, func(v runtime.Value) runtime.Value { return runtime.Int(doubleToInt32(v.Float64Val())) }); err != nil {
				return runtime.Value{}, false, err
			}
		case OpD2l:
			if err := convert(frame, func(v runtime.Value) runtime.Value { return runtime.Long(doubleToInt64(v.Float64Val())) }); err != nil {
				return runtime.Value{}, false, err
			}
		case OpD2f:
			if err := convert(frame, func(v runtime.Value) runtime.Value { return runtime.Float32(float32(v.Float64Val())) }); err != nil {
				return runtime.Value{}, false, err
			}

		case OpLcmp:
			if err := compareLong(frame); err != nil {
				return runtime.Value{}, false, err
			}
		case OpFcmpl:
			if err := compareFloat(frame, -1); err != nil {
				return runtime.Value{}, false, err
			}
		case OpFcmpg:
			if err := compareFloat(frame, 1); err != nil {
				return runtime.Value{}, false, err
			}
		case OpDcmpl:
			if err := compareDouble(frame, -1); err != nil {
				return runtime.Value{}, false, err
			}
		case OpDcmpg:
			if err := compareDouble(frame, 1); err != nil {
				return runtime.Value{}, false, err
			}

		case OpIfeq, OpIfne, OpIflt, OpIfge, OpIfgt, OpIfle:
			v, err := frame.Pop()
			if err != nil {
				return runtime.Value{}, false, err
			}
			if branchUnary(op, v.Int32()) {
				if err := doBranch(frame, boundaries, opPC, code); err != nil {
					return runtime.Value{}, false, err
				}
				continue
			}

		case OpIfIcmpeq, OpIfIcmpne, OpIfIcmplt, OpIfIcmpge, OpIfIcmpgt, OpIfIcmple:
			b, err := frame.Pop()
			if err != nil {
				return runtime.Value{}, false, err
			}
			a, err := frame.Pop()
			if err != nil {
				return runtime.Value{}, false, err
			}
			if branchBinary(op, a.Int32(), b.Int32()) {
				if err := doBranch(frame, boundaries, opPC, code); err != nil {
					return runtime.Value{}, false, err
				}
				continue
			}

		case OpGoto:
			if err := doBranch(frame, boundaries, opPC, code); err != nil {
				return runtime.Value{}, false, err
			}
			continue

		case OpIreturn, OpFreturn:
			v, err := frame.Pop()
			if err != nil {
				return runtime.Value{}, false, err
			}
			return v, true, nil
		case OpLreturn, OpDreturn:
			v, err := frame.Pop()
			if err != nil {
				return runtime.Value{}, false, err
			}
			return v, true, nil
		case OpAreturn:
			v, err := frame.Pop()
			if err != nil {
				return runtime.Value{}, false, err
			}
			return v, true, nil
		case OpReturn:
			return runtime.Value{}, false, nil

		case OpGetstatic:
			// Non-null placeholder satisfying the System.out idiom; the
			// shim table ignores the receiver entirely for print/println.
			if err := frame.Push(it.staticFieldRef); err != nil {
				return runtime.Value{}, false, err
			}

		case OpNew:
			idx := uint16(code[opPC+1])<<8 | uint16(code[opPC+2])
			name, err := pool.ClassName(idx)
			if err != nil {
				return runtime.Value{}, false, err
			}
			switch {
			case strings.Contains(name, "StringBuilder"), strings.Contains(name, "Scanner"):
				// Each instance needs its own appendable storage, so this
				// always allocates a fresh slot rather than deduping.
				ref, err := it.Strings.NewMutable("")
				if err != nil {
					return runtime.Value{}, false, err
				}
				if err := frame.Push(runtime.Ref(ref)); err != nil {
					return runtime.Value{}, false, err
				}
			default:
				if err := frame.Push(runtime.NullRef); err != nil {
					return runtime.Value{}, false, err
				}
			}

		case OpInvokestatic, OpInvokevirtual, OpInvokespecial:
			idx := uint16(code[opPC+1])<<8 | uint16(code[opPC+2])
			v, hasValue, err := it.invoke(class, frame, op, idx)
			if err != nil {
				return runtime.Value{}, false, err
			}
			if hasValue {
				if err := frame.Push(v); err != nil {
					return runtime.Value{}, false, err
				}
			}

		default:
			return runtime.Value{}, false, errors.Wrapf(ErrUnknownOpcode, "opcode %#02x at %s.%s+%d", byte(op), class.Name, frame.MethodName, opPC)
		}
	}
}

func (it *Interp) invoke(class *classfile.Class, frame *runtime.Frame, op Opcode, methodRefIdx uint16) (runtime.Value, bool, error) {
	targetClass, name, descriptor, err := class.ConstantPool.MethodRefAt(methodRefIdx)
	if err != nil {
		return runtime.Value{}, false, errors.Wrapf(ErrUnresolvedSymbol, "%v", err)
	}

	mt, err := ParseDescriptor(descriptor)
	if err != nil {
		return runtime.Value{}, false, err
	}

	args := make([]runtime.Value, len(mt.Params))
	for i := len(mt.Params) - 1; i >= 0; i-- {
		v, err := frame.Pop()
		if err != nil {
			return runtime.Value{}, false, err
		}
		args[i] = v
	}

	var recv *runtime.Value
	if op == OpInvokevirtual || op == OpInvokespecial {
		v, err := frame.Pop()
		if err != nil {
			return runtime.Value{}, false, err
		}
		recv = &v
	}

	if fn, ok := lookupShim(targetClass, name, descriptor); ok {
		result, hasResult, err := fn(it, recv, args)
		if err != nil {
			return runtime.Value{}, false, err
		}
		return result, hasResult && !mt.Void, nil
	}

	if op == OpInvokespecial && name == "<init>" {
		// Constructors of unrecognized host-shim classes are no-ops.
		return runtime.Value{}, false, nil
	}

	target, ok := it.Classes[targetClass]
	if !ok {
		target = class
	}
	if target.Name != targetClass && target == class {
		return runtime.Value{}, false, errors.Wrapf(ErrMethodNotFound, "%s.%s%s not loaded and not a host shim", targetClass, name, descriptor)
	}

	member, ok := target.Method(name)
	if !ok {
		return runtime.Value{}, false, errors.Wrapf(ErrMethodNotFound, "%s.%s%s", targetClass, name, descriptor)
	}

	result, hasResult, err := it.invokeMember(target, member, args)
	if err != nil {
		return runtime.Value{}, false, err
	}
	return result, hasResult && !mt.Void, nil
}

func loadConstant(pool classfile.Pool, idx uint16, strings *runtime.StringPool) (runtime.Value, error) {
	c, ok := pool[idx]
	if !ok {
		return runtime.Value{}, errors.Wrapf(ErrUnresolvedSymbol, "ldc index %d", idx)
	}
	switch v := c.(type) {
	case classfile.Integer:
		return runtime.Int(v.Value), nil
	case classfile.Float:
		return runtime.Float32(v.Value), nil
	case classfile.StringRef:
		s, err := pool.Utf8At(v.Utf8Index)
		if err != nil {
			return runtime.Value{}, err
		}
		ref, err := strings.Intern(s)
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.Ref(ref), nil
	default:
		return runtime.Value{}, errors.Wrapf(ErrUnresolvedSymbol, "ldc index %d is not Integer/Float/StringRef (got %T)", idx, c)
	}
}

func pushLocal(frame *runtime.Frame, idx int) error {
	v, err := frame.LoadLocal(idx)
	if err != nil {
		return err
	}
	return frame.Push(v)
}

func storeLocal(frame *runtime.Frame, idx int) error {
	v, err := frame.Pop()
	if err != nil {
		return err
	}
	return frame.StoreLocal(idx, v)
}

func doBranch(frame *runtime.Frame, boundaries map[int]bool, opPC int, code []byte) error {
	offset := int32(int16(uint16(code[opPC+1])<<8 | uint16(code[opPC+2])))
	target := opPC + int(offset)
	if target < 0 || target > len(code) || !boundaries[target] {
		return errors.Wrapf(ErrBadBranchTarget, "target %d from %d", target, opPC)
	}
	frame.PC = target
	return nil
}

func branchUnary(op Opcode, v int32) bool {
	switch op {
	case OpIfeq:
		return v == 0
	case OpIfne:
		return v != 0
	case OpIflt:
		return v < 0
	case OpIfge:
		return v >= 0
	case OpIfgt:
		return v > 0
	case OpIfle:
		return v <= 0
	default:
		return false
	}
}

func branchBinary(op Opcode, a, b int32) bool {
	switch op {
	case OpIfIcmpeq:
		return a == b
	case OpIfIcmpne:
		return a != b
	case OpIfIcmplt:
		return a < b
	case OpIfIcmpge:
		return a >= b
	case OpIfIcmpgt:
		return a > b
	case OpIfIcmple:
		return a <= b
	default:
		return false
	}
}

func floatToInt32(f float32) int32 {
	if f != f { // NaN
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	if f <= math.MinInt32 {
		return math.MinInt32
	}
	return int32(f)
}

func floatToInt64(f float32) int64 {
	if f != f {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	if f <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(f)
}

func doubleToInt32(d float64) int32 {
	if d != d {
		return 0
	}
	if d >= math.MaxInt32 {
		return math.MaxInt32
	}
	if d <= math.MinInt32 {
		return math.MinInt32
	}
	return int32(d)
}

func doubleToInt64(d float64) int64 {
	if d != d {
		return 0
	}
	if d >= math.MaxInt64 {
		return math.MaxInt64
	}
	if d <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(d)
}
