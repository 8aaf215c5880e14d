// Package runtime holds the execution-time model: typed operand-stack
// values, activation frames, and the interned string pool. It has no
// dependency on the interpreter or the class-file parser; Frame refers
// back to its method only by class name, method name, and descriptor.
package runtime

import "fmt"

// Kind tags a Value with the JVM type it was pushed as, rather than
// leaving stack slots untyped by convention. Go makes this cheap and it
// lets bad pops fail loudly instead of silently reinterpreting bits.
type Kind byte

const (
	KindInt Kind = iota
	KindLong
	KindFloat
	KindDouble
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindRef:
		return "ref"
	default:
		return "?"
	}
}

// Value is one operand-stack or local-variable slot. Wide values
// (long/double) occupy a single Value here rather than the two-slot
// model real JVMs use.
type Value struct {
	Kind Kind
	i    int64   // holds int32 (sign-extended) or int64
	f    float64 // holds float32 (widened) or float64
	ref  *StringRef
}

// StringRef is the runtime representation of a reference value: either
// nil (null), or a pointer into the owning VM's string pool.
type StringRef struct {
	Pool  *StringPool
	Index int
}

// Int constructs an int32 value.
func Int(v int32) Value { return Value{Kind: KindInt, i: int64(v)} }

// Long constructs an int64 value.
func Long(v int64) Value { return Value{Kind: KindLong, i: v} }

// Float32 constructs a float32 value.
func Float32(v float32) Value { return Value{Kind: KindFloat, f: float64(v)} }

// Float64 constructs a float64 value.
func Float64(v float64) Value { return Value{Kind: KindDouble, f: v} }

// Ref constructs a reference value. A nil ref represents aconst_null.
func Ref(ref *StringRef) Value { return Value{Kind: KindRef, ref: ref} }

// NullRef is the null reference value.
var NullRef = Value{Kind: KindRef}

// Int32 returns the value as int32, panicking if the slot is not an int.
// Callers (the interpreter) are expected to only call the accessor that
// matches the opcode's documented operand type; a mismatch is an
// interpreter bug, not recoverable program input.
func (v Value) Int32() int32 {
	v.mustBe(KindInt)
	return int32(v.i)
}

// Int64 returns the value as int64.
func (v Value) Int64() int64 {
	v.mustBe(KindLong)
	return v.i
}

// Float32Val returns the value as float32.
func (v Value) Float32Val() float32 {
	v.mustBe(KindFloat)
	return float32(v.f)
}

// Float64Val returns the value as float64.
func (v Value) Float64Val() float64 {
	v.mustBe(KindDouble)
	return v.f
}

// RefVal returns the value's string-pool reference, or nil for null.
func (v Value) RefVal() *StringRef {
	v.mustBe(KindRef)
	return v.ref
}

func (v Value) mustBe(k Kind) {
	if v.Kind != k {
		panic(fmt.Sprintf("runtime: value kind mismatch: have %s, want %s", v.Kind, k))
	}
}
