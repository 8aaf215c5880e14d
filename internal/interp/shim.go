package interp

import (
	"fmt"
	"strconv"
	"strings"

	"jvmlite/internal/runtime"
)

// shimKey identifies one host-shim entry point by exact canonical class
// name, method name, and descriptor, rather than a substring match
// against the class name.
type shimKey struct {
	Class      string
	Method     string
	Descriptor string
}

// shimFunc runs a host-shim call. recv is nil for static methods. It
// returns the value to push on the caller's stack (ignored unless ok is
// true, which mirrors the descriptor's return type not being V).
type shimFunc func(it *Interp, recv *runtime.Value, args []runtime.Value) (result runtime.Value, ok bool, err error)

var shimTable = map[shimKey]shimFunc{
	{"java/io/PrintStream", "print", "(I)V"}:    shimPrintInt(false),
	{"java/io/PrintStream", "println", "(I)V"}:  shimPrintInt(true),
	{"java/lang/System", "print", "(I)V"}:       shimPrintInt(false),
	{"java/lang/System", "println", "(I)V"}:     shimPrintInt(true),

	{"java/io/PrintStream", "print", "(Ljava/lang/String;)V"}:   shimPrintString(false),
	{"java/io/PrintStream", "println", "(Ljava/lang/String;)V"}: shimPrintString(true),
	{"java/lang/System", "print", "(Ljava/lang/String;)V"}:      shimPrintString(false),
	{"java/lang/System", "println", "(Ljava/lang/String;)V"}:    shimPrintString(true),

	{"java/io/PrintStream", "println", "()V"}: shimPrintlnVoid,
	{"java/lang/System", "println", "()V"}:    shimPrintlnVoid,

	{"java/util/Scanner", "nextInt", "()I"}:                   shimScannerNextInt,
	{"java/util/Scanner", "nextLine", "()Ljava/lang/String;"}: shimScannerNextLine,

	{"java/lang/StringBuilder", "append", "(I)Ljava/lang/StringBuilder;"}: shimBuilderAppendInt,
	{"java/lang/StringBuilder", "append", "(Ljava/lang/String;)Ljava/lang/StringBuilder;"}: shimBuilderAppendString,
	{"java/lang/StringBuilder", "toString", "()Ljava/lang/String;"}: shimBuilderToString,

	{"java/lang/Math", "max", "(II)I"}: shimMathMax,
	{"java/lang/Math", "min", "(II)I"}: shimMathMin,
}

// lookupShim resolves a (class, method, descriptor) triple. class names
// are matched exactly; several canonical names (PrintStream/System) map
// to the same behavior rather than relying on a substring test.
func lookupShim(class, method, descriptor string) (shimFunc, bool) {
	fn, ok := shimTable[shimKey{class, method, descriptor}]
	return fn, ok
}

func shimPrintInt(newline bool) shimFunc {
	return func(it *Interp, _ *runtime.Value, args []runtime.Value) (runtime.Value, bool, error) {
		s := strconv.FormatInt(int64(args[0].Int32()), 10)
		if newline {
			s += "\n"
		}
		if _, err := it.Stdout.WriteString(s); err != nil {
			return runtime.Value{}, false, err
		}
		return runtime.Value{}, false, it.Stdout.Flush()
	}
}

func shimPrintString(newline bool) shimFunc {
	return func(it *Interp, _ *runtime.Value, args []runtime.Value) (runtime.Value, bool, error) {
		s := args[0].RefVal().Get()
		if newline {
			s += "\n"
		}
		if _, err := it.Stdout.WriteString(s); err != nil {
			return runtime.Value{}, false, err
		}
		return runtime.Value{}, false, it.Stdout.Flush()
	}
}

func shimPrintlnVoid(it *Interp, _ *runtime.Value, _ []runtime.Value) (runtime.Value, bool, error) {
	if _, err := it.Stdout.WriteString("\n"); err != nil {
		return runtime.Value{}, false, err
	}
	return runtime.Value{}, false, it.Stdout.Flush()
}

// shimScannerNextInt reads one whitespace-delimited integer token. EOF
// during the read is a host-I/O failure treated as if zero was read.
// It never surfaces as an error.
func shimScannerNextInt(it *Interp, _ *runtime.Value, _ []runtime.Value) (runtime.Value, bool, error) {
	var n int32
	if _, err := fmt.Fscan(it.Stdin, &n); err != nil {
		return runtime.Int(0), true, nil
	}
	return runtime.Int(n), true, nil
}

func shimScannerNextLine(it *Interp, _ *runtime.Value, _ []runtime.Value) (runtime.Value, bool, error) {
	line, err := it.Stdin.ReadString('\n')
	if err != nil && line == "" {
		ref, internErr := it.Strings.Intern("")
		if internErr != nil {
			return runtime.Value{}, false, internErr
		}
		return runtime.Ref(ref), true, nil
	}
	line = strings.TrimRight(line, "\r\n")
	ref, err := it.Strings.Intern(line)
	if err != nil {
		return runtime.Value{}, false, err
	}
	return runtime.Ref(ref), true, nil
}

func shimBuilderAppendInt(it *Interp, recv *runtime.Value, args []runtime.Value) (runtime.Value, bool, error) {
	ref := recv.RefVal()
	if err := ref.Append(strconv.FormatInt(int64(args[0].Int32()), 10)); err != nil {
		return runtime.Value{}, false, err
	}
	return *recv, true, nil
}

func shimBuilderAppendString(it *Interp, recv *runtime.Value, args []runtime.Value) (runtime.Value, bool, error) {
	ref := recv.RefVal()
	if err := ref.Append(args[0].RefVal().Get()); err != nil {
		return runtime.Value{}, false, err
	}
	return *recv, true, nil
}

func shimBuilderToString(it *Interp, recv *runtime.Value, _ []runtime.Value) (runtime.Value, bool, error) {
	return *recv, true, nil
}

func shimMathMax(it *Interp, _ *runtime.Value, args []runtime.Value) (runtime.Value, bool, error) {
	a, b := args[0].Int32(), args[1].Int32()
	if a > b {
		return runtime.Int(a), true, nil
	}
	return runtime.Int(b), true, nil
}

func shimMathMin(it *Interp, _ *runtime.Value, args []runtime.Value) (runtime.Value, bool, error) {
	a, b := args[0].Int32(), args[1].Int32()
	if a < b {
		return runtime.Int(a), true, nil
	}
	return runtime.Int(b), true, nil
}
