package interp

import "github.com/pkg/errors"

// Link failures: the interpreter aborts the current execution but the
// VM itself remains usable.
var (
	ErrUnknownOpcode    = errors.New("unknown opcode")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrBadBranchTarget  = errors.New("branch target out of range")
	ErrMethodNotFound   = errors.New("method not found")
	ErrBadDescriptor    = errors.New("malformed method descriptor")
	ErrUnresolvedSymbol = errors.New("unresolved constant pool reference")
	ErrTooManyClasses   = errors.New("too many classes loaded")
)
