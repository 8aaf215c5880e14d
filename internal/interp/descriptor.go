package interp

import (
	"strings"

	"github.com/pkg/errors"

	"jvmlite/internal/runtime"
)

// ParamKind is the runtime.Kind a single descriptor parameter pops as.
type ParamKind = runtime.Kind

// MethodType is a parsed "(ParamDescriptors)ReturnDescriptor" signature.
type MethodType struct {
	Params     []ParamKind
	ReturnKind ParamKind
	// Void is true when the return descriptor is "V"; ReturnKind is
	// meaningless in that case.
	Void bool
}

// ParseDescriptor parses a method descriptor such as "(II)I" or
// "(Ljava/lang/String;)V" into a MethodType. I, J, F, D,
// Ljava/lang/String;, and V are the core cases; B/C/S/Z and array
// descriptors parse structurally (as int-sized or reference slots) even
// though no opcode exercised here produces values of those exact types.
func ParseDescriptor(desc string) (*MethodType, error) {
	if !strings.HasPrefix(desc, "(") {
		return nil, errors.Wrapf(ErrBadDescriptor, "%q: missing (", desc)
	}
	rest := desc[1:]

	var params []ParamKind
	for len(rest) > 0 && rest[0] != ')' {
		kind, consumed, err := parseFieldType(rest)
		if err != nil {
			return nil, errors.Wrapf(err, "descriptor %q", desc)
		}
		params = append(params, kind)
		rest = rest[consumed:]
	}
	if len(rest) == 0 {
		return nil, errors.Wrapf(ErrBadDescriptor, "%q: unterminated parameter list", desc)
	}
	rest = rest[1:] // skip ')'

	if rest == "V" {
		return &MethodType{Params: params, Void: true}, nil
	}
	kind, consumed, err := parseFieldType(rest)
	if err != nil {
		return nil, errors.Wrapf(err, "descriptor %q return type", desc)
	}
	if consumed != len(rest) {
		return nil, errors.Wrapf(ErrBadDescriptor, "%q: trailing data after return type", desc)
	}
	return &MethodType{Params: params, ReturnKind: kind}, nil
}

// parseFieldType parses one field descriptor from the front of s and
// returns its runtime Kind plus the number of bytes consumed.
func parseFieldType(s string) (runtime.Kind, int, error) {
	if len(s) == 0 {
		return 0, 0, errors.Wrap(ErrBadDescriptor, "empty field type")
	}
	switch s[0] {
	case 'B', 'C', 'I', 'S', 'Z':
		return runtime.KindInt, 1, nil
	case 'J':
		return runtime.KindLong, 1, nil
	case 'F':
		return runtime.KindFloat, 1, nil
	case 'D':
		return runtime.KindDouble, 1, nil
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return 0, 0, errors.Wrap(ErrBadDescriptor, "unterminated class type")
		}
		return runtime.KindRef, end + 1, nil
	case '[':
		// Array type: one or more leading '[' then a field type. Arrays
		// aren't otherwise supported, but the descriptor still needs to
		// parse so arg-popping for a method that merely mentions one
		// stays correct, treated as a reference slot.
		depth := 0
		for depth < len(s) && s[depth] == '[' {
			depth++
		}
		_, consumed, err := parseFieldType(s[depth:])
		if err != nil {
			return 0, 0, err
		}
		return runtime.KindRef, depth + consumed, nil
	default:
		return 0, 0, errors.Wrapf(ErrBadDescriptor, "unknown field type byte %q", s[0])
	}
}
