package interp

import "github.com/pkg/errors"

// operandLen returns the number of bytes following the opcode byte that
// belong to it (so the decoder can skip them), for every opcode in the
// mandatory set. Unknown opcodes return (0, false).
func operandLen(op Opcode) (int, bool) {
	switch op {
	case OpBipush:
		return 1, true
	case OpSipush:
		return 2, true
	case OpLdc:
		return 1, true
	case OpIload, OpLload, OpFload, OpDload, OpAload,
		OpIstore, OpLstore, OpFstore, OpDstore, OpAstore:
		return 1, true
	case OpIfeq, OpIfne, OpIflt, OpIfge, OpIfgt, OpIfle,
		OpIfIcmpeq, OpIfIcmpne, OpIfIcmplt, OpIfIcmpge, OpIfIcmpgt, OpIfIcmple,
		OpGoto:
		return 2, true
	case OpGetstatic, OpInvokevirtual, OpInvokespecial, OpInvokestatic, OpNew:
		return 2, true
	case OpNop, OpAconstNull,
		OpIconstM1, OpIconst0, OpIconst1, OpIconst2, OpIconst3, OpIconst4, OpIconst5,
		OpLconst0, OpLconst1, OpFconst0, OpFconst1, OpFconst2, OpDconst0, OpDconst1,
		OpIload0, OpIload1, OpIload2, OpIload3,
		OpAload0, OpAload1, OpAload2, OpAload3,
		OpIstore0, OpIstore1, OpIstore2, OpIstore3,
		OpAstore0, OpAstore1, OpAstore2, OpAstore3,
		OpPop, OpDup, OpSwap,
		OpIadd, OpLadd, OpFadd, OpDadd, OpIsub, OpLsub, OpFsub, OpDsub,
		OpImul, OpLmul, OpFmul, OpDmul, OpIdiv, OpLdiv, OpFdiv, OpDdiv,
		OpIrem, OpLrem, OpFrem, OpDrem, OpIneg, OpLneg, OpFneg, OpDneg,
		OpIand, OpIor, OpIxor,
		OpI2l, OpI2f, OpI2d, OpL2i, OpL2f, OpL2d, OpF2i, OpF2l, OpF2d, OpD2i, OpD2l, OpD2f,
		OpLcmp, OpFcmpl, OpFcmpg, OpDcmpl, OpDcmpg,
		OpIreturn, OpLreturn, OpFreturn, OpDreturn, OpAreturn, OpReturn:
		return 0, true
	default:
		return 0, false
	}
}

// computeBoundaries walks code once, recording the byte offset of every
// opcode (as opposed to an operand byte). A branch or goto target that
// isn't in this set is rejected: branch targets must land on an opcode
// boundary, and out-of-range targets are fatal.
func computeBoundaries(code []byte) (map[int]bool, error) {
	boundaries := make(map[int]bool, len(code))
	pc := 0
	for pc < len(code) {
		boundaries[pc] = true
		op := Opcode(code[pc])
		operands, known := operandLen(op)
		if !known {
			// Unknown opcodes are a link failure at execution time, not
			// a load-time failure. Leave them for the dispatch loop to
			// reject, but we still need a length to keep walking. Since
			// the supported opcode set is closed and bytecode is
			// produced by a real compiler, treat it as zero-length and
			// let the dispatch loop fail on this instruction if it's
			// ever reached.
			pc++
			continue
		}
		pc += 1 + operands
	}
	if pc != len(code) {
		return nil, errors.New("bytecode does not end on an instruction boundary")
	}
	return boundaries, nil
}
