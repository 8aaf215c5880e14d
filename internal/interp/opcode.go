package interp

// Opcode is a single JVM instruction byte. Only the supported subset is
// implemented; anything else is an unknown-opcode link failure.
type Opcode byte

const (
	OpNop         Opcode = 0x00
	OpAconstNull  Opcode = 0x01
	OpIconstM1    Opcode = 0x02
	OpIconst0     Opcode = 0x03
	OpIconst1     Opcode = 0x04
	OpIconst2     Opcode = 0x05
	OpIconst3     Opcode = 0x06
	OpIconst4     Opcode = 0x07
	OpIconst5     Opcode = 0x08
	OpLconst0     Opcode = 0x09
	OpLconst1     Opcode = 0x0A
	OpFconst0     Opcode = 0x0B
	OpFconst1     Opcode = 0x0C
	OpFconst2     Opcode = 0x0D
	OpDconst0     Opcode = 0x0E
	OpDconst1     Opcode = 0x0F
	OpBipush      Opcode = 0x10
	OpSipush      Opcode = 0x11
	OpLdc         Opcode = 0x12

	OpIload  Opcode = 0x15
	OpLload  Opcode = 0x16
	OpFload  Opcode = 0x17
	OpDload  Opcode = 0x18
	OpAload  Opcode = 0x19
	OpIload0 Opcode = 0x1A
	OpIload1 Opcode = 0x1B
	OpIload2 Opcode = 0x1C
	OpIload3 Opcode = 0x1D

	OpAload0 Opcode = 0x2A
	OpAload1 Opcode = 0x2B
	OpAload2 Opcode = 0x2C
	OpAload3 Opcode = 0x2D

	OpIstore  Opcode = 0x36
	OpLstore  Opcode = 0x37
	OpFstore  Opcode = 0x38
	OpDstore  Opcode = 0x39
	OpAstore  Opcode = 0x3A
	OpIstore0 Opcode = 0x3B
	OpIstore1 Opcode = 0x3C
	OpIstore2 Opcode = 0x3D
	OpIstore3 Opcode = 0x3E

	OpAstore0 Opcode = 0x4B
	OpAstore1 Opcode = 0x4C
	OpAstore2 Opcode = 0x4D
	OpAstore3 Opcode = 0x4E

	OpPop  Opcode = 0x57
	OpDup  Opcode = 0x59
	OpSwap Opcode = 0x5F

	OpIadd Opcode = 0x60
	OpLadd Opcode = 0x61
	OpFadd Opcode = 0x62
	OpDadd Opcode = 0x63
	OpIsub Opcode = 0x64
	OpLsub Opcode = 0x65
	OpFsub Opcode = 0x66
	OpDsub Opcode = 0x67
	OpImul Opcode = 0x68
	OpLmul Opcode = 0x69
	OpFmul Opcode = 0x6A
	OpDmul Opcode = 0x6B
	OpIdiv Opcode = 0x6C
	OpLdiv Opcode = 0x6D
	OpFdiv Opcode = 0x6E
	OpDdiv Opcode = 0x6F
	OpIrem Opcode = 0x70
	OpLrem Opcode = 0x71
	OpFrem Opcode = 0x72
	OpDrem Opcode = 0x73
	OpIneg Opcode = 0x74
	OpLneg Opcode = 0x75
	OpFneg Opcode = 0x76
	OpDneg Opcode = 0x77

	OpIand Opcode = 0x7E
	OpIor  Opcode = 0x80
	OpIxor Opcode = 0x82

	OpI2l Opcode = 0x85
	OpI2f Opcode = 0x86
	OpI2d Opcode = 0x87
	OpL2i Opcode = 0x88
	OpL2f Opcode = 0x89
	OpL2d Opcode = 0x8A
	OpF2i Opcode = 0x8B
	OpF2l Opcode = 0x8C
	OpF2d Opcode = 0x8D
	OpD2i Opcode = 0x8E
	OpD2l Opcode = 0x8F
	OpD2f Opcode = 0x90

	OpLcmp  Opcode = 0x94
	OpFcmpl Opcode = 0x95
	OpFcmpg Opcode = 0x96
	OpDcmpl Opcode = 0x97
	OpDcmpg Opcode = 0x98

	OpIfeq      Opcode = 0x99
	OpIfne      Opcode = 0x9A
	OpIflt      Opcode = 0x9B
	OpIfge      Opcode = 0x9C
	OpIfgt      Opcode = 0x9D
	OpIfle      Opcode = 0x9E
	OpIfIcmpeq  Opcode = 0x9F
	OpIfIcmpne  Opcode = 0xA0
	OpIfIcmplt  Opcode = 0xA1
	OpIfIcmpge  Opcode = 0xA2
	OpIfIcmpgt  Opcode = 0xA3
	OpIfIcmple  Opcode = 0xA4
	OpGoto      Opcode = 0xA7

	OpIreturn Opcode = 0xAC
	OpLreturn Opcode = 0xAD
	OpFreturn Opcode = 0xAE
	OpDreturn Opcode = 0xAF
	OpAreturn Opcode = 0xB0
	OpReturn  Opcode = 0xB1

	OpGetstatic     Opcode = 0xB2
	OpInvokevirtual Opcode = 0xB6
	OpInvokespecial Opcode = 0xB7
	OpInvokestatic  Opcode = 0xB8
	OpNew           Opcode = 0xBB
)
