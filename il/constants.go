package il

// Opcodes
const (
	Nop        OpCode = 0x00
	Break      OpCode = 0x01
	Ldarg0     OpCode = 0x02
	Ldarg1     OpCode = 0x03
	Ldarg2     OpCode = 0x04
	Ldarg3     OpCode = 0x05
	Ldloc0     OpCode = 0x06
	Ldloc1     OpCode = 0x07
	Ldloc2     OpCode = 0x08
	Ldloc3     OpCode = 0x09
	Stloc0     OpCode = 0x0A
	Stloc1     OpCode = 0x0B
	Stloc2     OpCode = 0x0C
	Stloc3     OpCode = 0x0D
	LdargS     OpCode = 0x0E
	LdargaS    OpCode = 0x0F
	StargS     OpCode = 0x10
	LdlocS     OpCode = 0x11
	LdlocaS    OpCode = 0x12
	StlocS     OpCode = 0x13
	Ldnull     OpCode = 0x14
	LdcI4M1    OpCode = 0x15
	LdcI40     OpCode = 0x16
	LdcI41     OpCode = 0x17
	LdcI42     OpCode = 0x18
	LdcI43     OpCode = 0x19
	LdcI44     OpCode = 0x1A
	LdcI45     OpCode = 0x1B
	LdcI46     OpCode = 0x1C
	LdcI47     OpCode = 0x1D
	LdcI48     OpCode = 0x1E
	LdcI4S     OpCode = 0x1F
	LdcI4      OpCode = 0x20
	LdcI8      OpCode = 0x21
	LdcR4      OpCode = 0x22
	LdcR8      OpCode = 0x23
	Dup        OpCode = 0x25
	Pop        OpCode = 0x26
	Jmp        OpCode = 0x27
	Call       OpCode = 0x28
	Calli      OpCode = 0x29
	Ret        OpCode = 0x2A
	BrS        OpCode = 0x2B
	BrfalseS   OpCode = 0x2C
	BrtrueS    OpCode = 0x2D
	BeqS       OpCode = 0x2E
	BgeS       OpCode = 0x2F
	BgtS       OpCode = 0x30
	BleS       OpCode = 0x31
	BltS       OpCode = 0x32
	BneUnS     OpCode = 0x33
	BgeUnS     OpCode = 0x34
	BgtUnS     OpCode = 0x35
	BleUnS     OpCode = 0x36
	BltUnS     OpCode = 0x37
	Br         OpCode = 0x38
	Brfalse    OpCode = 0x39
	Brtrue     OpCode = 0x3A
	Beq        OpCode = 0x3B
	Bge        OpCode = 0x3C
	Bgt        OpCode = 0x3D
	Ble        OpCode = 0x3E
	Blt        OpCode = 0x3F
	BneUn      OpCode = 0x40
	BgeUn      OpCode = 0x41
	BgtUn      OpCode = 0x42
	BleUn      OpCode = 0x43
	BltUn      OpCode = 0x44
	Switch     OpCode = 0x45
	LdindI4    OpCode = 0x4A
	LdindRef   OpCode = 0x50
	StindRef   OpCode = 0x51
	StindI4    OpCode = 0x54
	Add        OpCode = 0x58
	Sub        OpCode = 0x59
	Mul        OpCode = 0x5A
	Div        OpCode = 0x5B
	DivUn      OpCode = 0x5C
	Rem        OpCode = 0x5D
	RemUn      OpCode = 0x5E
	And        OpCode = 0x5F
	Or         OpCode = 0x60
	Xor        OpCode = 0x61
	Shl        OpCode = 0x62
	Shr        OpCode = 0x63
	ShrUn      OpCode = 0x64
	Neg        OpCode = 0x65
	Not        OpCode = 0x66
	ConvI1     OpCode = 0x67
	ConvI2     OpCode = 0x68
	ConvI4     OpCode = 0x69
	ConvI8     OpCode = 0x6A
	ConvR4     OpCode = 0x6B
	ConvR8     OpCode = 0x6C
	Callvirt   OpCode = 0x6F
	Cpobj      OpCode = 0x70
	Ldobj      OpCode = 0x71
	Ldstr      OpCode = 0x72
	Newobj     OpCode = 0x73
	Castclass  OpCode = 0x74
	Isinst     OpCode = 0x75
	Unbox      OpCode = 0x79
	Throw      OpCode = 0x7A
	Ldfld      OpCode = 0x7B
	Ldflda     OpCode = 0x7C
	Stfld      OpCode = 0x7D
	Ldsfld     OpCode = 0x7E
	Ldsflda    OpCode = 0x7F
	Stsfld     OpCode = 0x80
	Stobj      OpCode = 0x81
	Box        OpCode = 0x8C
	Newarr     OpCode = 0x8D
	Ldlen      OpCode = 0x8E
	Ldelema    OpCode = 0x8F
	LdelemI4   OpCode = 0x94
	LdelemRef  OpCode = 0x9A
	StelemI4   OpCode = 0x9E
	StelemRef  OpCode = 0xA2
	Ldelem     OpCode = 0xA3
	Stelem     OpCode = 0xA4
	UnboxAny   OpCode = 0xA5
	Ldtoken    OpCode = 0xD0
	ConvI      OpCode = 0xD3
	Endfinally OpCode = 0xDC
	Leave      OpCode = 0xDD
	LeaveS     OpCode = 0xDE

	Arglist     OpCode = 0xFE00
	Ceq         OpCode = 0xFE01
	Cgt         OpCode = 0xFE02
	CgtUn       OpCode = 0xFE03
	Clt         OpCode = 0xFE04
	CltUn       OpCode = 0xFE05
	Ldftn       OpCode = 0xFE06
	Ldvirtftn   OpCode = 0xFE07
	Ldarg       OpCode = 0xFE09
	Ldarga      OpCode = 0xFE0A
	Starg       OpCode = 0xFE0B
	Ldloc       OpCode = 0xFE0C
	Ldloca      OpCode = 0xFE0D
	Stloc       OpCode = 0xFE0E
	Localloc    OpCode = 0xFE0F
	Endfilter   OpCode = 0xFE11
	Tail        OpCode = 0xFE14
	Initobj     OpCode = 0xFE15
	Constrained OpCode = 0xFE16
	Rethrow     OpCode = 0xFE1A
	Sizeof      OpCode = 0xFE1C
)

// OpCodePrefix is the first byte of every two-byte opcode.
const OpCodePrefix = 0xFE

func defineOpCodes() {
	define(Nop, "nop", InlineNone, FlowNext)
	define(Break, "break", InlineNone, FlowBreak)
	define(Ldarg0, "ldarg.0", InlineNone, FlowNext)
	define(Ldarg1, "ldarg.1", InlineNone, FlowNext)
	define(Ldarg2, "ldarg.2", InlineNone, FlowNext)
	define(Ldarg3, "ldarg.3", InlineNone, FlowNext)
	define(Ldloc0, "ldloc.0", InlineNone, FlowNext)
	define(Ldloc1, "ldloc.1", InlineNone, FlowNext)
	define(Ldloc2, "ldloc.2", InlineNone, FlowNext)
	define(Ldloc3, "ldloc.3", InlineNone, FlowNext)
	define(Stloc0, "stloc.0", InlineNone, FlowNext)
	define(Stloc1, "stloc.1", InlineNone, FlowNext)
	define(Stloc2, "stloc.2", InlineNone, FlowNext)
	define(Stloc3, "stloc.3", InlineNone, FlowNext)
	define(LdargS, "ldarg.s", ShortInlineArg, FlowNext)
	define(LdargaS, "ldarga.s", ShortInlineArg, FlowNext)
	define(StargS, "starg.s", ShortInlineArg, FlowNext)
	define(LdlocS, "ldloc.s", ShortInlineVar, FlowNext)
	define(LdlocaS, "ldloca.s", ShortInlineVar, FlowNext)
	define(StlocS, "stloc.s", ShortInlineVar, FlowNext)
	define(Ldnull, "ldnull", InlineNone, FlowNext)
	define(LdcI4M1, "ldc.i4.m1", InlineNone, FlowNext)
	define(LdcI40, "ldc.i4.0", InlineNone, FlowNext)
	define(LdcI41, "ldc.i4.1", InlineNone, FlowNext)
	define(LdcI42, "ldc.i4.2", InlineNone, FlowNext)
	define(LdcI43, "ldc.i4.3", InlineNone, FlowNext)
	define(LdcI44, "ldc.i4.4", InlineNone, FlowNext)
	define(LdcI45, "ldc.i4.5", InlineNone, FlowNext)
	define(LdcI46, "ldc.i4.6", InlineNone, FlowNext)
	define(LdcI47, "ldc.i4.7", InlineNone, FlowNext)
	define(LdcI48, "ldc.i4.8", InlineNone, FlowNext)
	define(LdcI4S, "ldc.i4.s", ShortInlineI, FlowNext)
	define(LdcI4, "ldc.i4", InlineI, FlowNext)
	define(LdcI8, "ldc.i8", InlineI8, FlowNext)
	define(LdcR4, "ldc.r4", ShortInlineR, FlowNext)
	define(LdcR8, "ldc.r8", InlineR, FlowNext)
	define(Dup, "dup", InlineNone, FlowNext)
	define(Pop, "pop", InlineNone, FlowNext)
	define(Jmp, "jmp", InlineMethod, FlowCall)
	define(Call, "call", InlineMethod, FlowCall)
	define(Calli, "calli", InlineSig, FlowCall)
	define(Ret, "ret", InlineNone, FlowReturn)
	define(BrS, "br.s", ShortInlineBrTarget, FlowBranch)
	define(BrfalseS, "brfalse.s", ShortInlineBrTarget, FlowCondBranch)
	define(BrtrueS, "brtrue.s", ShortInlineBrTarget, FlowCondBranch)
	define(BeqS, "beq.s", ShortInlineBrTarget, FlowCondBranch)
	define(BgeS, "bge.s", ShortInlineBrTarget, FlowCondBranch)
	define(BgtS, "bgt.s", ShortInlineBrTarget, FlowCondBranch)
	define(BleS, "ble.s", ShortInlineBrTarget, FlowCondBranch)
	define(BltS, "blt.s", ShortInlineBrTarget, FlowCondBranch)
	define(BneUnS, "bne.un.s", ShortInlineBrTarget, FlowCondBranch)
	define(BgeUnS, "bge.un.s", ShortInlineBrTarget, FlowCondBranch)
	define(BgtUnS, "bgt.un.s", ShortInlineBrTarget, FlowCondBranch)
	define(BleUnS, "ble.un.s", ShortInlineBrTarget, FlowCondBranch)
	define(BltUnS, "blt.un.s", ShortInlineBrTarget, FlowCondBranch)
	define(Br, "br", InlineBrTarget, FlowBranch)
	define(Brfalse, "brfalse", InlineBrTarget, FlowCondBranch)
	define(Brtrue, "brtrue", InlineBrTarget, FlowCondBranch)
	define(Beq, "beq", InlineBrTarget, FlowCondBranch)
	define(Bge, "bge", InlineBrTarget, FlowCondBranch)
	define(Bgt, "bgt", InlineBrTarget, FlowCondBranch)
	define(Ble, "ble", InlineBrTarget, FlowCondBranch)
	define(Blt, "blt", InlineBrTarget, FlowCondBranch)
	define(BneUn, "bne.un", InlineBrTarget, FlowCondBranch)
	define(BgeUn, "bge.un", InlineBrTarget, FlowCondBranch)
	define(BgtUn, "bgt.un", InlineBrTarget, FlowCondBranch)
	define(BleUn, "ble.un", InlineBrTarget, FlowCondBranch)
	define(BltUn, "blt.un", InlineBrTarget, FlowCondBranch)
	define(Switch, "switch", InlineSwitch, FlowCondBranch)
	define(LdindI4, "ldind.i4", InlineNone, FlowNext)
	define(LdindRef, "ldind.ref", InlineNone, FlowNext)
	define(StindRef, "stind.ref", InlineNone, FlowNext)
	define(StindI4, "stind.i4", InlineNone, FlowNext)
	define(Add, "add", InlineNone, FlowNext)
	define(Sub, "sub", InlineNone, FlowNext)
	define(Mul, "mul", InlineNone, FlowNext)
	define(Div, "div", InlineNone, FlowNext)
	define(DivUn, "div.un", InlineNone, FlowNext)
	define(Rem, "rem", InlineNone, FlowNext)
	define(RemUn, "rem.un", InlineNone, FlowNext)
	define(And, "and", InlineNone, FlowNext)
	define(Or, "or", InlineNone, FlowNext)
	define(Xor, "xor", InlineNone, FlowNext)
	define(Shl, "shl", InlineNone, FlowNext)
	define(Shr, "shr", InlineNone, FlowNext)
	define(ShrUn, "shr.un", InlineNone, FlowNext)
	define(Neg, "neg", InlineNone, FlowNext)
	define(Not, "not", InlineNone, FlowNext)
	define(ConvI1, "conv.i1", InlineNone, FlowNext)
	define(ConvI2, "conv.i2", InlineNone, FlowNext)
	define(ConvI4, "conv.i4", InlineNone, FlowNext)
	define(ConvI8, "conv.i8", InlineNone, FlowNext)
	define(ConvR4, "conv.r4", InlineNone, FlowNext)
	define(ConvR8, "conv.r8", InlineNone, FlowNext)
	define(Callvirt, "callvirt", InlineMethod, FlowCall)
	define(Cpobj, "cpobj", InlineType, FlowNext)
	define(Ldobj, "ldobj", InlineType, FlowNext)
	define(Ldstr, "ldstr", InlineString, FlowNext)
	define(Newobj, "newobj", InlineMethod, FlowCall)
	define(Castclass, "castclass", InlineType, FlowNext)
	define(Isinst, "isinst", InlineType, FlowNext)
	define(Unbox, "unbox", InlineType, FlowNext)
	define(Throw, "throw", InlineNone, FlowThrow)
	define(Ldfld, "ldfld", InlineField, FlowNext)
	define(Ldflda, "ldflda", InlineField, FlowNext)
	define(Stfld, "stfld", InlineField, FlowNext)
	define(Ldsfld, "ldsfld", InlineField, FlowNext)
	define(Ldsflda, "ldsflda", InlineField, FlowNext)
	define(Stsfld, "stsfld", InlineField, FlowNext)
	define(Stobj, "stobj", InlineType, FlowNext)
	define(Box, "box", InlineType, FlowNext)
	define(Newarr, "newarr", InlineType, FlowNext)
	define(Ldlen, "ldlen", InlineNone, FlowNext)
	define(Ldelema, "ldelema", InlineType, FlowNext)
	define(LdelemI4, "ldelem.i4", InlineNone, FlowNext)
	define(LdelemRef, "ldelem.ref", InlineNone, FlowNext)
	define(StelemI4, "stelem.i4", InlineNone, FlowNext)
	define(StelemRef, "stelem.ref", InlineNone, FlowNext)
	define(Ldelem, "ldelem", InlineType, FlowNext)
	define(Stelem, "stelem", InlineType, FlowNext)
	define(UnboxAny, "unbox.any", InlineType, FlowNext)
	define(Ldtoken, "ldtoken", InlineTok, FlowNext)
	define(ConvI, "conv.i", InlineNone, FlowNext)
	define(Endfinally, "endfinally", InlineNone, FlowReturn)
	define(Leave, "leave", InlineBrTarget, FlowBranch)
	define(LeaveS, "leave.s", ShortInlineBrTarget, FlowBranch)

	define(Arglist, "arglist", InlineNone, FlowNext)
	define(Ceq, "ceq", InlineNone, FlowNext)
	define(Cgt, "cgt", InlineNone, FlowNext)
	define(CgtUn, "cgt.un", InlineNone, FlowNext)
	define(Clt, "clt", InlineNone, FlowNext)
	define(CltUn, "clt.un", InlineNone, FlowNext)
	define(Ldftn, "ldftn", InlineMethod, FlowNext)
	define(Ldvirtftn, "ldvirtftn", InlineMethod, FlowNext)
	define(Ldarg, "ldarg", InlineArg, FlowNext)
	define(Ldarga, "ldarga", InlineArg, FlowNext)
	define(Starg, "starg", InlineArg, FlowNext)
	define(Ldloc, "ldloc", InlineVar, FlowNext)
	define(Ldloca, "ldloca", InlineVar, FlowNext)
	define(Stloc, "stloc", InlineVar, FlowNext)
	define(Localloc, "localloc", InlineNone, FlowNext)
	define(Endfilter, "endfilter", InlineNone, FlowReturn)
	define(Tail, "tail.", InlineNone, FlowMeta)
	define(Initobj, "initobj", InlineType, FlowNext)
	define(Constrained, "constrained.", InlineType, FlowMeta)
	define(Rethrow, "rethrow", InlineNone, FlowThrow)
	define(Sizeof, "sizeof", InlineType, FlowNext)
}
