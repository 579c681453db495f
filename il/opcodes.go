package il

// Opcodes. Two-byte opcodes (0xFE xx) are numbered 0x100|xx.
const (
	OpNop         OpCode = 0x00
	OpBreak       OpCode = 0x01
	OpLdarg0      OpCode = 0x02
	OpLdarg1      OpCode = 0x03
	OpLdarg2      OpCode = 0x04
	OpLdarg3      OpCode = 0x05
	OpLdloc0      OpCode = 0x06
	OpLdloc1      OpCode = 0x07
	OpLdloc2      OpCode = 0x08
	OpLdloc3      OpCode = 0x09
	OpStloc0      OpCode = 0x0A
	OpStloc1      OpCode = 0x0B
	OpStloc2      OpCode = 0x0C
	OpStloc3      OpCode = 0x0D
	OpLdargS      OpCode = 0x0E
	OpLdargaS     OpCode = 0x0F
	OpStargS      OpCode = 0x10
	OpLdlocS      OpCode = 0x11
	OpLdlocaS     OpCode = 0x12
	OpStlocS      OpCode = 0x13
	OpLdnull      OpCode = 0x14
	OpLdcI4M1     OpCode = 0x15
	OpLdcI4_0     OpCode = 0x16
	OpLdcI4_1     OpCode = 0x17
	OpLdcI4_2     OpCode = 0x18
	OpLdcI4_3     OpCode = 0x19
	OpLdcI4_4     OpCode = 0x1A
	OpLdcI4_5     OpCode = 0x1B
	OpLdcI4_6     OpCode = 0x1C
	OpLdcI4_7     OpCode = 0x1D
	OpLdcI4_8     OpCode = 0x1E
	OpLdcI4S      OpCode = 0x1F
	OpLdcI4       OpCode = 0x20
	OpLdcI8       OpCode = 0x21
	OpLdcR4       OpCode = 0x22
	OpLdcR8       OpCode = 0x23
	OpDup         OpCode = 0x25
	OpPop         OpCode = 0x26
	OpJmp         OpCode = 0x27
	OpCall        OpCode = 0x28
	OpCalli       OpCode = 0x29
	OpRet         OpCode = 0x2A
	OpBrS         OpCode = 0x2B
	OpBrfalseS    OpCode = 0x2C
	OpBrtrueS     OpCode = 0x2D
	OpBeqS        OpCode = 0x2E
	OpBgeS        OpCode = 0x2F
	OpBgtS        OpCode = 0x30
	OpBleS        OpCode = 0x31
	OpBltS        OpCode = 0x32
	OpBneUnS      OpCode = 0x33
	OpBgeUnS      OpCode = 0x34
	OpBgtUnS      OpCode = 0x35
	OpBleUnS      OpCode = 0x36
	OpBltUnS      OpCode = 0x37
	OpBr          OpCode = 0x38
	OpBrfalse     OpCode = 0x39
	OpBrtrue      OpCode = 0x3A
	OpBeq         OpCode = 0x3B
	OpBge         OpCode = 0x3C
	OpBgt         OpCode = 0x3D
	OpBle         OpCode = 0x3E
	OpBlt         OpCode = 0x3F
	OpBneUn       OpCode = 0x40
	OpBgeUn       OpCode = 0x41
	OpBgtUn       OpCode = 0x42
	OpBleUn       OpCode = 0x43
	OpBltUn       OpCode = 0x44
	OpSwitch      OpCode = 0x45
	OpLdindI1     OpCode = 0x46
	OpLdindU1     OpCode = 0x47
	OpLdindI2     OpCode = 0x48
	OpLdindU2     OpCode = 0x49
	OpLdindI4     OpCode = 0x4A
	OpLdindU4     OpCode = 0x4B
	OpLdindI8     OpCode = 0x4C
	OpLdindI      OpCode = 0x4D
	OpLdindR4     OpCode = 0x4E
	OpLdindR8     OpCode = 0x4F
	OpLdindRef    OpCode = 0x50
	OpStindRef    OpCode = 0x51
	OpStindI1     OpCode = 0x52
	OpStindI2     OpCode = 0x53
	OpStindI4     OpCode = 0x54
	OpStindI8     OpCode = 0x55
	OpStindR4     OpCode = 0x56
	OpStindR8     OpCode = 0x57
	OpAdd         OpCode = 0x58
	OpSub         OpCode = 0x59
	OpMul         OpCode = 0x5A
	OpDiv         OpCode = 0x5B
	OpDivUn       OpCode = 0x5C
	OpRem         OpCode = 0x5D
	OpRemUn       OpCode = 0x5E
	OpAnd         OpCode = 0x5F
	OpOr          OpCode = 0x60
	OpXor         OpCode = 0x61
	OpShl         OpCode = 0x62
	OpShr         OpCode = 0x63
	OpShrUn       OpCode = 0x64
	OpNeg         OpCode = 0x65
	OpNot         OpCode = 0x66
	OpConvI1      OpCode = 0x67
	OpConvI2      OpCode = 0x68
	OpConvI4      OpCode = 0x69
	OpConvI8      OpCode = 0x6A
	OpConvR4      OpCode = 0x6B
	OpConvR8      OpCode = 0x6C
	OpConvU4      OpCode = 0x6D
	OpConvU8      OpCode = 0x6E
	OpCallvirt    OpCode = 0x6F
	OpCpobj       OpCode = 0x70
	OpLdobj       OpCode = 0x71
	OpLdstr       OpCode = 0x72
	OpNewobj      OpCode = 0x73
	OpCastclass   OpCode = 0x74
	OpIsinst      OpCode = 0x75
	OpConvRUn     OpCode = 0x76
	OpUnbox       OpCode = 0x79
	OpThrow       OpCode = 0x7A
	OpLdfld       OpCode = 0x7B
	OpLdflda      OpCode = 0x7C
	OpStfld       OpCode = 0x7D
	OpLdsfld      OpCode = 0x7E
	OpLdsflda     OpCode = 0x7F
	OpStsfld      OpCode = 0x80
	OpStobj       OpCode = 0x81
	OpConvOvfI1Un OpCode = 0x82
	OpConvOvfI2Un OpCode = 0x83
	OpConvOvfI4Un OpCode = 0x84
	OpConvOvfI8Un OpCode = 0x85
	OpConvOvfU1Un OpCode = 0x86
	OpConvOvfU2Un OpCode = 0x87
	OpConvOvfU4Un OpCode = 0x88
	OpConvOvfU8Un OpCode = 0x89
	OpConvOvfIUn  OpCode = 0x8A
	OpConvOvfUUn  OpCode = 0x8B
	OpBox         OpCode = 0x8C
	OpNewarr      OpCode = 0x8D
	OpLdlen       OpCode = 0x8E
	OpLdelema     OpCode = 0x8F
	OpLdelemI1    OpCode = 0x90
	OpLdelemU1    OpCode = 0x91
	OpLdelemI2    OpCode = 0x92
	OpLdelemU2    OpCode = 0x93
	OpLdelemI4    OpCode = 0x94
	OpLdelemU4    OpCode = 0x95
	OpLdelemI8    OpCode = 0x96
	OpLdelemI     OpCode = 0x97
	OpLdelemR4    OpCode = 0x98
	OpLdelemR8    OpCode = 0x99
	OpLdelemRef   OpCode = 0x9A
	OpStelemI     OpCode = 0x9B
	OpStelemI1    OpCode = 0x9C
	OpStelemI2    OpCode = 0x9D
	OpStelemI4    OpCode = 0x9E
	OpStelemI8    OpCode = 0x9F
	OpStelemR4    OpCode = 0xA0
	OpStelemR8    OpCode = 0xA1
	OpStelemRef   OpCode = 0xA2
	OpLdelem      OpCode = 0xA3
	OpStelem      OpCode = 0xA4
	OpUnboxAny    OpCode = 0xA5
	OpConvOvfI1   OpCode = 0xB3
	OpConvOvfU1   OpCode = 0xB4
	OpConvOvfI2   OpCode = 0xB5
	OpConvOvfU2   OpCode = 0xB6
	OpConvOvfI4   OpCode = 0xB7
	OpConvOvfU4   OpCode = 0xB8
	OpConvOvfI8   OpCode = 0xB9
	OpConvOvfU8   OpCode = 0xBA
	OpRefanyval   OpCode = 0xC2
	OpCkfinite    OpCode = 0xC3
	OpMkrefany    OpCode = 0xC6
	OpLdtoken     OpCode = 0xD0
	OpConvU2      OpCode = 0xD1
	OpConvU1      OpCode = 0xD2
	OpConvI       OpCode = 0xD3
	OpConvOvfI    OpCode = 0xD4
	OpConvOvfU    OpCode = 0xD5
	OpAddOvf      OpCode = 0xD6
	OpAddOvfUn    OpCode = 0xD7
	OpMulOvf      OpCode = 0xD8
	OpMulOvfUn    OpCode = 0xD9
	OpSubOvf      OpCode = 0xDA
	OpSubOvfUn    OpCode = 0xDB
	OpEndfinally  OpCode = 0xDC
	OpLeave       OpCode = 0xDD
	OpLeaveS      OpCode = 0xDE
	OpStindI      OpCode = 0xDF
	OpConvU       OpCode = 0xE0

	OpArglist     OpCode = 0x100
	OpCeq         OpCode = 0x101
	OpCgt         OpCode = 0x102
	OpCgtUn       OpCode = 0x103
	OpClt         OpCode = 0x104
	OpCltUn       OpCode = 0x105
	OpLdftn       OpCode = 0x106
	OpLdvirtftn   OpCode = 0x107
	OpLdarg       OpCode = 0x109
	OpLdarga      OpCode = 0x10A
	OpStarg       OpCode = 0x10B
	OpLdloc       OpCode = 0x10C
	OpLdloca      OpCode = 0x10D
	OpStloc       OpCode = 0x10E
	OpLocalloc    OpCode = 0x10F
	OpEndfilter   OpCode = 0x111
	OpUnaligned   OpCode = 0x112
	OpVolatile    OpCode = 0x113
	OpTail        OpCode = 0x114
	OpInitobj     OpCode = 0x115
	OpConstrained OpCode = 0x116
	OpCpblk       OpCode = 0x117
	OpInitblk     OpCode = 0x118
	OpNo          OpCode = 0x119
	OpRethrow     OpCode = 0x11A
	OpSizeof      OpCode = 0x11C
	OpRefanytype  OpCode = 0x11D
	OpReadonly    OpCode = 0x11E
)

// opcodeTable holds every defined opcode; entries with an empty name are unassigned.
var opcodeTable = [opcodeSpace]opcodeInfo{
	OpNop:         {"nop", OperandNone, FlowNext, 0, 0},
	OpBreak:       {"break", OperandNone, FlowNext, 0, 0},
	OpLdarg0:      {"ldarg.0", OperandNone, FlowNext, 0, 1},
	OpLdarg1:      {"ldarg.1", OperandNone, FlowNext, 0, 1},
	OpLdarg2:      {"ldarg.2", OperandNone, FlowNext, 0, 1},
	OpLdarg3:      {"ldarg.3", OperandNone, FlowNext, 0, 1},
	OpLdloc0:      {"ldloc.0", OperandNone, FlowNext, 0, 1},
	OpLdloc1:      {"ldloc.1", OperandNone, FlowNext, 0, 1},
	OpLdloc2:      {"ldloc.2", OperandNone, FlowNext, 0, 1},
	OpLdloc3:      {"ldloc.3", OperandNone, FlowNext, 0, 1},
	OpStloc0:      {"stloc.0", OperandNone, FlowNext, 1, 0},
	OpStloc1:      {"stloc.1", OperandNone, FlowNext, 1, 0},
	OpStloc2:      {"stloc.2", OperandNone, FlowNext, 1, 0},
	OpStloc3:      {"stloc.3", OperandNone, FlowNext, 1, 0},
	OpLdargS:      {"ldarg.s", OperandShortVar, FlowNext, 0, 1},
	OpLdargaS:     {"ldarga.s", OperandShortVar, FlowNext, 0, 1},
	OpStargS:      {"starg.s", OperandShortVar, FlowNext, 1, 0},
	OpLdlocS:      {"ldloc.s", OperandShortVar, FlowNext, 0, 1},
	OpLdlocaS:     {"ldloca.s", OperandShortVar, FlowNext, 0, 1},
	OpStlocS:      {"stloc.s", OperandShortVar, FlowNext, 1, 0},
	OpLdnull:      {"ldnull", OperandNone, FlowNext, 0, 1},
	OpLdcI4M1:     {"ldc.i4.m1", OperandNone, FlowNext, 0, 1},
	OpLdcI4_0:     {"ldc.i4.0", OperandNone, FlowNext, 0, 1},
	OpLdcI4_1:     {"ldc.i4.1", OperandNone, FlowNext, 0, 1},
	OpLdcI4_2:     {"ldc.i4.2", OperandNone, FlowNext, 0, 1},
	OpLdcI4_3:     {"ldc.i4.3", OperandNone, FlowNext, 0, 1},
	OpLdcI4_4:     {"ldc.i4.4", OperandNone, FlowNext, 0, 1},
	OpLdcI4_5:     {"ldc.i4.5", OperandNone, FlowNext, 0, 1},
	OpLdcI4_6:     {"ldc.i4.6", OperandNone, FlowNext, 0, 1},
	OpLdcI4_7:     {"ldc.i4.7", OperandNone, FlowNext, 0, 1},
	OpLdcI4_8:     {"ldc.i4.8", OperandNone, FlowNext, 0, 1},
	OpLdcI4S:      {"ldc.i4.s", OperandShortI, FlowNext, 0, 1},
	OpLdcI4:       {"ldc.i4", OperandI, FlowNext, 0, 1},
	OpLdcI8:       {"ldc.i8", OperandI8, FlowNext, 0, 1},
	OpLdcR4:       {"ldc.r4", OperandShortR, FlowNext, 0, 1},
	OpLdcR8:       {"ldc.r8", OperandR, FlowNext, 0, 1},
	OpDup:         {"dup", OperandNone, FlowNext, 1, 2},
	OpPop:         {"pop", OperandNone, FlowNext, 1, 0},
	// jmp leaves the method for the callee and never falls through.
	OpJmp:         {"jmp", OperandMethod, FlowReturn, 0, 0},
	OpCall:        {"call", OperandMethod, FlowCall, -1, -1},
	OpCalli:       {"calli", OperandSig, FlowCall, -1, -1},
	OpRet:         {"ret", OperandNone, FlowReturn, -1, 0},
	OpBrS:         {"br.s", OperandShortBrTarget, FlowBranch, 0, 0},
	OpBrfalseS:    {"brfalse.s", OperandShortBrTarget, FlowCondBranch, 1, 0},
	OpBrtrueS:     {"brtrue.s", OperandShortBrTarget, FlowCondBranch, 1, 0},
	OpBeqS:        {"beq.s", OperandShortBrTarget, FlowCondBranch, 2, 0},
	OpBgeS:        {"bge.s", OperandShortBrTarget, FlowCondBranch, 2, 0},
	OpBgtS:        {"bgt.s", OperandShortBrTarget, FlowCondBranch, 2, 0},
	OpBleS:        {"ble.s", OperandShortBrTarget, FlowCondBranch, 2, 0},
	OpBltS:        {"blt.s", OperandShortBrTarget, FlowCondBranch, 2, 0},
	OpBneUnS:      {"bne.un.s", OperandShortBrTarget, FlowCondBranch, 2, 0},
	OpBgeUnS:      {"bge.un.s", OperandShortBrTarget, FlowCondBranch, 2, 0},
	OpBgtUnS:      {"bgt.un.s", OperandShortBrTarget, FlowCondBranch, 2, 0},
	OpBleUnS:      {"ble.un.s", OperandShortBrTarget, FlowCondBranch, 2, 0},
	OpBltUnS:      {"blt.un.s", OperandShortBrTarget, FlowCondBranch, 2, 0},
	OpBr:          {"br", OperandBrTarget, FlowBranch, 0, 0},
	OpBrfalse:     {"brfalse", OperandBrTarget, FlowCondBranch, 1, 0},
	OpBrtrue:      {"brtrue", OperandBrTarget, FlowCondBranch, 1, 0},
	OpBeq:         {"beq", OperandBrTarget, FlowCondBranch, 2, 0},
	OpBge:         {"bge", OperandBrTarget, FlowCondBranch, 2, 0},
	OpBgt:         {"bgt", OperandBrTarget, FlowCondBranch, 2, 0},
	OpBle:         {"ble", OperandBrTarget, FlowCondBranch, 2, 0},
	OpBlt:         {"blt", OperandBrTarget, FlowCondBranch, 2, 0},
	OpBneUn:       {"bne.un", OperandBrTarget, FlowCondBranch, 2, 0},
	OpBgeUn:       {"bge.un", OperandBrTarget, FlowCondBranch, 2, 0},
	OpBgtUn:       {"bgt.un", OperandBrTarget, FlowCondBranch, 2, 0},
	OpBleUn:       {"ble.un", OperandBrTarget, FlowCondBranch, 2, 0},
	OpBltUn:       {"blt.un", OperandBrTarget, FlowCondBranch, 2, 0},
	OpSwitch:      {"switch", OperandSwitch, FlowCondBranch, 1, 0},
	OpLdindI1:     {"ldind.i1", OperandNone, FlowNext, 1, 1},
	OpLdindU1:     {"ldind.u1", OperandNone, FlowNext, 1, 1},
	OpLdindI2:     {"ldind.i2", OperandNone, FlowNext, 1, 1},
	OpLdindU2:     {"ldind.u2", OperandNone, FlowNext, 1, 1},
	OpLdindI4:     {"ldind.i4", OperandNone, FlowNext, 1, 1},
	OpLdindU4:     {"ldind.u4", OperandNone, FlowNext, 1, 1},
	OpLdindI8:     {"ldind.i8", OperandNone, FlowNext, 1, 1},
	OpLdindI:      {"ldind.i", OperandNone, FlowNext, 1, 1},
	OpLdindR4:     {"ldind.r4", OperandNone, FlowNext, 1, 1},
	OpLdindR8:     {"ldind.r8", OperandNone, FlowNext, 1, 1},
	OpLdindRef:    {"ldind.ref", OperandNone, FlowNext, 1, 1},
	OpStindRef:    {"stind.ref", OperandNone, FlowNext, 2, 0},
	OpStindI1:     {"stind.i1", OperandNone, FlowNext, 2, 0},
	OpStindI2:     {"stind.i2", OperandNone, FlowNext, 2, 0},
	OpStindI4:     {"stind.i4", OperandNone, FlowNext, 2, 0},
	OpStindI8:     {"stind.i8", OperandNone, FlowNext, 2, 0},
	OpStindR4:     {"stind.r4", OperandNone, FlowNext, 2, 0},
	OpStindR8:     {"stind.r8", OperandNone, FlowNext, 2, 0},
	OpAdd:         {"add", OperandNone, FlowNext, 2, 1},
	OpSub:         {"sub", OperandNone, FlowNext, 2, 1},
	OpMul:         {"mul", OperandNone, FlowNext, 2, 1},
	OpDiv:         {"div", OperandNone, FlowNext, 2, 1},
	OpDivUn:       {"div.un", OperandNone, FlowNext, 2, 1},
	OpRem:         {"rem", OperandNone, FlowNext, 2, 1},
	OpRemUn:       {"rem.un", OperandNone, FlowNext, 2, 1},
	OpAnd:         {"and", OperandNone, FlowNext, 2, 1},
	OpOr:          {"or", OperandNone, FlowNext, 2, 1},
	OpXor:         {"xor", OperandNone, FlowNext, 2, 1},
	OpShl:         {"shl", OperandNone, FlowNext, 2, 1},
	OpShr:         {"shr", OperandNone, FlowNext, 2, 1},
	OpShrUn:       {"shr.un", OperandNone, FlowNext, 2, 1},
	OpNeg:         {"neg", OperandNone, FlowNext, 1, 1},
	OpNot:         {"not", OperandNone, FlowNext, 1, 1},
	OpConvI1:      {"conv.i1", OperandNone, FlowNext, 1, 1},
	OpConvI2:      {"conv.i2", OperandNone, FlowNext, 1, 1},
	OpConvI4:      {"conv.i4", OperandNone, FlowNext, 1, 1},
	OpConvI8:      {"conv.i8", OperandNone, FlowNext, 1, 1},
	OpConvR4:      {"conv.r4", OperandNone, FlowNext, 1, 1},
	OpConvR8:      {"conv.r8", OperandNone, FlowNext, 1, 1},
	OpConvU4:      {"conv.u4", OperandNone, FlowNext, 1, 1},
	OpConvU8:      {"conv.u8", OperandNone, FlowNext, 1, 1},
	OpCallvirt:    {"callvirt", OperandMethod, FlowCall, -1, -1},
	OpCpobj:       {"cpobj", OperandType, FlowNext, 2, 0},
	OpLdobj:       {"ldobj", OperandType, FlowNext, 1, 1},
	OpLdstr:       {"ldstr", OperandString, FlowNext, 0, 1},
	OpNewobj:      {"newobj", OperandMethod, FlowCall, -1, 1},
	OpCastclass:   {"castclass", OperandType, FlowNext, 1, 1},
	OpIsinst:      {"isinst", OperandType, FlowNext, 1, 1},
	OpConvRUn:     {"conv.r.un", OperandNone, FlowNext, 1, 1},
	OpUnbox:       {"unbox", OperandType, FlowNext, 1, 1},
	OpThrow:       {"throw", OperandNone, FlowThrow, 1, 0},
	OpLdfld:       {"ldfld", OperandField, FlowNext, 1, 1},
	OpLdflda:      {"ldflda", OperandField, FlowNext, 1, 1},
	OpStfld:       {"stfld", OperandField, FlowNext, 2, 0},
	OpLdsfld:      {"ldsfld", OperandField, FlowNext, 0, 1},
	OpLdsflda:     {"ldsflda", OperandField, FlowNext, 0, 1},
	OpStsfld:      {"stsfld", OperandField, FlowNext, 1, 0},
	OpStobj:       {"stobj", OperandType, FlowNext, 2, 0},
	OpConvOvfI1Un: {"conv.ovf.i1.un", OperandNone, FlowNext, 1, 1},
	OpConvOvfI2Un: {"conv.ovf.i2.un", OperandNone, FlowNext, 1, 1},
	OpConvOvfI4Un: {"conv.ovf.i4.un", OperandNone, FlowNext, 1, 1},
	OpConvOvfI8Un: {"conv.ovf.i8.un", OperandNone, FlowNext, 1, 1},
	OpConvOvfU1Un: {"conv.ovf.u1.un", OperandNone, FlowNext, 1, 1},
	OpConvOvfU2Un: {"conv.ovf.u2.un", OperandNone, FlowNext, 1, 1},
	OpConvOvfU4Un: {"conv.ovf.u4.un", OperandNone, FlowNext, 1, 1},
	OpConvOvfU8Un: {"conv.ovf.u8.un", OperandNone, FlowNext, 1, 1},
	OpConvOvfIUn:  {"conv.ovf.i.un", OperandNone, FlowNext, 1, 1},
	OpConvOvfUUn:  {"conv.ovf.u.un", OperandNone, FlowNext, 1, 1},
	OpBox:         {"box", OperandType, FlowNext, 1, 1},
	OpNewarr:      {"newarr", OperandType, FlowNext, 1, 1},
	OpLdlen:       {"ldlen", OperandNone, FlowNext, 1, 1},
	OpLdelema:     {"ldelema", OperandType, FlowNext, 2, 1},
	OpLdelemI1:    {"ldelem.i1", OperandNone, FlowNext, 2, 1},
	OpLdelemU1:    {"ldelem.u1", OperandNone, FlowNext, 2, 1},
	OpLdelemI2:    {"ldelem.i2", OperandNone, FlowNext, 2, 1},
	OpLdelemU2:    {"ldelem.u2", OperandNone, FlowNext, 2, 1},
	OpLdelemI4:    {"ldelem.i4", OperandNone, FlowNext, 2, 1},
	OpLdelemU4:    {"ldelem.u4", OperandNone, FlowNext, 2, 1},
	OpLdelemI8:    {"ldelem.i8", OperandNone, FlowNext, 2, 1},
	OpLdelemI:     {"ldelem.i", OperandNone, FlowNext, 2, 1},
	OpLdelemR4:    {"ldelem.r4", OperandNone, FlowNext, 2, 1},
	OpLdelemR8:    {"ldelem.r8", OperandNone, FlowNext, 2, 1},
	OpLdelemRef:   {"ldelem.ref", OperandNone, FlowNext, 2, 1},
	OpStelemI:     {"stelem.i", OperandNone, FlowNext, 3, 0},
	OpStelemI1:    {"stelem.i1", OperandNone, FlowNext, 3, 0},
	OpStelemI2:    {"stelem.i2", OperandNone, FlowNext, 3, 0},
	OpStelemI4:    {"stelem.i4", OperandNone, FlowNext, 3, 0},
	OpStelemI8:    {"stelem.i8", OperandNone, FlowNext, 3, 0},
	OpStelemR4:    {"stelem.r4", OperandNone, FlowNext, 3, 0},
	OpStelemR8:    {"stelem.r8", OperandNone, FlowNext, 3, 0},
	OpStelemRef:   {"stelem.ref", OperandNone, FlowNext, 3, 0},
	OpLdelem:      {"ldelem", OperandType, FlowNext, 2, 1},
	OpStelem:      {"stelem", OperandType, FlowNext, 3, 0},
	OpUnboxAny:    {"unbox.any", OperandType, FlowNext, 1, 1},
	OpConvOvfI1:   {"conv.ovf.i1", OperandNone, FlowNext, 1, 1},
	OpConvOvfU1:   {"conv.ovf.u1", OperandNone, FlowNext, 1, 1},
	OpConvOvfI2:   {"conv.ovf.i2", OperandNone, FlowNext, 1, 1},
	OpConvOvfU2:   {"conv.ovf.u2", OperandNone, FlowNext, 1, 1},
	OpConvOvfI4:   {"conv.ovf.i4", OperandNone, FlowNext, 1, 1},
	OpConvOvfU4:   {"conv.ovf.u4", OperandNone, FlowNext, 1, 1},
	OpConvOvfI8:   {"conv.ovf.i8", OperandNone, FlowNext, 1, 1},
	OpConvOvfU8:   {"conv.ovf.u8", OperandNone, FlowNext, 1, 1},
	OpRefanyval:   {"refanyval", OperandType, FlowNext, 1, 1},
	OpCkfinite:    {"ckfinite", OperandNone, FlowNext, 1, 1},
	OpMkrefany:    {"mkrefany", OperandType, FlowNext, 1, 1},
	OpLdtoken:     {"ldtoken", OperandTok, FlowNext, 0, 1},
	OpConvU2:      {"conv.u2", OperandNone, FlowNext, 1, 1},
	OpConvU1:      {"conv.u1", OperandNone, FlowNext, 1, 1},
	OpConvI:       {"conv.i", OperandNone, FlowNext, 1, 1},
	OpConvOvfI:    {"conv.ovf.i", OperandNone, FlowNext, 1, 1},
	OpConvOvfU:    {"conv.ovf.u", OperandNone, FlowNext, 1, 1},
	OpAddOvf:      {"add.ovf", OperandNone, FlowNext, 2, 1},
	OpAddOvfUn:    {"add.ovf.un", OperandNone, FlowNext, 2, 1},
	OpMulOvf:      {"mul.ovf", OperandNone, FlowNext, 2, 1},
	OpMulOvfUn:    {"mul.ovf.un", OperandNone, FlowNext, 2, 1},
	OpSubOvf:      {"sub.ovf", OperandNone, FlowNext, 2, 1},
	OpSubOvfUn:    {"sub.ovf.un", OperandNone, FlowNext, 2, 1},
	OpEndfinally:  {"endfinally", OperandNone, FlowReturn, 0, 0},
	OpLeave:       {"leave", OperandBrTarget, FlowBranch, 0, 0},
	OpLeaveS:      {"leave.s", OperandShortBrTarget, FlowBranch, 0, 0},
	OpStindI:      {"stind.i", OperandNone, FlowNext, 2, 0},
	OpConvU:       {"conv.u", OperandNone, FlowNext, 1, 1},
	OpArglist:     {"arglist", OperandNone, FlowNext, 0, 1},
	OpCeq:         {"ceq", OperandNone, FlowNext, 2, 1},
	OpCgt:         {"cgt", OperandNone, FlowNext, 2, 1},
	OpCgtUn:       {"cgt.un", OperandNone, FlowNext, 2, 1},
	OpClt:         {"clt", OperandNone, FlowNext, 2, 1},
	OpCltUn:       {"clt.un", OperandNone, FlowNext, 2, 1},
	OpLdftn:       {"ldftn", OperandMethod, FlowNext, 0, 1},
	OpLdvirtftn:   {"ldvirtftn", OperandMethod, FlowNext, 1, 1},
	OpLdarg:       {"ldarg", OperandVar, FlowNext, 0, 1},
	OpLdarga:      {"ldarga", OperandVar, FlowNext, 0, 1},
	OpStarg:       {"starg", OperandVar, FlowNext, 1, 0},
	OpLdloc:       {"ldloc", OperandVar, FlowNext, 0, 1},
	OpLdloca:      {"ldloca", OperandVar, FlowNext, 0, 1},
	OpStloc:       {"stloc", OperandVar, FlowNext, 1, 0},
	OpLocalloc:    {"localloc", OperandNone, FlowNext, 1, 1},
	OpEndfilter:   {"endfilter", OperandNone, FlowReturn, 1, 0},
	OpUnaligned:   {"unaligned.", OperandShortI, FlowNext, 0, 0},
	OpVolatile:    {"volatile.", OperandNone, FlowNext, 0, 0},
	OpTail:        {"tail.", OperandNone, FlowNext, 0, 0},
	OpInitobj:     {"initobj", OperandType, FlowNext, 1, 0},
	OpConstrained: {"constrained.", OperandType, FlowNext, 0, 0},
	OpCpblk:       {"cpblk", OperandNone, FlowNext, 3, 0},
	OpInitblk:     {"initblk", OperandNone, FlowNext, 3, 0},
	OpNo:          {"no.", OperandShortI, FlowNext, 0, 0},
	OpRethrow:     {"rethrow", OperandNone, FlowThrow, 0, 0},
	OpSizeof:      {"sizeof", OperandType, FlowNext, 0, 1},
	OpRefanytype:  {"refanytype", OperandNone, FlowNext, 1, 1},
	OpReadonly:    {"readonly.", OperandNone, FlowNext, 0, 0},
}
