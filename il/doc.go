// Package il describes the CIL instruction set (ECMA-335 Partition III) and
// decodes raw IL byte streams.
//
// Every opcode has a static entry giving its ILAsm mnemonic, the encoding of
// its operand, its control flow class and its fixed stack effect. Opcodes in
// the 0xFE-prefixed space are numbered 0x100|second byte, so ceq is 0x101.
//
// Operand encodings and their widths:
//
//	None                                  0
//	ShortBrTarget, ShortI, ShortVar       1
//	Var                                   2
//	BrTarget, I, ShortR, token kinds      4
//	I8, R                                 8
//	Switch                                4 + 4*n
//
// Branch, throw and return classes are unconditional transfers; the
// instruction after one is reachable only as a branch target.
package il
