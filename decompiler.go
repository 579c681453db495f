package decompiler

import (
	"github.com/wippyai/decompiler/blob"
	"github.com/wippyai/decompiler/il"
	"github.com/wippyai/decompiler/ir"
	"github.com/wippyai/decompiler/signature"
)

// DecodeTypeSignature decodes one type from r and leaves r positioned
// after it. Custom modifiers are kept as signature.Modified wrappers.
func DecodeTypeSignature(r *blob.Reader) (signature.Type, error) {
	return signature.DecodeType(r)
}

// DecodeMethodSignature decodes a MethodDefSig, MethodRefSig or
// StandAloneMethodSig from r.
func DecodeMethodSignature(r *blob.Reader) (*signature.Method, error) {
	return signature.DecodeMethod(r)
}

// DecodeLocalsSignature decodes a LocalVarSig from r.
func DecodeLocalsSignature(r *blob.Reader) (signature.Collection, error) {
	return signature.DecodeLocals(r)
}

// ClassifyStackType maps a signature type code to the evaluation stack
// category a value of that type occupies.
func ClassifyStackType(code signature.TypeCode) ir.StackType {
	return ir.StackTypeOf(code)
}

// DecodeOpcode reads a one or two byte opcode. Undefined opcodes are
// malformed.
func DecodeOpcode(r *blob.Reader) (il.OpCode, error) {
	return il.DecodeOpcode(r)
}

// OperandShape returns the operand encoding that follows op.
func OperandShape(op il.OpCode) il.OperandKind {
	return il.OperandShape(op)
}

// BuildIR decodes an IL byte stream into instruction nodes.
func BuildIR(code []byte, opts ir.Options) (*ir.Function, error) {
	return ir.Build(code, opts)
}
