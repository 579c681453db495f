package ir

// Code identifies the operation an instruction node performs. Several IL
// opcodes map to one code: ldarg.0 and ldarg.s are both CodeLdArg.
type Code byte

// Instruction codes
const (
	CodeNop Code = iota
	CodeInvalid
	CodeLogicNot
	CodeAdd
	CodeBitAnd
	CodeArglist
	CodeConditionalBranch
	CodeBranch
	CodeBreak
	CodeCeq
	CodeCgt
	CodeCgtUn
	CodeClt
	CodeCltUn
	CodeCall
	CodeCkfinite
	CodeConv
	CodeDiv
	CodeDup
	CodeSub
	CodeMul
	CodeRem
	CodeBitOr
	CodeBitXor
	CodeShl
	CodeShr
	CodeNeg
	CodeBitNot
	CodeLdcI4
	CodeLdcI8
	CodeLdcF
	CodeLdNull
	CodeLdStr
	CodeLdLoc
	CodeLdLoca
	CodeStLoc
	CodeLdArg
	CodeLdArga
	CodeStArg
	CodePop
	CodeReturn
	CodeThrow
	CodeSwitch
	CodeOpaque
)

var codeNames = [...]string{
	CodeNop:               "nop",
	CodeInvalid:           "invalid",
	CodeLogicNot:          "logic.not",
	CodeAdd:               "add",
	CodeBitAnd:            "bit.and",
	CodeArglist:           "arglist",
	CodeConditionalBranch: "if.goto",
	CodeBranch:            "goto",
	CodeBreak:             "break",
	CodeCeq:               "ceq",
	CodeCgt:               "cgt",
	CodeCgtUn:             "cgt.un",
	CodeClt:               "clt",
	CodeCltUn:             "clt.un",
	CodeCall:              "call",
	CodeCkfinite:          "ckfinite",
	CodeConv:              "conv",
	CodeDiv:               "div",
	CodeDup:               "dup",
	CodeSub:               "sub",
	CodeMul:               "mul",
	CodeRem:               "rem",
	CodeBitOr:             "bit.or",
	CodeBitXor:            "bit.xor",
	CodeShl:               "shl",
	CodeShr:               "shr",
	CodeNeg:               "neg",
	CodeBitNot:            "bit.not",
	CodeLdcI4:             "ldc.i4",
	CodeLdcI8:             "ldc.i8",
	CodeLdcF:              "ldc.f",
	CodeLdNull:            "ldnull",
	CodeLdStr:             "ldstr",
	CodeLdLoc:             "ldloc",
	CodeLdLoca:            "ldloca",
	CodeStLoc:             "stloc",
	CodeLdArg:             "ldarg",
	CodeLdArga:            "ldarga",
	CodeStArg:             "starg",
	CodePop:               "pop",
	CodeReturn:            "ret",
	CodeThrow:             "throw",
	CodeSwitch:            "switch",
	CodeOpaque:            "il",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "invalid"
}

// IsCompare reports whether c is one of the comparison codes.
func (c Code) IsCompare() bool {
	return c >= CodeCeq && c <= CodeCltUn
}
