package il

import (
	"fmt"
	"strings"

	"github.com/wippyai/decompiler/blob"
	"github.com/wippyai/decompiler/errors"
	"github.com/wippyai/decompiler/handle"
)

// OpCode identifies an IL instruction. Single-byte opcodes keep their
// value; opcodes in the 0xFE-prefixed space are 0x100|second byte.
type OpCode uint16

const (
	prefixByte  = 0xFE
	opcodeSpace = 0x120
)

// OperandKind is the encoding of the immediate data that follows an opcode.
type OperandKind byte

// Operand kinds
const (
	OperandNone          OperandKind = iota
	OperandShortBrTarget             // int8 branch delta
	OperandShortI                    // 8-bit immediate
	OperandShortVar                  // uint8 argument or local index
	OperandVar                       // uint16 argument or local index
	OperandBrTarget                  // int32 branch delta
	OperandI                         // int32 immediate
	OperandShortR                    // float32 immediate
	OperandI8                        // int64 immediate
	OperandR                         // float64 immediate
	OperandField                     // field token
	OperandMethod                    // method token
	OperandSig                       // standalone signature token
	OperandString                    // user string token
	OperandTok                       // type, field or method token
	OperandType                      // type token
	OperandSwitch                    // uint32 count, then count int32 deltas
)

var operandKindNames = [...]string{
	"None", "ShortBrTarget", "ShortI", "ShortVar", "Var", "BrTarget", "I", "ShortR",
	"I8", "R", "Field", "Method", "Sig", "String", "Tok", "Type", "Switch",
}

func (k OperandKind) String() string {
	if int(k) < len(operandKindNames) {
		return operandKindNames[k]
	}
	return fmt.Sprintf("OperandKind(%d)", byte(k))
}

// Size returns the operand width in bytes. Switch tables have no fixed
// width and report ok == false.
func (k OperandKind) Size() (n int, ok bool) {
	switch k {
	case OperandNone:
		return 0, true
	case OperandShortBrTarget, OperandShortI, OperandShortVar:
		return 1, true
	case OperandVar:
		return 2, true
	case OperandBrTarget, OperandI, OperandShortR,
		OperandField, OperandMethod, OperandSig, OperandString, OperandTok, OperandType:
		return 4, true
	case OperandI8, OperandR:
		return 8, true
	}
	return 0, false
}

// IsToken reports whether the operand is a metadata token.
func (k OperandKind) IsToken() bool {
	switch k {
	case OperandField, OperandMethod, OperandSig, OperandString, OperandTok, OperandType:
		return true
	}
	return false
}

// IsBranch reports whether the operand is a branch target.
func (k OperandKind) IsBranch() bool {
	return k == OperandShortBrTarget || k == OperandBrTarget
}

// FlowControl classifies how an instruction transfers control.
type FlowControl byte

// Flow classes. Break and prefix opcodes are FlowNext.
const (
	FlowNext FlowControl = iota
	FlowBranch
	FlowCondBranch
	FlowCall
	FlowReturn
	FlowThrow
)

func (f FlowControl) String() string {
	switch f {
	case FlowNext:
		return "next"
	case FlowBranch:
		return "branch"
	case FlowCondBranch:
		return "cond-branch"
	case FlowCall:
		return "call"
	case FlowReturn:
		return "return"
	case FlowThrow:
		return "throw"
	}
	return "invalid"
}

// IsUnconditional reports whether control never falls through to the next
// instruction.
func (f FlowControl) IsUnconditional() bool {
	return f == FlowBranch || f == FlowThrow || f == FlowReturn
}

// VarStack marks a stack effect that depends on a signature.
const VarStack = -1

type opcodeInfo struct {
	name    string
	operand OperandKind
	flow    FlowControl
	pops    int8
	pushes  int8
}

func (op OpCode) info() (opcodeInfo, bool) {
	if int(op) >= opcodeSpace {
		return opcodeInfo{}, false
	}
	i := opcodeTable[op]
	return i, i.name != ""
}

// IsDefined reports whether op is an assigned opcode.
func (op OpCode) IsDefined() bool {
	_, ok := op.info()
	return ok
}

// Name returns the ILAsm mnemonic, or "" for unassigned opcodes.
func (op OpCode) Name() string {
	i, _ := op.info()
	return i.name
}

func (op OpCode) String() string {
	if name := op.Name(); name != "" {
		return name
	}
	if op >= 0x100 {
		return fmt.Sprintf("0xfe%02x", byte(op))
	}
	return fmt.Sprintf("0x%02x", uint16(op))
}

// OperandKind returns the operand encoding of op.
func (op OpCode) OperandKind() OperandKind {
	i, _ := op.info()
	return i.operand
}

// Flow returns the control flow class of op.
func (op OpCode) Flow() FlowControl {
	i, _ := op.info()
	return i.flow
}

// IsUnconditionalBranch reports whether op is a branch, throw or return.
func (op OpCode) IsUnconditionalBranch() bool {
	return op.Flow().IsUnconditional()
}

// StackEffect returns how many values op pops and pushes. VarStack means
// the count comes from a call site signature.
func (op OpCode) StackEffect() (pops, pushes int) {
	i, _ := op.info()
	return int(i.pops), int(i.pushes)
}

// IsPrefix reports whether op modifies the instruction that follows it.
func (op OpCode) IsPrefix() bool {
	return strings.HasSuffix(op.Name(), ".")
}

// Size returns the number of bytes the opcode itself occupies.
func (op OpCode) Size() int {
	if op >= 0x100 {
		return 2
	}
	return 1
}

// OperandShape returns the operand encoding of op.
func OperandShape(op OpCode) OperandKind {
	return op.OperandKind()
}

// DecodeOpcode reads one opcode. 0xFE selects the two-byte space.
func DecodeOpcode(r *blob.Reader) (OpCode, error) {
	off := r.AbsoluteOffset()
	if r.Remaining() == 0 {
		return 0, errors.Truncated(errors.PhaseOpcode, off, 1, 0)
	}
	b, _ := r.ReadByte()

	op := OpCode(b)
	if b == prefixByte {
		if r.Remaining() == 0 {
			return 0, errors.New(errors.PhaseOpcode, errors.KindMalformed).
				Offset(off).
				Cause(errors.Truncated(errors.PhaseOpcode, off+1, 1, 0)).
				Detail("missing second byte of two-byte opcode").
				Build()
		}
		b2, _ := r.ReadByte()
		op = 0x100 | OpCode(b2)
	}

	if !op.IsDefined() {
		return 0, errors.New(errors.PhaseOpcode, errors.KindMalformed).
			Offset(off).
			Value(uint16(op)).
			Detail("unknown opcode %s", op).
			Build()
	}
	return op, nil
}

// EncodeOpcode writes op in its one- or two-byte form.
func EncodeOpcode(w *blob.Writer, op OpCode) {
	if op >= 0x100 {
		w.Byte(prefixByte)
	}
	w.Byte(byte(op))
}

// ReadMetadataToken reads a 4-byte metadata token.
func ReadMetadataToken(r *blob.Reader) (handle.Handle, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return handle.Handle(v), nil
}
