package il

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/decompiler/blob"
	"github.com/wippyai/decompiler/errors"
	"github.com/wippyai/decompiler/handle"
)

// Instruction is one decoded IL instruction.
//
// Operand holds, by operand kind:
//
//	ShortI, I          int32 (ldc.i4.s is sign-extended)
//	I8                 int64
//	ShortR             float32
//	R                  float64
//	ShortVar, Var      uint16
//	token kinds        handle.Handle
//	branch targets     int, absolute offset of the target
//	Switch             []int, absolute offsets of the targets
type Instruction struct {
	Operand any
	Offset  int
	Size    int
	OpCode  OpCode
}

// End returns the offset of the following instruction.
func (i Instruction) End() int {
	return i.Offset + i.Size
}

// Target returns the branch target of a branch instruction.
func (i Instruction) Target() (int, bool) {
	t, ok := i.Operand.(int)
	return t, ok
}

// Targets returns all branch targets: one for branches, all cases for switch.
func (i Instruction) Targets() []int {
	switch v := i.Operand.(type) {
	case int:
		return []int{v}
	case []int:
		return v
	}
	return nil
}

// Token returns the metadata token operand.
func (i Instruction) Token() (handle.Handle, bool) {
	h, ok := i.Operand.(handle.Handle)
	return h, ok
}

// VarIndex returns the argument or local index operand, including the
// index implied by short forms such as ldloc.2.
func (i Instruction) VarIndex() (int, bool) {
	switch i.OpCode {
	case OpLdarg0, OpLdarg1, OpLdarg2, OpLdarg3:
		return int(i.OpCode - OpLdarg0), true
	case OpLdloc0, OpLdloc1, OpLdloc2, OpLdloc3:
		return int(i.OpCode - OpLdloc0), true
	case OpStloc0, OpStloc1, OpStloc2, OpStloc3:
		return int(i.OpCode - OpStloc0), true
	}
	v, ok := i.Operand.(uint16)
	return int(v), ok
}

// ConstInt returns the integer pushed by an ldc.i4 or ldc.i8 form.
func (i Instruction) ConstInt() (int64, bool) {
	switch i.OpCode {
	case OpLdcI4M1:
		return -1, true
	case OpLdcI4_0, OpLdcI4_1, OpLdcI4_2, OpLdcI4_3, OpLdcI4_4, OpLdcI4_5, OpLdcI4_6, OpLdcI4_7, OpLdcI4_8:
		return int64(i.OpCode - OpLdcI4_0), true
	case OpLdcI4S, OpLdcI4:
		v, ok := i.Operand.(int32)
		return int64(v), ok
	case OpLdcI8:
		v, ok := i.Operand.(int64)
		return v, ok
	}
	return 0, false
}

// ReadInstruction decodes the instruction at the reader's position.
// Offsets are taken relative to the start of the reader.
func ReadInstruction(r *blob.Reader) (Instruction, error) {
	start := r.Offset()
	op, err := DecodeOpcode(r)
	if err != nil {
		return Instruction{}, err
	}

	inst := Instruction{Offset: start, OpCode: op}
	if inst.Operand, err = readOperand(r, op); err != nil {
		return Instruction{}, err
	}
	inst.Size = r.Offset() - start

	// branch deltas are relative to the end of the instruction
	switch v := inst.Operand.(type) {
	case branchDelta:
		inst.Operand = inst.End() + int(v)
	case []int:
		for k := range v {
			v[k] += inst.End()
		}
	}
	return inst, nil
}

type branchDelta int32

func readOperand(r *blob.Reader, op OpCode) (any, error) {
	switch kind := op.OperandKind(); kind {
	case OperandNone:
		return nil, nil
	case OperandShortBrTarget:
		v, err := r.ReadInt8()
		return branchDelta(v), err
	case OperandBrTarget:
		v, err := r.ReadInt32()
		return branchDelta(v), err
	case OperandShortI:
		b, err := r.ReadByte()
		if op == OpLdcI4S {
			return int32(int8(b)), err
		}
		return int32(b), err
	case OperandShortVar:
		b, err := r.ReadByte()
		return uint16(b), err
	case OperandVar:
		return r.ReadUint16()
	case OperandI:
		return r.ReadInt32()
	case OperandI8:
		return r.ReadInt64()
	case OperandShortR:
		return r.ReadFloat32()
	case OperandR:
		return r.ReadFloat64()
	case OperandSwitch:
		return readSwitch(r)
	default:
		if kind.IsToken() {
			return ReadMetadataToken(r)
		}
	}
	return nil, errors.Unsupported(errors.PhaseOpcode, fmt.Sprintf("operand kind %s", op.OperandKind()))
}

func readSwitch(r *blob.Reader) ([]int, error) {
	off := r.AbsoluteOffset()
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if uint64(n)*4 > uint64(r.Remaining()) {
		return nil, errors.New(errors.PhaseOpcode, errors.KindMalformed).
			Offset(off).
			Cause(errors.Truncated(errors.PhaseOpcode, r.AbsoluteOffset(), int(min(uint64(n)*4, math.MaxInt32)), r.Remaining())).
			Detail("switch table with %d targets exceeds method body", n).
			Build()
	}
	targets := make([]int, n)
	for k := range targets {
		d, _ := r.ReadInt32()
		targets[k] = int(d)
	}
	return targets, nil
}

// DecodeInstructions decodes a complete IL byte stream.
func DecodeInstructions(code []byte) ([]Instruction, error) {
	r := blob.NewReader(code)
	var out []Instruction
	for r.Remaining() > 0 {
		inst, err := ReadInstruction(r)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// EncodedSize returns the number of bytes inst occupies when encoded.
func (i Instruction) EncodedSize() int {
	n := i.OpCode.Size()
	if i.OpCode.OperandKind() == OperandSwitch {
		targets, _ := i.Operand.([]int)
		return n + 4 + 4*len(targets)
	}
	w, _ := i.OpCode.OperandKind().Size()
	return n + w
}

// EncodeInstructions writes instructions back to IL bytes. Branch targets
// are re-derived from the encoded positions.
func EncodeInstructions(instrs []Instruction) ([]byte, error) {
	w := blob.NewWriter()
	for _, inst := range instrs {
		if err := EncodeInstructionTo(w, inst); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}

// EncodeInstructionTo writes one instruction. Its branch targets are
// resolved against the writer's current length.
func EncodeInstructionTo(w *blob.Writer, inst Instruction) error {
	end := w.Len() + inst.EncodedSize()
	op := inst.OpCode
	EncodeOpcode(w, op)

	bad := func() error {
		return errors.InvalidInput(errors.PhaseOpcode,
			fmt.Sprintf("%s: operand %T does not match %s", op, inst.Operand, op.OperandKind()))
	}

	switch kind := op.OperandKind(); kind {
	case OperandNone:
		return nil
	case OperandShortBrTarget:
		t, ok := inst.Operand.(int)
		if !ok {
			return bad()
		}
		d := t - end
		if d < math.MinInt8 || d > math.MaxInt8 {
			return errors.Overflow(errors.PhaseOpcode, d, op.String()+" target delta")
		}
		w.Byte(byte(int8(d)))
	case OperandBrTarget:
		t, ok := inst.Operand.(int)
		if !ok {
			return bad()
		}
		w.WriteUint32(uint32(int32(t - end)))
	case OperandShortI:
		v, ok := inst.Operand.(int32)
		if !ok {
			return bad()
		}
		w.Byte(byte(v))
	case OperandShortVar:
		v, ok := inst.Operand.(uint16)
		if !ok || v > math.MaxUint8 {
			return bad()
		}
		w.Byte(byte(v))
	case OperandVar:
		v, ok := inst.Operand.(uint16)
		if !ok {
			return bad()
		}
		w.WriteUint16(v)
	case OperandI:
		v, ok := inst.Operand.(int32)
		if !ok {
			return bad()
		}
		w.WriteUint32(uint32(v))
	case OperandI8:
		v, ok := inst.Operand.(int64)
		if !ok {
			return bad()
		}
		w.WriteUint64(uint64(v))
	case OperandShortR:
		v, ok := inst.Operand.(float32)
		if !ok {
			return bad()
		}
		w.WriteFloat32(v)
	case OperandR:
		v, ok := inst.Operand.(float64)
		if !ok {
			return bad()
		}
		w.WriteFloat64(v)
	case OperandSwitch:
		targets, ok := inst.Operand.([]int)
		if !ok {
			return bad()
		}
		w.WriteUint32(uint32(len(targets)))
		for _, t := range targets {
			w.WriteUint32(uint32(int32(t - end)))
		}
	default:
		h, ok := inst.Operand.(handle.Handle)
		if !ok || !kind.IsToken() {
			return bad()
		}
		w.WriteUint32(uint32(h))
	}
	return nil
}

// FormatOffset renders an IL offset as a label.
func FormatOffset(off int) string {
	return fmt.Sprintf("IL_%04x", off)
}

func (i Instruction) String() string {
	var b strings.Builder
	b.WriteString(FormatOffset(i.Offset))
	b.WriteString(": ")
	b.WriteString(i.OpCode.String())

	switch v := i.Operand.(type) {
	case nil:
	case int:
		b.WriteByte(' ')
		b.WriteString(FormatOffset(v))
	case []int:
		b.WriteString(" (")
		for k, t := range v {
			if k > 0 {
				b.WriteString(", ")
			}
			b.WriteString(FormatOffset(t))
		}
		b.WriteByte(')')
	case float32:
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	case float64:
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	default:
		fmt.Fprintf(&b, " %v", v)
	}
	return b.String()
}
