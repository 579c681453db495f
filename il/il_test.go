package il_test

import (
	"bytes"
	"testing"

	"github.com/wippyai/decompiler/blob"
	"github.com/wippyai/decompiler/errors"
	"github.com/wippyai/decompiler/handle"
	"github.com/wippyai/decompiler/il"
)

func TestDecodeOpcode(t *testing.T) {
	tests := []struct {
		input []byte
		want  il.OpCode
	}{
		{[]byte{0x02}, 0x02},
		{[]byte{0xFE, 0x01}, 0x101},
		{[]byte{0x00}, il.OpNop},
		{[]byte{0x2A}, il.OpRet},
		{[]byte{0xFE, 0x00}, il.OpArglist},
		{[]byte{0xFE, 0x1E}, il.OpReadonly},
		{[]byte{0xE0}, il.OpConvU},
	}

	for _, tt := range tests {
		r := blob.NewReader(tt.input)
		got, err := il.DecodeOpcode(r)
		if err != nil {
			t.Fatalf("% x: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("% x: got 0x%x, want 0x%x", tt.input, uint16(got), uint16(tt.want))
		}
		if r.Remaining() != 0 {
			t.Errorf("% x: %d bytes left", tt.input, r.Remaining())
		}
		if got.Size() != len(tt.input) {
			t.Errorf("% x: Size = %d", tt.input, got.Size())
		}
	}

	if il.OpCeq != 0x101 {
		t.Errorf("OpCeq = 0x%x, want 0x101", uint16(il.OpCeq))
	}
}

func TestDecodeOpcodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"missing second byte", []byte{0xFE}},
		{"unassigned single byte", []byte{0x24}},
		{"unassigned 0xff", []byte{0xFF}},
		{"unassigned extended 0x08", []byte{0xFE, 0x08}},
		{"unassigned extended 0xff", []byte{0xFE, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := il.DecodeOpcode(blob.NewReader(tt.input))
			if !errors.IsMalformed(err) {
				t.Errorf("got %v, want malformed", err)
			}
		})
	}
}

func TestOpcodeTable(t *testing.T) {
	names := map[string]il.OpCode{}
	defined := 0
	for op := il.OpCode(0); op < 0x200; op++ {
		if !op.IsDefined() {
			if op.Name() != "" {
				t.Errorf("undefined 0x%x has name %q", uint16(op), op.Name())
			}
			continue
		}
		defined++
		if prev, dup := names[op.Name()]; dup {
			t.Errorf("name %q used by 0x%x and 0x%x", op.Name(), uint16(prev), uint16(op))
		}
		names[op.Name()] = op
	}
	if defined != 219 {
		t.Errorf("defined opcodes = %d, want 219", defined)
	}

	for _, name := range []string{"ldc.i4.8", "conv.ovf.u.un", "stelem.ref", "ldelem.ref", "unbox.any", "refanytype", "sizeof"} {
		if _, ok := names[name]; !ok {
			t.Errorf("missing opcode %q", name)
		}
	}
}

func TestOperandShape(t *testing.T) {
	tests := []struct {
		op   il.OpCode
		want il.OperandKind
		size int
	}{
		{il.OpNop, il.OperandNone, 0},
		{il.OpBrS, il.OperandShortBrTarget, 1},
		{il.OpLdcI4S, il.OperandShortI, 1},
		{il.OpUnaligned, il.OperandShortI, 1},
		{il.OpLdlocS, il.OperandShortVar, 1},
		{il.OpLdarg, il.OperandVar, 2},
		{il.OpLeave, il.OperandBrTarget, 4},
		{il.OpLdcI4, il.OperandI, 4},
		{il.OpLdcR4, il.OperandShortR, 4},
		{il.OpLdcI8, il.OperandI8, 8},
		{il.OpLdcR8, il.OperandR, 8},
		{il.OpLdfld, il.OperandField, 4},
		{il.OpCallvirt, il.OperandMethod, 4},
		{il.OpCalli, il.OperandSig, 4},
		{il.OpLdstr, il.OperandString, 4},
		{il.OpLdtoken, il.OperandTok, 4},
		{il.OpConstrained, il.OperandType, 4},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got := il.OperandShape(tt.op)
			if got != tt.want {
				t.Errorf("OperandShape = %v, want %v", got, tt.want)
			}
			n, ok := got.Size()
			if !ok || n != tt.size {
				t.Errorf("Size = %d, %v; want %d", n, ok, tt.size)
			}
		})
	}

	if _, ok := il.OperandShape(il.OpSwitch).Size(); ok {
		t.Error("switch operand should have no fixed size")
	}
}

func TestFlowControl(t *testing.T) {
	unconditional := []il.OpCode{
		il.OpBr, il.OpBrS, il.OpLeave, il.OpLeaveS, il.OpRet, il.OpThrow,
		il.OpRethrow, il.OpEndfinally, il.OpEndfilter, il.OpJmp,
	}
	for _, op := range unconditional {
		if !op.IsUnconditionalBranch() {
			t.Errorf("%s should be an unconditional transfer (flow %v)", op, op.Flow())
		}
	}

	conditional := []il.OpCode{
		il.OpNop, il.OpBreak, il.OpBrtrue, il.OpBeqS, il.OpSwitch, il.OpCall,
		il.OpNewobj, il.OpCalli, il.OpTail, il.OpAdd,
	}
	for _, op := range conditional {
		if op.IsUnconditionalBranch() {
			t.Errorf("%s should not be an unconditional transfer (flow %v)", op, op.Flow())
		}
	}

	if il.OpBltUn.Flow() != il.FlowCondBranch || il.OpCallvirt.Flow() != il.FlowCall || il.OpBreak.Flow() != il.FlowNext {
		t.Error("unexpected flow classes")
	}
	if !il.OpVolatile.IsPrefix() || il.OpLdarg.IsPrefix() {
		t.Error("IsPrefix mismatch")
	}
}

func TestStackEffect(t *testing.T) {
	tests := []struct {
		op           il.OpCode
		pops, pushes int
	}{
		{il.OpAdd, 2, 1},
		{il.OpDup, 1, 2},
		{il.OpStelemI4, 3, 0},
		{il.OpLdarg0, 0, 1},
		{il.OpCeq, 2, 1},
		{il.OpBrtrueS, 1, 0},
		{il.OpCall, il.VarStack, il.VarStack},
		{il.OpNewobj, il.VarStack, 1},
		{il.OpRet, il.VarStack, 0},
	}

	for _, tt := range tests {
		pops, pushes := tt.op.StackEffect()
		if pops != tt.pops || pushes != tt.pushes {
			t.Errorf("%s: StackEffect = (%d, %d), want (%d, %d)", tt.op, pops, pushes, tt.pops, tt.pushes)
		}
	}
}

var sampleBody = []byte{
	0x00,       // IL_0000 nop
	0x1F, 0xFF, // IL_0001 ldc.i4.s -1
	0x2C, 0x02, // IL_0003 brfalse.s IL_0007
	0x16,                         // IL_0005 ldc.i4.0
	0x26,                         // IL_0006 pop
	0x28, 0x01, 0x00, 0x00, 0x0A, // IL_0007 call 0x0a000001
	0x45, 0x02, 0x00, 0x00, 0x00, // IL_000c switch
	0x00, 0x00, 0x00, 0x00,
	0xFA, 0xFF, 0xFF, 0xFF,
	0xFE, 0x0C, 0x01, 0x00, // IL_0019 ldloc 1
	0x23, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF8, 0x3F, // IL_001d ldc.r8 1.5
	0x2A, // IL_0026 ret
}

func TestDecodeInstructions(t *testing.T) {
	instrs, err := il.DecodeInstructions(sampleBody)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"IL_0000: nop",
		"IL_0001: ldc.i4.s -1",
		"IL_0003: brfalse.s IL_0007",
		"IL_0005: ldc.i4.0",
		"IL_0006: pop",
		"IL_0007: call 0x0a000001",
		"IL_000c: switch (IL_0019, IL_0013)",
		"IL_0019: ldloc 1",
		"IL_001d: ldc.r8 1.5",
		"IL_0026: ret",
	}
	if len(instrs) != len(want) {
		t.Fatalf("decoded %d instructions, want %d", len(instrs), len(want))
	}
	for i, inst := range instrs {
		if inst.String() != want[i] {
			t.Errorf("instruction %d = %q, want %q", i, inst.String(), want[i])
		}
		if inst.EncodedSize() != inst.Size {
			t.Errorf("%s: EncodedSize = %d, Size = %d", inst, inst.EncodedSize(), inst.Size)
		}
	}

	if tok, ok := instrs[5].Token(); !ok || tok != handle.New(handle.TableMemberRef, 1) {
		t.Errorf("call token = %v, %v", tok, ok)
	}
	if v, ok := instrs[1].ConstInt(); !ok || v != -1 {
		t.Errorf("ldc.i4.s ConstInt = %d, %v", v, ok)
	}
	if v, ok := instrs[3].ConstInt(); !ok || v != 0 {
		t.Errorf("ldc.i4.0 ConstInt = %d, %v", v, ok)
	}
	if v, ok := instrs[7].VarIndex(); !ok || v != 1 {
		t.Errorf("ldloc VarIndex = %d, %v", v, ok)
	}
	if got := instrs[6].Targets(); len(got) != 2 || got[0] != 0x19 || got[1] != 0x13 {
		t.Errorf("switch Targets = %v", got)
	}
	if target, ok := instrs[2].Target(); !ok || target != 7 {
		t.Errorf("brfalse.s Target = %d, %v", target, ok)
	}

	encoded, err := il.EncodeInstructions(instrs)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(encoded, sampleBody) {
		t.Errorf("round trip:\n got % x\nwant % x", encoded, sampleBody)
	}
}

func TestDecodeInstructionsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"truncated ldc.i4", []byte{0x20, 0x01}},
		{"truncated token", []byte{0x28, 0x01, 0x00}},
		{"truncated switch count", []byte{0x45, 0x01}},
		{"truncated switch table", []byte{0x45, 0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"huge switch table", []byte{0x45, 0xFF, 0xFF, 0xFF, 0xFF}},
		{"unknown opcode after valid", []byte{0x00, 0x24}},
		{"dangling prefix byte", []byte{0x00, 0xFE}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := il.DecodeInstructions(tt.input); !errors.IsMalformed(err) {
				t.Errorf("got %v, want malformed", err)
			}
		})
	}
}

func TestEncodeInstructionErrors(t *testing.T) {
	_, err := il.EncodeInstructions([]il.Instruction{{OpCode: il.OpBrS, Operand: 500}})
	if !errors.IsKind(err, errors.KindOverflow) {
		t.Errorf("short branch overflow: %v", err)
	}

	_, err = il.EncodeInstructions([]il.Instruction{{OpCode: il.OpLdcI4, Operand: "x"}})
	if !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("operand type mismatch: %v", err)
	}
}

func TestFormatOffset(t *testing.T) {
	if il.FormatOffset(0x1a) != "IL_001a" {
		t.Errorf("FormatOffset = %q", il.FormatOffset(0x1a))
	}
}
