package ir

import (
	"fmt"

	"github.com/wippyai/decompiler/il"
)

// Instruction is a node of the instruction tree. Every variant answers the
// same three stack questions from its own fields.
//
// A nil operand slot stands for a value taken from the evaluation stack and
// counts as one pop. A non-nil operand contributes its own pop count.
type Instruction interface {
	// Code returns the operation the node performs.
	Code() Code
	// StackPopCount returns how many stack elements executing the node pops.
	StackPopCount() int
	// PushType returns the type the node pushes, or StackVoid.
	PushType() StackType
	// IsPeeking reports whether the node inspects the top value left after
	// its pops without consuming it.
	IsPeeking() bool
	// Range returns the IL bytes of the node itself, excluding operands.
	Range() Interval

	isInstruction()
}

// Span carries the IL range shared by every variant.
type Span struct {
	ILRange Interval
}

// Range returns the IL bytes the node was decoded from.
func (s Span) Range() Interval { return s.ILRange }

func popsOf(i Instruction) int {
	if i == nil {
		return 1
	}
	return i.StackPopCount()
}

func peeks(i Instruction) bool {
	return i != nil && i.IsPeeking()
}

// Nop does nothing.
type Nop struct {
	Span
}

// Invalid stands in for bytes that could not be decoded. It may appear in
// unreachable code.
type Invalid struct {
	Span
	Err error
}

// Simple pushes a value without popping anything: constants, argument and
// local loads.
type Simple struct {
	Span
	// Value is the constant, variable index or token the node loads.
	Value any
	Op    Code
	Push  StackType
}

// Unary has one operand.
type Unary struct {
	Span
	Operand Instruction
	// Value is the variable index of stores.
	Value any
	Op    Code
	Push  StackType
}

// Binary has two operands; Left is evaluated first and sits deeper on the
// stack.
type Binary struct {
	Span
	Left  Instruction
	Right Instruction
	Op    Code
	Push  StackType
}

// BinaryNumeric is an arithmetic or bitwise operator.
type BinaryNumeric struct {
	Span
	Left       Instruction
	Right      Instruction
	Op         Code
	OpType     StackType
	ResultType StackType
	Overflow   OverflowMode
}

// Compare is ceq, cgt, cgt.un, clt or clt.un. It pushes I4.
type Compare struct {
	Span
	Left   Instruction
	Right  Instruction
	Op     Code
	OpType StackType
}

// LogicNot pushes 1 if its I4 operand is zero and 0 otherwise.
type LogicNot struct {
	Span
	Operand Instruction
}

// Conv converts its operand to a primitive type.
type Conv struct {
	Span
	Operand  Instruction
	From     StackType
	To       PrimitiveType
	Overflow OverflowMode
}

// Dup pushes a copy of the top of the stack.
type Dup struct {
	Span
	Elem StackType
}

// Ckfinite throws if the floating point value on top of the stack is not
// finite. The value stays on the stack.
type Ckfinite struct {
	Span
}

// Branch transfers control unconditionally. Leave also empties the stack.
type Branch struct {
	Span
	Target BranchTarget
	Leave  bool
}

// ConditionalBranch transfers control when Condition is non-zero.
type ConditionalBranch struct {
	Span
	Condition Instruction
	Target    BranchTarget
}

// Switch jumps to Targets[v] for an I4 value v popped from the stack and
// falls through when v is out of range.
type Switch struct {
	Span
	Targets []BranchTarget
}

// Opaque is an IL instruction without a dedicated node: calls, field,
// array and object model operations. Its stack effect comes from the
// opcode table or the call site signature.
type Opaque struct {
	Span
	Operand any
	Pops    int
	Op      il.OpCode
	Push    StackType
}

func (*Nop) isInstruction()               {}
func (*Invalid) isInstruction()           {}
func (*Simple) isInstruction()            {}
func (*Unary) isInstruction()             {}
func (*Binary) isInstruction()            {}
func (*BinaryNumeric) isInstruction()     {}
func (*Compare) isInstruction()           {}
func (*LogicNot) isInstruction()          {}
func (*Conv) isInstruction()              {}
func (*Dup) isInstruction()               {}
func (*Ckfinite) isInstruction()          {}
func (*Branch) isInstruction()            {}
func (*ConditionalBranch) isInstruction() {}
func (*Switch) isInstruction()            {}
func (*Opaque) isInstruction()            {}

func (*Nop) Code() Code               { return CodeNop }
func (*Invalid) Code() Code           { return CodeInvalid }
func (i *Simple) Code() Code          { return i.Op }
func (i *Unary) Code() Code           { return i.Op }
func (i *Binary) Code() Code          { return i.Op }
func (i *BinaryNumeric) Code() Code   { return i.Op }
func (i *Compare) Code() Code         { return i.Op }
func (*LogicNot) Code() Code          { return CodeLogicNot }
func (*Conv) Code() Code              { return CodeConv }
func (*Dup) Code() Code               { return CodeDup }
func (*Ckfinite) Code() Code          { return CodeCkfinite }
func (*Branch) Code() Code            { return CodeBranch }
func (*ConditionalBranch) Code() Code { return CodeConditionalBranch }
func (*Switch) Code() Code            { return CodeSwitch }

func (i *Opaque) Code() Code {
	if i.Op.Flow() == il.FlowCall {
		return CodeCall
	}
	return CodeOpaque
}

func (*Nop) StackPopCount() int                 { return 0 }
func (*Invalid) StackPopCount() int             { return 0 }
func (*Simple) StackPopCount() int              { return 0 }
func (i *Unary) StackPopCount() int             { return popsOf(i.Operand) }
func (i *Binary) StackPopCount() int            { return popsOf(i.Left) + popsOf(i.Right) }
func (i *BinaryNumeric) StackPopCount() int     { return popsOf(i.Left) + popsOf(i.Right) }
func (i *Compare) StackPopCount() int           { return popsOf(i.Left) + popsOf(i.Right) }
func (i *LogicNot) StackPopCount() int          { return popsOf(i.Operand) }
func (i *Conv) StackPopCount() int              { return popsOf(i.Operand) }
func (*Dup) StackPopCount() int                 { return 0 }
func (*Ckfinite) StackPopCount() int            { return 0 }
func (*Branch) StackPopCount() int              { return 0 }
func (i *ConditionalBranch) StackPopCount() int { return popsOf(i.Condition) }
func (*Switch) StackPopCount() int              { return 1 }
func (i *Opaque) StackPopCount() int            { return i.Pops }

func (*Nop) PushType() StackType               { return StackVoid }
func (*Invalid) PushType() StackType           { return StackVoid }
func (i *Simple) PushType() StackType          { return i.Push }
func (i *Unary) PushType() StackType           { return i.Push }
func (i *Binary) PushType() StackType          { return i.Push }
func (i *BinaryNumeric) PushType() StackType   { return i.ResultType }
func (*Compare) PushType() StackType           { return StackI4 }
func (*LogicNot) PushType() StackType          { return StackI4 }
func (i *Conv) PushType() StackType            { return i.To.StackType() }
func (i *Dup) PushType() StackType             { return i.Elem }
func (*Ckfinite) PushType() StackType          { return StackVoid }
func (*Branch) PushType() StackType            { return StackVoid }
func (*ConditionalBranch) PushType() StackType { return StackVoid }
func (*Switch) PushType() StackType            { return StackVoid }
func (i *Opaque) PushType() StackType          { return i.Push }

func (*Nop) IsPeeking() bool                 { return false }
func (*Invalid) IsPeeking() bool             { return false }
func (*Simple) IsPeeking() bool              { return false }
func (i *Unary) IsPeeking() bool             { return peeks(i.Operand) }
func (i *Binary) IsPeeking() bool            { return peeks(i.Left) }
func (i *BinaryNumeric) IsPeeking() bool     { return peeks(i.Left) }
func (i *Compare) IsPeeking() bool           { return peeks(i.Left) }
func (i *LogicNot) IsPeeking() bool          { return peeks(i.Operand) }
func (i *Conv) IsPeeking() bool              { return peeks(i.Operand) }
func (*Dup) IsPeeking() bool                 { return true }
func (*Ckfinite) IsPeeking() bool            { return true }
func (*Branch) IsPeeking() bool              { return false }
func (i *ConditionalBranch) IsPeeking() bool { return peeks(i.Condition) }
func (*Switch) IsPeeking() bool              { return false }
func (*Opaque) IsPeeking() bool              { return false }

// BlockID identifies a basic block by its position in a partition.
type BlockID int

// BranchTarget is either an unresolved raw IL offset or a resolved block.
// The zero value is an unresolved branch to offset 0.
type BranchTarget struct {
	offset   int
	block    BlockID
	resolved bool
}

// Unresolved returns a target referring to a raw IL offset.
func Unresolved(offset int) BranchTarget {
	return BranchTarget{offset: offset}
}

// Resolved returns a target referring to a basic block.
func Resolved(block BlockID) BranchTarget {
	return BranchTarget{offset: -1, block: block, resolved: true}
}

func resolvedAt(block BlockID, offset int) BranchTarget {
	return BranchTarget{offset: offset, block: block, resolved: true}
}

// IsResolved reports whether the target names a block.
func (t BranchTarget) IsResolved() bool { return t.resolved }

// Offset returns the IL offset of the target when it is known.
func (t BranchTarget) Offset() (int, bool) {
	return t.offset, t.offset >= 0
}

// Block returns the target block of a resolved target.
func (t BranchTarget) Block() (BlockID, bool) {
	return t.block, t.resolved
}

func (t BranchTarget) String() string {
	if t.resolved {
		return fmt.Sprintf("block%d", t.block)
	}
	return il.FormatOffset(t.offset)
}

// NewUnresolvedBranch returns an unconditional branch to a raw IL offset.
func NewUnresolvedBranch(offset int) *Branch {
	return &Branch{Target: Unresolved(offset)}
}

// NewUnresolvedConditionalBranch returns a conditional branch to a raw IL
// offset. A nil condition pops the I4 to test from the stack.
func NewUnresolvedConditionalBranch(cond Instruction, offset int) *ConditionalBranch {
	return &ConditionalBranch{Condition: cond, Target: Unresolved(offset)}
}

// BranchTargets returns the targets of a control transfer node, or nil.
func BranchTargets(inst Instruction) []BranchTarget {
	switch v := inst.(type) {
	case *Branch:
		return []BranchTarget{v.Target}
	case *ConditionalBranch:
		return []BranchTarget{v.Target}
	case *Switch:
		return v.Targets
	}
	return nil
}

// IsUnresolved reports whether inst still refers to a raw IL offset.
func IsUnresolved(inst Instruction) bool {
	for _, t := range BranchTargets(inst) {
		if !t.IsResolved() {
			return true
		}
	}
	return false
}
