package ir

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/decompiler/errors"
	"github.com/wippyai/decompiler/handle"
	"github.com/wippyai/decompiler/il"
	"github.com/wippyai/decompiler/signature"
)

// Resolver supplies the call site and field signatures the builder needs to
// compute the stack effect of token-carrying instructions.
type Resolver interface {
	// MethodSignature resolves a MethodDef, MemberRef, MethodSpec or, for
	// calli, StandAloneSig token.
	MethodSignature(token handle.Handle) (*signature.Method, error)
	// FieldSignature resolves a Field or MemberRef token to the field type.
	FieldSignature(token handle.Handle) (signature.Type, error)
}

// HandlerKind is the kind of an exception handling clause.
type HandlerKind uint16

// Handler kinds, as encoded in a method body's EH section.
const (
	HandlerCatch   HandlerKind = 0
	HandlerFilter  HandlerKind = 1
	HandlerFinally HandlerKind = 2
	HandlerFault   HandlerKind = 4
)

func (k HandlerKind) String() string {
	switch k {
	case HandlerCatch:
		return "catch"
	case HandlerFilter:
		return "filter"
	case HandlerFinally:
		return "finally"
	case HandlerFault:
		return "fault"
	}
	return fmt.Sprintf("HandlerKind(%d)", uint16(k))
}

// ExceptionRegion is one protected block and its handler.
type ExceptionRegion struct {
	// CatchType is the caught type of catch clauses.
	CatchType     handle.Handle
	Kind          HandlerKind
	TryOffset     int
	TryLength     int
	HandlerOffset int
	HandlerLength int
	// FilterOffset is the start of the filter block of filter clauses.
	FilterOffset int
}

// Options describes the method whose body is being built.
type Options struct {
	// Resolver resolves call and field tokens. Calls fail without one.
	Resolver Resolver
	// Params are the argument stack types, including an implicit this.
	Params []StackType
	// Locals are the local variable stack types.
	Locals []StackType
	Regions []ExceptionRegion
	// ReturnType is StackVoid for void methods. StackUnknown lets ret pop
	// whatever the stack holds.
	ReturnType StackType
}

// Function is the instruction list of one method body in stack form: every
// operand slot is nil and takes its value from the evaluation stack.
type Function struct {
	Instructions []Instruction
	Regions      []ExceptionRegion
	CodeSize     int
}

type builder struct {
	opts   Options
	states map[int][]StackType
	stack  []StackType
}

// Build decodes an IL stream into instruction nodes. It tracks the types on
// the evaluation stack to type dup, arithmetic, comparison and conversion
// nodes. Branch targets stay unresolved.
func Build(code []byte, opts Options) (*Function, error) {
	raw, err := il.DecodeInstructions(code)
	if err != nil {
		return nil, err
	}

	b := &builder{opts: opts, states: make(map[int][]StackType)}
	for _, r := range opts.Regions {
		b.seedRegion(r)
	}

	fn := &Function{
		Instructions: make([]Instruction, 0, len(raw)),
		Regions:      opts.Regions,
		CodeSize:     len(code),
	}

	reset := false
	for _, in := range raw {
		if s, ok := b.states[in.Offset]; ok {
			b.stack = append(b.stack[:0], s...)
		} else if reset {
			b.stack = b.stack[:0]
		}

		node, err := b.translate(in)
		if err != nil {
			return nil, err
		}
		if err := b.apply(in, node); err != nil {
			return nil, err
		}
		fn.Instructions = append(fn.Instructions, node)
		reset = in.OpCode.IsUnconditionalBranch()
	}

	Logger().Debug("built method body",
		zap.Int("code_size", len(code)),
		zap.Int("instructions", len(fn.Instructions)),
		zap.Int("regions", len(opts.Regions)),
	)
	return fn, nil
}

func (b *builder) seedRegion(r ExceptionRegion) {
	if _, ok := b.states[r.TryOffset]; !ok {
		b.states[r.TryOffset] = nil
	}
	switch r.Kind {
	case HandlerCatch:
		b.states[r.HandlerOffset] = []StackType{StackO}
	case HandlerFilter:
		b.states[r.FilterOffset] = []StackType{StackO}
		b.states[r.HandlerOffset] = []StackType{StackO}
	default:
		b.states[r.HandlerOffset] = nil
	}
}

func (b *builder) underflow(in il.Instruction, need int) error {
	return errors.New(errors.PhaseIR, errors.KindMalformed).
		Offset(in.Offset).
		Detail("stack underflow: %s needs %d values, %d available", in.OpCode, need, len(b.stack)).
		Build()
}

// peek returns the type n slots below the top of the stack.
func (b *builder) peek(in il.Instruction, n int) (StackType, error) {
	if n >= len(b.stack) {
		return StackUnknown, b.underflow(in, n+1)
	}
	return b.stack[len(b.stack)-1-n], nil
}

func (b *builder) apply(in il.Instruction, node Instruction) error {
	pops := node.StackPopCount()
	need := pops
	if node.IsPeeking() {
		need++
	}
	if need > len(b.stack) {
		return b.underflow(in, need)
	}
	b.stack = b.stack[:len(b.stack)-pops]

	switch v := node.(type) {
	case *Branch:
		if v.Leave {
			b.stack = b.stack[:0]
		}
	}
	if t := node.PushType(); t != StackVoid {
		b.stack = append(b.stack, t)
	}

	for _, t := range BranchTargets(node) {
		off, _ := t.Offset()
		if _, ok := b.states[off]; !ok {
			b.states[off] = append([]StackType(nil), b.stack...)
		}
	}
	return nil
}

func (b *builder) local(idx int) StackType {
	if idx < len(b.opts.Locals) {
		return b.opts.Locals[idx]
	}
	return StackUnknown
}

func (b *builder) param(idx int) StackType {
	if idx < len(b.opts.Params) {
		return b.opts.Params[idx]
	}
	return StackUnknown
}

func (b *builder) translate(in il.Instruction) (Instruction, error) {
	span := Span{ILRange: NewInterval(in.Offset, in.Size)}
	op := in.OpCode

	if code, ovf, ok := numericOp(op); ok {
		l, err := b.peek(in, 1)
		if err != nil {
			return nil, err
		}
		r, _ := b.peek(in, 0)
		opType, result := binaryNumericTypes(code, l, r)
		return &BinaryNumeric{Span: span, Op: code, OpType: opType, ResultType: result, Overflow: ovf}, nil
	}
	if to, ovf, ok := convOp(op); ok {
		from, err := b.peek(in, 0)
		if err != nil {
			return nil, err
		}
		return &Conv{Span: span, From: from, To: to, Overflow: ovf}, nil
	}
	if code, ok := compareOp(op); ok {
		l, err := b.peek(in, 1)
		if err != nil {
			return nil, err
		}
		return &Compare{Span: span, Op: code, OpType: l}, nil
	}
	if op.Flow() == il.FlowCondBranch && op != il.OpSwitch {
		return b.conditionalBranch(in, span)
	}

	switch op {
	case il.OpNop:
		return &Nop{Span: span}, nil
	case il.OpBreak:
		return &Simple{Span: span, Op: CodeBreak, Push: StackVoid}, nil

	case il.OpLdarg0, il.OpLdarg1, il.OpLdarg2, il.OpLdarg3, il.OpLdargS, il.OpLdarg:
		idx, _ := in.VarIndex()
		return &Simple{Span: span, Op: CodeLdArg, Push: b.param(idx), Value: idx}, nil
	case il.OpLdargaS, il.OpLdarga:
		idx, _ := in.VarIndex()
		return &Simple{Span: span, Op: CodeLdArga, Push: StackRef, Value: idx}, nil
	case il.OpStargS, il.OpStarg:
		idx, _ := in.VarIndex()
		return &Unary{Span: span, Op: CodeStArg, Push: StackVoid, Value: idx}, nil
	case il.OpLdloc0, il.OpLdloc1, il.OpLdloc2, il.OpLdloc3, il.OpLdlocS, il.OpLdloc:
		idx, _ := in.VarIndex()
		return &Simple{Span: span, Op: CodeLdLoc, Push: b.local(idx), Value: idx}, nil
	case il.OpLdlocaS, il.OpLdloca:
		idx, _ := in.VarIndex()
		return &Simple{Span: span, Op: CodeLdLoca, Push: StackRef, Value: idx}, nil
	case il.OpStloc0, il.OpStloc1, il.OpStloc2, il.OpStloc3, il.OpStlocS, il.OpStloc:
		idx, _ := in.VarIndex()
		return &Unary{Span: span, Op: CodeStLoc, Push: StackVoid, Value: idx}, nil

	case il.OpLdnull:
		return &Simple{Span: span, Op: CodeLdNull, Push: StackO}, nil
	case il.OpLdcI4M1, il.OpLdcI4_0, il.OpLdcI4_1, il.OpLdcI4_2, il.OpLdcI4_3, il.OpLdcI4_4,
		il.OpLdcI4_5, il.OpLdcI4_6, il.OpLdcI4_7, il.OpLdcI4_8, il.OpLdcI4S, il.OpLdcI4:
		v, _ := in.ConstInt()
		return &Simple{Span: span, Op: CodeLdcI4, Push: StackI4, Value: int32(v)}, nil
	case il.OpLdcI8:
		return &Simple{Span: span, Op: CodeLdcI8, Push: StackI8, Value: in.Operand}, nil
	case il.OpLdcR4, il.OpLdcR8:
		return &Simple{Span: span, Op: CodeLdcF, Push: StackF, Value: in.Operand}, nil
	case il.OpLdstr:
		return &Simple{Span: span, Op: CodeLdStr, Push: StackO, Value: in.Operand}, nil
	case il.OpArglist:
		return &Simple{Span: span, Op: CodeArglist, Push: StackO}, nil

	case il.OpDup:
		t, err := b.peek(in, 0)
		if err != nil {
			return nil, err
		}
		return &Dup{Span: span, Elem: t}, nil
	case il.OpCkfinite:
		return &Ckfinite{Span: span}, nil
	case il.OpPop:
		return &Unary{Span: span, Op: CodePop, Push: StackVoid}, nil
	case il.OpNeg, il.OpNot:
		t, err := b.peek(in, 0)
		if err != nil {
			return nil, err
		}
		code := CodeNeg
		if op == il.OpNot {
			code = CodeBitNot
		}
		return &Unary{Span: span, Op: code, Push: t}, nil

	case il.OpRet:
		if b.opts.ReturnType == StackVoid || (b.opts.ReturnType == StackUnknown && len(b.stack) == 0) {
			return &Simple{Span: span, Op: CodeReturn, Push: StackVoid}, nil
		}
		return &Unary{Span: span, Op: CodeReturn, Push: StackVoid}, nil
	case il.OpThrow:
		return &Unary{Span: span, Op: CodeThrow, Push: StackVoid}, nil

	case il.OpBr, il.OpBrS:
		target, _ := in.Target()
		return &Branch{Span: span, Target: Unresolved(target)}, nil
	case il.OpLeave, il.OpLeaveS:
		target, _ := in.Target()
		return &Branch{Span: span, Target: Unresolved(target), Leave: true}, nil
	case il.OpSwitch:
		targets := in.Targets()
		out := make([]BranchTarget, len(targets))
		for k, t := range targets {
			out[k] = Unresolved(t)
		}
		return &Switch{Span: span, Targets: out}, nil
	}

	return b.opaque(in, span)
}

func (b *builder) conditionalBranch(in il.Instruction, span Span) (Instruction, error) {
	target, _ := in.Target()
	node := &ConditionalBranch{Span: span, Target: Unresolved(target)}

	switch in.OpCode {
	case il.OpBrtrue, il.OpBrtrueS:
		return node, nil
	case il.OpBrfalse, il.OpBrfalseS:
		node.Condition = &LogicNot{Span: span}
		return node, nil
	}

	l, err := b.peek(in, 1)
	if err != nil {
		return nil, err
	}
	cmp := func(code Code) *Compare {
		return &Compare{Span: span, Op: code, OpType: l}
	}
	not := func(c *Compare) *LogicNot {
		return &LogicNot{Span: span, Operand: c}
	}
	// bge is !(a < b); for floats the negated compare must be the unordered
	// form so NaN operands do not branch.
	pick := func(ints, floats Code) Code {
		if l == StackF {
			return floats
		}
		return ints
	}

	switch in.OpCode {
	case il.OpBeq, il.OpBeqS:
		node.Condition = cmp(CodeCeq)
	case il.OpBneUn, il.OpBneUnS:
		node.Condition = not(cmp(CodeCeq))
	case il.OpBgt, il.OpBgtS:
		node.Condition = cmp(CodeCgt)
	case il.OpBlt, il.OpBltS:
		node.Condition = cmp(CodeClt)
	case il.OpBge, il.OpBgeS:
		node.Condition = not(cmp(pick(CodeClt, CodeCltUn)))
	case il.OpBle, il.OpBleS:
		node.Condition = not(cmp(pick(CodeCgt, CodeCgtUn)))
	case il.OpBgtUn, il.OpBgtUnS:
		node.Condition = cmp(CodeCgtUn)
	case il.OpBltUn, il.OpBltUnS:
		node.Condition = cmp(CodeCltUn)
	case il.OpBgeUn, il.OpBgeUnS:
		node.Condition = not(cmp(pick(CodeCltUn, CodeClt)))
	case il.OpBleUn, il.OpBleUnS:
		node.Condition = not(cmp(pick(CodeCgtUn, CodeCgt)))
	default:
		return nil, errors.Unsupported(errors.PhaseIR, "conditional branch "+in.OpCode.String())
	}
	return node, nil
}

func (b *builder) opaque(in il.Instruction, span Span) (Instruction, error) {
	op := in.OpCode
	node := &Opaque{Span: span, Op: op, Operand: in.Operand}
	pops, pushes := op.StackEffect()

	switch op {
	case il.OpCall, il.OpCallvirt, il.OpNewobj, il.OpCalli:
		tok, _ := in.Token()
		if b.opts.Resolver == nil {
			return nil, errors.New(errors.PhaseIR, errors.KindUnsupported).
				Offset(in.Offset).
				Detail("%s %s without a signature resolver", op, tok).
				Build()
		}
		sig, err := b.opts.Resolver.MethodSignature(tok)
		if err != nil {
			return nil, errors.New(errors.PhaseIR, errors.KindNotFound).
				Offset(in.Offset).
				Cause(err).
				Detail("resolve %s %s", op, tok).
				Build()
		}
		node.Pops = sig.ArgumentCount()
		node.Push = StackTypeOfSignature(sig.ReturnType)
		switch op {
		case il.OpNewobj:
			node.Pops = sig.Params.Count()
			node.Push = StackO
		case il.OpCalli:
			node.Pops++
		}
		return node, nil

	case il.OpLdfld, il.OpLdsfld:
		node.Pops = pops
		node.Push = StackUnknown
		if b.opts.Resolver != nil {
			tok, _ := in.Token()
			ft, err := b.opts.Resolver.FieldSignature(tok)
			if err != nil {
				return nil, errors.New(errors.PhaseIR, errors.KindNotFound).
					Offset(in.Offset).
					Cause(err).
					Detail("resolve %s %s", op, tok).
					Build()
			}
			node.Push = StackTypeOfSignature(ft)
		}
		return node, nil
	}

	node.Pops = pops
	if pops == il.VarStack {
		return nil, errors.Unsupported(errors.PhaseIR, "variable stack effect of "+op.String())
	}
	node.Push = StackVoid
	if pushes > 0 {
		node.Push = opaquePush(op)
	}
	return node, nil
}

func opaquePush(op il.OpCode) StackType {
	switch op {
	case il.OpLdindI1, il.OpLdindU1, il.OpLdindI2, il.OpLdindU2, il.OpLdindI4, il.OpLdindU4,
		il.OpLdelemI1, il.OpLdelemU1, il.OpLdelemI2, il.OpLdelemU2, il.OpLdelemI4, il.OpLdelemU4,
		il.OpSizeof:
		return StackI4
	case il.OpLdindI8, il.OpLdelemI8:
		return StackI8
	case il.OpLdindI, il.OpLdelemI, il.OpLdlen, il.OpLdftn, il.OpLdvirtftn, il.OpLocalloc:
		return StackI
	case il.OpLdindR4, il.OpLdindR8, il.OpLdelemR4, il.OpLdelemR8:
		return StackF
	case il.OpLdelema, il.OpLdflda, il.OpLdsflda, il.OpUnbox, il.OpRefanyval:
		return StackRef
	}
	return StackO
}

func numericOp(op il.OpCode) (Code, OverflowMode, bool) {
	switch op {
	case il.OpAdd:
		return CodeAdd, OverflowNone, true
	case il.OpAddOvf:
		return CodeAdd, OverflowOvf, true
	case il.OpAddOvfUn:
		return CodeAdd, OverflowOvfUn, true
	case il.OpSub:
		return CodeSub, OverflowNone, true
	case il.OpSubOvf:
		return CodeSub, OverflowOvf, true
	case il.OpSubOvfUn:
		return CodeSub, OverflowOvfUn, true
	case il.OpMul:
		return CodeMul, OverflowNone, true
	case il.OpMulOvf:
		return CodeMul, OverflowOvf, true
	case il.OpMulOvfUn:
		return CodeMul, OverflowOvfUn, true
	case il.OpDiv:
		return CodeDiv, OverflowNone, true
	case il.OpDivUn:
		return CodeDiv, OverflowUn, true
	case il.OpRem:
		return CodeRem, OverflowNone, true
	case il.OpRemUn:
		return CodeRem, OverflowUn, true
	case il.OpAnd:
		return CodeBitAnd, OverflowNone, true
	case il.OpOr:
		return CodeBitOr, OverflowNone, true
	case il.OpXor:
		return CodeBitXor, OverflowNone, true
	case il.OpShl:
		return CodeShl, OverflowNone, true
	case il.OpShr:
		return CodeShr, OverflowNone, true
	case il.OpShrUn:
		return CodeShr, OverflowUn, true
	}
	return 0, OverflowNone, false
}

// binaryNumericTypes applies the ECMA-335 III.1.5 operand tables.
func binaryNumericTypes(code Code, l, r StackType) (opType, result StackType) {
	if code == CodeShl || code == CodeShr {
		return l, l
	}
	switch {
	case l == r && l == StackRef && code == CodeSub:
		return StackRef, StackI
	case l == r:
		return l, l
	case l == StackRef || r == StackRef:
		return StackRef, StackRef
	case (l == StackI && r == StackI4) || (l == StackI4 && r == StackI):
		return StackI, StackI
	}
	return l, l
}

func compareOp(op il.OpCode) (Code, bool) {
	switch op {
	case il.OpCeq:
		return CodeCeq, true
	case il.OpCgt:
		return CodeCgt, true
	case il.OpCgtUn:
		return CodeCgtUn, true
	case il.OpClt:
		return CodeClt, true
	case il.OpCltUn:
		return CodeCltUn, true
	}
	return 0, false
}

type convTarget struct {
	to  PrimitiveType
	ovf OverflowMode
}

var convOps = map[il.OpCode]convTarget{
	il.OpConvI1:      {PrimI1, OverflowNone},
	il.OpConvI2:      {PrimI2, OverflowNone},
	il.OpConvI4:      {PrimI4, OverflowNone},
	il.OpConvI8:      {PrimI8, OverflowNone},
	il.OpConvR4:      {PrimR4, OverflowNone},
	il.OpConvR8:      {PrimR8, OverflowNone},
	il.OpConvU1:      {PrimU1, OverflowNone},
	il.OpConvU2:      {PrimU2, OverflowNone},
	il.OpConvU4:      {PrimU4, OverflowNone},
	il.OpConvU8:      {PrimU8, OverflowNone},
	il.OpConvI:       {PrimI, OverflowNone},
	il.OpConvU:       {PrimU, OverflowNone},
	il.OpConvRUn:     {PrimR8, OverflowUn},
	il.OpConvOvfI1:   {PrimI1, OverflowOvf},
	il.OpConvOvfI2:   {PrimI2, OverflowOvf},
	il.OpConvOvfI4:   {PrimI4, OverflowOvf},
	il.OpConvOvfI8:   {PrimI8, OverflowOvf},
	il.OpConvOvfU1:   {PrimU1, OverflowOvf},
	il.OpConvOvfU2:   {PrimU2, OverflowOvf},
	il.OpConvOvfU4:   {PrimU4, OverflowOvf},
	il.OpConvOvfU8:   {PrimU8, OverflowOvf},
	il.OpConvOvfI:    {PrimI, OverflowOvf},
	il.OpConvOvfU:    {PrimU, OverflowOvf},
	il.OpConvOvfI1Un: {PrimI1, OverflowOvfUn},
	il.OpConvOvfI2Un: {PrimI2, OverflowOvfUn},
	il.OpConvOvfI4Un: {PrimI4, OverflowOvfUn},
	il.OpConvOvfI8Un: {PrimI8, OverflowOvfUn},
	il.OpConvOvfU1Un: {PrimU1, OverflowOvfUn},
	il.OpConvOvfU2Un: {PrimU2, OverflowOvfUn},
	il.OpConvOvfU4Un: {PrimU4, OverflowOvfUn},
	il.OpConvOvfU8Un: {PrimU8, OverflowOvfUn},
	il.OpConvOvfIUn:  {PrimI, OverflowOvfUn},
	il.OpConvOvfUUn:  {PrimU, OverflowOvfUn},
}

func convOp(op il.OpCode) (PrimitiveType, OverflowMode, bool) {
	c, ok := convOps[op]
	return c.to, c.ovf, ok
}
