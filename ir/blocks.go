package ir

import (
	"sort"

	"go.uber.org/zap"

	"github.com/wippyai/decompiler/errors"
	"github.com/wippyai/decompiler/il"
)

// Block is a maximal run of instructions entered only at its first
// instruction.
type Block struct {
	// Instructions aliases the function's instruction slice.
	Instructions []Instruction
	// ILRange covers the bytes of every instruction in the block.
	ILRange Interval
	ID      BlockID
}

// Start returns the IL offset of the block's first instruction.
func (b *Block) Start() int { return b.ILRange.Start }

// endsBlock reports whether control may leave inst other than by falling
// through to the next instruction.
func endsBlock(inst Instruction) bool {
	switch v := inst.(type) {
	case *Branch, *ConditionalBranch, *Switch:
		return true
	case *Opaque:
		f := v.Op.Flow()
		return f != il.FlowNext && f != il.FlowCall
	}
	c := inst.Code()
	return c == CodeReturn || c == CodeThrow
}

// Partition splits a function into basic blocks. Blocks start at offset 0,
// at every branch target, after every control transfer and at the start of
// every protected block, filter and handler. A branch target that is not
// the start of an instruction is malformed.
func Partition(fn *Function) ([]*Block, error) {
	if len(fn.Instructions) == 0 {
		return nil, nil
	}

	index := make(map[int]int, len(fn.Instructions))
	for k, inst := range fn.Instructions {
		index[inst.Range().Start] = k
	}

	leaders := map[int]bool{0: true}
	mark := func(off int, what string) error {
		k, ok := index[off]
		if !ok {
			if off == fn.CodeSize {
				// falling off the end starts nothing
				return nil
			}
			return errors.Malformed(errors.PhaseIR, off, "%s %s is not an instruction boundary", what, il.FormatOffset(off))
		}
		leaders[k] = true
		return nil
	}

	for k, inst := range fn.Instructions {
		for _, t := range BranchTargets(inst) {
			off, ok := t.Offset()
			if !ok {
				continue
			}
			if err := mark(off, "branch target"); err != nil {
				return nil, err
			}
		}
		if endsBlock(inst) && k+1 < len(fn.Instructions) {
			leaders[k+1] = true
		}
	}
	for _, r := range fn.Regions {
		if err := mark(r.TryOffset, "try start"); err != nil {
			return nil, err
		}
		if err := mark(r.HandlerOffset, "handler start"); err != nil {
			return nil, err
		}
		if r.Kind == HandlerFilter {
			if err := mark(r.FilterOffset, "filter start"); err != nil {
				return nil, err
			}
		}
	}

	starts := make([]int, 0, len(leaders))
	for k := range leaders {
		starts = append(starts, k)
	}
	sort.Ints(starts)

	blocks := make([]*Block, len(starts))
	for n, k := range starts {
		end := len(fn.Instructions)
		if n+1 < len(starts) {
			end = starts[n+1]
		}
		instrs := fn.Instructions[k:end:end]
		first, last := instrs[0].Range(), instrs[len(instrs)-1].Range()
		blocks[n] = &Block{
			ID:           BlockID(n),
			Instructions: instrs,
			ILRange:      Interval{Start: first.Start, End: last.End},
		}
	}

	Logger().Debug("partitioned method body",
		zap.Int("instructions", len(fn.Instructions)),
		zap.Int("blocks", len(blocks)),
	)
	return blocks, nil
}

// Resolve returns a copy of fn in which every unresolved branch target
// refers to the block starting at its offset. Nodes without targets are
// shared with fn; fn itself is not modified.
func Resolve(fn *Function, blocks []*Block) (*Function, error) {
	byStart := make(map[int]BlockID, len(blocks))
	for _, b := range blocks {
		byStart[b.Start()] = b.ID
	}

	resolve := func(t BranchTarget) (BranchTarget, error) {
		if t.IsResolved() {
			return t, nil
		}
		off, _ := t.Offset()
		id, ok := byStart[off]
		if !ok {
			return t, errors.Malformed(errors.PhaseIR, off, "branch target %s does not start a block", il.FormatOffset(off))
		}
		return resolvedAt(id, off), nil
	}

	out := &Function{
		Instructions: make([]Instruction, len(fn.Instructions)),
		Regions:      fn.Regions,
		CodeSize:     fn.CodeSize,
	}
	for k, inst := range fn.Instructions {
		var err error
		switch v := inst.(type) {
		case *Branch:
			c := *v
			c.Target, err = resolve(v.Target)
			inst = &c
		case *ConditionalBranch:
			c := *v
			c.Target, err = resolve(v.Target)
			inst = &c
		case *Switch:
			c := *v
			c.Targets = make([]BranchTarget, len(v.Targets))
			for n, t := range v.Targets {
				if c.Targets[n], err = resolve(t); err != nil {
					break
				}
			}
			inst = &c
		}
		if err != nil {
			return nil, err
		}
		out.Instructions[k] = inst
	}
	return out, nil
}
