package ir

import (
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/decompiler/il"
)

// Text renders a node and its operands on one line. Operand slots that take
// their value from the stack print as "_".
func Text(inst Instruction) string {
	var b strings.Builder
	writeText(&b, inst)
	return b.String()
}

func writeOperands(b *strings.Builder, ops ...Instruction) {
	stackOnly := true
	for _, op := range ops {
		if op != nil {
			stackOnly = false
		}
	}
	if stackOnly {
		return
	}
	b.WriteByte('(')
	for k, op := range ops {
		if k > 0 {
			b.WriteString(", ")
		}
		writeText(b, op)
	}
	b.WriteByte(')')
}

func writeValue(b *strings.Builder, v any) {
	if v != nil {
		fmt.Fprintf(b, " %v", v)
	}
}

func writeText(b *strings.Builder, inst Instruction) {
	switch v := inst.(type) {
	case nil:
		b.WriteByte('_')
	case *Simple:
		b.WriteString(v.Op.String())
		writeValue(b, v.Value)
	case *Unary:
		b.WriteString(v.Op.String())
		writeValue(b, v.Value)
		writeOperands(b, v.Operand)
	case *Binary:
		b.WriteString(v.Op.String())
		writeOperands(b, v.Left, v.Right)
	case *BinaryNumeric:
		fmt.Fprintf(b, "%s%s.%s", v.Op, v.Overflow, v.OpType)
		writeOperands(b, v.Left, v.Right)
	case *Compare:
		fmt.Fprintf(b, "%s.%s", v.Op, v.OpType)
		writeOperands(b, v.Left, v.Right)
	case *LogicNot:
		b.WriteString("logic.not")
		b.WriteByte('(')
		writeText(b, v.Operand)
		b.WriteByte(')')
	case *Conv:
		fmt.Fprintf(b, "conv%s %s->%s", v.Overflow, v.From, v.To)
		writeOperands(b, v.Operand)
	case *Dup:
		fmt.Fprintf(b, "dup %s", v.Elem)
	case *Branch:
		if v.Leave {
			b.WriteString("leave ")
		} else {
			b.WriteString("goto ")
		}
		b.WriteString(v.Target.String())
	case *ConditionalBranch:
		b.WriteString("if (")
		writeText(b, v.Condition)
		b.WriteString(") goto ")
		b.WriteString(v.Target.String())
	case *Switch:
		b.WriteString("switch (")
		for k, t := range v.Targets {
			if k > 0 {
				b.WriteString(", ")
			}
			b.WriteString(t.String())
		}
		b.WriteByte(')')
	case *Opaque:
		b.WriteString(v.Op.String())
		switch o := v.Operand.(type) {
		case nil:
		case int:
			b.WriteByte(' ')
			b.WriteString(il.FormatOffset(o))
		default:
			writeValue(b, o)
		}
	default:
		b.WriteString(inst.Code().String())
	}
}

// Format writes one node with its offset and stack effect, for example
//
//	IL_0003: if (logic.not(_)) goto IL_0007 [pop=1 push=void]
func Format(w io.Writer, inst Instruction) error {
	peek := ""
	if inst.IsPeeking() {
		peek = " peek"
	}
	_, err := fmt.Fprintf(w, "%s: %s [pop=%d push=%s%s]\n",
		il.FormatOffset(inst.Range().Start), Text(inst), inst.StackPopCount(), inst.PushType(), peek)
	return err
}

// FormatFunction writes every node of fn. When blocks is non-nil a header
// line precedes the first node of each block and nodes are indented. The
// blocks may come from fn or from the function fn was resolved from.
func FormatFunction(w io.Writer, fn *Function, blocks []*Block) error {
	headers := make(map[int]*Block, len(blocks))
	for _, blk := range blocks {
		headers[blk.Start()] = blk
	}
	for _, inst := range fn.Instructions {
		if blocks != nil {
			if blk, ok := headers[inst.Range().Start]; ok {
				if _, err := fmt.Fprintf(w, "block%d %s:\n", blk.ID, blk.ILRange); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "  "); err != nil {
				return err
			}
		}
		if err := Format(w, inst); err != nil {
			return err
		}
	}
	return nil
}
