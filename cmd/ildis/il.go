package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/decompiler/il"
	"github.com/wippyai/decompiler/ir"
	"github.com/wippyai/decompiler/metadata"
)

type ilOptions struct {
	Body        bool
	IR          bool
	Blocks      bool
	Interactive bool
	Params      []string
	Locals      []string
	Return      string
}

// ilLine is one decoded instruction. Pop, Push and Peek are set for IR
// nodes only.
type ilLine struct {
	Offset int    `json:"offset" yaml:"offset"`
	Text   string `json:"text" yaml:"text"`
	Pop    *int   `json:"pop,omitempty" yaml:"pop,omitempty"`
	Push   string `json:"push,omitempty" yaml:"push,omitempty"`
	Peek   bool   `json:"peek,omitempty" yaml:"peek,omitempty"`
}

type blockInfo struct {
	ID    int    `json:"id" yaml:"id"`
	Range string `json:"range" yaml:"range"`
	Size  int    `json:"instructions" yaml:"instructions"`
}

type regionInfo struct {
	Kind      string `json:"kind" yaml:"kind"`
	Try       string `json:"try" yaml:"try"`
	Handler   string `json:"handler" yaml:"handler"`
	Filter    string `json:"filter,omitempty" yaml:"filter,omitempty"`
	CatchType string `json:"catch_type,omitempty" yaml:"catch_type,omitempty"`
}

type bodyInfo struct {
	Size           int          `json:"size" yaml:"size"`
	CodeSize       int          `json:"code_size" yaml:"code_size"`
	MaxStack       int          `json:"max_stack" yaml:"max_stack"`
	InitLocals     bool         `json:"init_locals" yaml:"init_locals"`
	LocalSignature string       `json:"local_signature,omitempty" yaml:"local_signature,omitempty"`
	Regions        []regionInfo `json:"regions,omitempty" yaml:"regions,omitempty"`
}

type ilResult struct {
	Body         *bodyInfo   `json:"body,omitempty" yaml:"body,omitempty"`
	Instructions []ilLine    `json:"instructions" yaml:"instructions"`
	Blocks       []blockInfo `json:"blocks,omitempty" yaml:"blocks,omitempty"`

	raw    []il.Instruction
	fn     *ir.Function
	blocks []*ir.Block
}

func (r *ilResult) writeText(w io.Writer) error {
	if r.Body != nil {
		b := r.Body
		fmt.Fprintf(w, "body: size=%d code=%d max_stack=%d init_locals=%t", b.Size, b.CodeSize, b.MaxStack, b.InitLocals)
		if b.LocalSignature != "" {
			fmt.Fprintf(w, " locals=%s", b.LocalSignature)
		}
		fmt.Fprintln(w)
		for _, rg := range b.Regions {
			fmt.Fprintf(w, "region: %s try %s handler %s", rg.Kind, rg.Try, rg.Handler)
			if rg.Filter != "" {
				fmt.Fprintf(w, " filter %s", rg.Filter)
			}
			if rg.CatchType != "" {
				fmt.Fprintf(w, " type %s", rg.CatchType)
			}
			fmt.Fprintln(w)
		}
	}

	if r.fn != nil {
		return ir.FormatFunction(w, r.fn, r.blocks)
	}
	for _, inst := range r.raw {
		if _, err := fmt.Fprintln(w, inst.String()); err != nil {
			return err
		}
	}
	return nil
}

func newILCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &ilOptions{}

	cmd := &cobra.Command{
		Use:   "il <hex|@file>",
		Short: "Disassemble IL code or a method body",
		Long: `Disassemble an IL byte stream, or a complete method body with --body.

--ir prints the instruction IR with the stack effect of every node and
--blocks adds the basic block partition with branch targets resolved.
Argument and local stack types for the IR come from --params and --locals
as comma separated stack type names (i4, i8, i, f, o, ref).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			res, err := disassemble(data, opts)
			if err != nil {
				return err
			}
			if opts.Interactive {
				if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
					return fmt.Errorf("interactive mode needs a terminal")
				}
				return runInteractive(args[0], res)
			}
			return writeResult(cmd.OutOrStdout(), rootOpts.cfg.Output.Format, res)
		},
	}

	cmd.Flags().BoolVar(&opts.Body, "body", false, "input is a method body with its header")
	cmd.Flags().BoolVar(&opts.IR, "ir", false, "print the instruction IR")
	cmd.Flags().BoolVar(&opts.Blocks, "blocks", false, "partition the IR into basic blocks (implies --ir)")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "browse the instructions in a TUI")
	cmd.Flags().StringSliceVar(&opts.Params, "params", nil, "argument stack types, this first")
	cmd.Flags().StringSliceVar(&opts.Locals, "locals", nil, "local variable stack types")
	cmd.Flags().StringVar(&opts.Return, "ret", "unknown", "return stack type (void, i4, ... or unknown)")

	return cmd
}

func disassemble(data []byte, opts *ilOptions) (*ilResult, error) {
	res := &ilResult{}
	code := data
	var regions []ir.ExceptionRegion

	if opts.Body {
		body, err := metadata.ParseMethodBody(data)
		if err != nil {
			return nil, err
		}
		code = body.IL
		regions = body.ExceptionRegions
		res.Body = describeBody(body)
	}

	raw, err := il.DecodeInstructions(code)
	if err != nil {
		return nil, err
	}
	res.raw = raw

	// the TUI shows IR nodes alongside the raw instructions
	if !opts.IR && !opts.Blocks && !opts.Interactive {
		for _, inst := range raw {
			res.Instructions = append(res.Instructions, ilLine{Offset: inst.Offset, Text: inst.String()})
		}
		return res, nil
	}

	buildOpts, err := opts.buildOptions(regions)
	if err != nil {
		return nil, err
	}
	fn, err := ir.Build(code, buildOpts)
	if err != nil {
		return nil, err
	}
	res.fn = fn

	if opts.Blocks {
		blocks, err := ir.Partition(fn)
		if err != nil {
			return nil, err
		}
		resolved, err := ir.Resolve(fn, blocks)
		if err != nil {
			return nil, err
		}
		res.fn = resolved
		res.blocks = blocks
		for _, b := range blocks {
			res.Blocks = append(res.Blocks, blockInfo{ID: int(b.ID), Range: b.ILRange.String(), Size: len(b.Instructions)})
		}
	}

	for _, node := range res.fn.Instructions {
		pop := node.StackPopCount()
		res.Instructions = append(res.Instructions, ilLine{
			Offset: node.Range().Start,
			Text:   ir.Text(node),
			Pop:    &pop,
			Push:   node.PushType().String(),
			Peek:   node.IsPeeking(),
		})
	}
	return res, nil
}

func (o *ilOptions) buildOptions(regions []ir.ExceptionRegion) (ir.Options, error) {
	params, err := parseStackTypes("--params", o.Params)
	if err != nil {
		return ir.Options{}, err
	}
	locals, err := parseStackTypes("--locals", o.Locals)
	if err != nil {
		return ir.Options{}, err
	}
	ret, ok := ir.ParseStackType(strings.TrimSpace(o.Return))
	if !ok {
		return ir.Options{}, fmt.Errorf("--ret: unknown stack type %q", o.Return)
	}
	return ir.Options{Params: params, Locals: locals, Regions: regions, ReturnType: ret}, nil
}

func parseStackTypes(flag string, names []string) ([]ir.StackType, error) {
	out := make([]ir.StackType, 0, len(names))
	for _, name := range names {
		st, ok := ir.ParseStackType(strings.TrimSpace(name))
		if !ok || st == ir.StackVoid || st == ir.StackUnknown {
			return nil, fmt.Errorf("%s: invalid stack type %q", flag, name)
		}
		out = append(out, st)
	}
	return out, nil
}

func describeBody(body *metadata.MethodBody) *bodyInfo {
	info := &bodyInfo{
		Size:       body.Size,
		CodeSize:   len(body.IL),
		MaxStack:   body.MaxStack,
		InitLocals: body.InitLocals,
	}
	if !body.LocalSignature.IsNil() {
		info.LocalSignature = body.LocalSignature.String()
	}
	for _, r := range body.ExceptionRegions {
		rg := regionInfo{
			Kind:    r.Kind.String(),
			Try:     ir.NewInterval(r.TryOffset, r.TryLength).String(),
			Handler: ir.NewInterval(r.HandlerOffset, r.HandlerLength).String(),
		}
		switch r.Kind {
		case ir.HandlerCatch:
			rg.CatchType = r.CatchType.String()
		case ir.HandlerFilter:
			rg.Filter = il.FormatOffset(r.FilterOffset)
		}
		info.Regions = append(info.Regions, rg)
	}
	return info
}
