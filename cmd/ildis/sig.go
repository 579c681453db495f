package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/decompiler/blob"
	"github.com/wippyai/decompiler/ir"
	"github.com/wippyai/decompiler/signature"
)

// sigResult is the decoded form of one signature blob.
type sigResult struct {
	Kind       string   `json:"kind" yaml:"kind"`
	Signature  string   `json:"signature" yaml:"signature"`
	Convention string   `json:"convention,omitempty" yaml:"convention,omitempty"`
	StackType  string   `json:"stack_type,omitempty" yaml:"stack_type,omitempty"`
	Slots      []string `json:"slots,omitempty" yaml:"slots,omitempty"`
	Sentinel   *int     `json:"sentinel,omitempty" yaml:"sentinel,omitempty"`
	Arguments  int      `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Size       int      `json:"size" yaml:"size"`
	Trailing   int      `json:"trailing,omitempty" yaml:"trailing,omitempty"`
}

func (r *sigResult) writeText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", r.Kind, r.Signature)
	if r.Convention != "" {
		fmt.Fprintf(&b, "convention: %s\n", r.Convention)
	}
	if r.StackType != "" {
		fmt.Fprintf(&b, "stack: %s\n", r.StackType)
	}
	if r.Slots != nil {
		fmt.Fprintf(&b, "slots: [%s]\n", strings.Join(r.Slots, " "))
	}
	if r.Sentinel != nil {
		fmt.Fprintf(&b, "sentinel: %d\n", *r.Sentinel)
	}
	if r.Kind == "method" {
		fmt.Fprintf(&b, "arguments: %d\n", r.Arguments)
	}
	fmt.Fprintf(&b, "size: %d\n", r.Size)
	if r.Trailing > 0 {
		fmt.Fprintf(&b, "trailing: %d\n", r.Trailing)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type sigDecoder func(r *blob.Reader) (*sigResult, error)

func newSigCommand(rootOpts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sig",
		Short: "Decode a signature blob",
		Long: `Decode a signature blob given as hex digits (whitespace is ignored)
or as @file holding hex text or raw bytes.`,
	}

	cmd.AddCommand(newSigSubcommand(rootOpts, "type", "Decode a type signature", decodeTypeSig))
	cmd.AddCommand(newSigSubcommand(rootOpts, "method", "Decode a method signature", decodeMethodSig))
	cmd.AddCommand(newSigSubcommand(rootOpts, "locals", "Decode a local variable signature", decodeLocalsSig))
	cmd.AddCommand(newSigSubcommand(rootOpts, "field", "Decode a field signature", decodeFieldSig))

	return cmd
}

func newSigSubcommand(rootOpts *rootOptions, name, short string, decode sigDecoder) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <hex|@file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			r := blob.NewReader(data)
			res, err := decode(r)
			if err != nil {
				return err
			}
			res.Size = r.Offset()
			res.Trailing = r.Remaining()
			return writeResult(cmd.OutOrStdout(), rootOpts.cfg.Output.Format, res)
		},
	}
}

func decodeTypeSig(r *blob.Reader) (*sigResult, error) {
	t, err := signature.DecodeType(r)
	if err != nil {
		return nil, err
	}
	return &sigResult{
		Kind:      "type",
		Signature: t.String(),
		StackType: ir.StackTypeOfSignature(t).String(),
	}, nil
}

func decodeFieldSig(r *blob.Reader) (*sigResult, error) {
	t, err := signature.DecodeField(r)
	if err != nil {
		return nil, err
	}
	return &sigResult{
		Kind:      "field",
		Signature: t.String(),
		StackType: ir.StackTypeOfSignature(t).String(),
	}, nil
}

func decodeMethodSig(r *blob.Reader) (*sigResult, error) {
	m, err := signature.DecodeMethod(r)
	if err != nil {
		return nil, err
	}
	res := &sigResult{
		Kind:       "method",
		Signature:  m.String(),
		Convention: m.CallingConvention().String(),
		StackType:  ir.StackTypeOfSignature(m.ReturnType).String(),
		Slots:      stackSlots(m.Params),
		Arguments:  m.ArgumentCount(),
	}
	if m.Params.HasSentinel() {
		idx := m.Params.SentinelIndex()
		res.Sentinel = &idx
	}
	return res, nil
}

func decodeLocalsSig(r *blob.Reader) (*sigResult, error) {
	c, err := signature.DecodeLocals(r)
	if err != nil {
		return nil, err
	}
	return &sigResult{
		Kind:      "locals",
		Signature: c.String(),
		Slots:     stackSlots(c),
	}, nil
}

func stackSlots(c signature.Collection) []string {
	slots := make([]string, 0, c.Count())
	for _, st := range ir.StackTypes(c) {
		slots = append(slots, st.String())
	}
	return slots
}
