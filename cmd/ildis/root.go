package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/decompiler/ir"
	"github.com/wippyai/decompiler/metadata"
)

var validFormats = []string{"text", "json", "yaml"}

func isValidFormat(format string) bool {
	return slices.Contains(validFormats, format)
}

// rootOptions holds the global flags and the configuration they resolve to.
type rootOptions struct {
	ConfigPath string
	Format     string
	Verbose    bool

	cfg    Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ildis",
		Short: "Decode ECMA-335 signatures and IL method bodies",
		Long: `ildis decodes .NET metadata signatures, disassembles IL method bodies
into the instruction IR and scans fixture modules for handle usages.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to ildis.toml")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging to stderr")

	cmd.AddCommand(newSigCommand(opts))
	cmd.AddCommand(newILCommand(opts))
	cmd.AddCommand(newScanCommand(opts))

	return cmd
}

// setup resolves the configuration: defaults, then the file, then flags
// that were set explicitly.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	o.cfg = DefaultConfig()
	if o.ConfigPath != "" {
		cfg, err := LoadConfig(o.ConfigPath)
		if err != nil {
			return err
		}
		o.cfg = cfg
	}
	if cmd.Flags().Changed("format") {
		o.cfg.Output.Format = o.Format
	}
	if err := o.cfg.Validate(); err != nil {
		return err
	}

	logger, err := o.cfg.Log.NewLogger(o.Verbose)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	o.logger = logger
	ir.SetLogger(logger.Named("ir"))
	metadata.SetLogger(logger.Named("metadata"))
	return nil
}
