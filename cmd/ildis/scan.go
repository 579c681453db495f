package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/decompiler/handle"
	"github.com/wippyai/decompiler/metadata"
)

type scanOptions struct {
	Cache       string
	Parallelism int
	FailFast    bool
}

type usageEntry struct {
	Handle string   `json:"handle" yaml:"handle"`
	Table  string   `json:"table" yaml:"table"`
	UsedBy []string `json:"used_by" yaml:"used_by"`
}

type scanResult struct {
	Module      string       `json:"module" yaml:"module"`
	Mvid        string       `json:"mvid" yaml:"mvid"`
	Cached      bool         `json:"cached,omitempty" yaml:"cached,omitempty"`
	Usages      []usageEntry `json:"usages" yaml:"usages"`
	Undecodable []string     `json:"undecodable,omitempty" yaml:"undecodable,omitempty"`
}

func (r *scanResult) writeText(w io.Writer) error {
	fmt.Fprintf(w, "module %s %s\n", r.Module, r.Mvid)
	for _, u := range r.Usages {
		fmt.Fprintf(w, "%s %-13s used by", u.Handle, u.Table)
		for _, m := range u.UsedBy {
			fmt.Fprintf(w, " %s", m)
		}
		fmt.Fprintln(w)
	}
	for _, m := range r.Undecodable {
		if _, err := fmt.Fprintf(w, "undecodable %s\n", m); err != nil {
			return err
		}
	}
	return nil
}

func newScanCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan <fixture.yaml>",
		Short: "Index which methods reference each handle",
		Long: `Load a YAML fixture module and scan every method body for the handles it
references: catch types, local variable types and token operands, with
TypeSpec signatures expanded.

With --cache the index is read from the given CBOR file when it exists and
written to it otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.cfg.Scan
			if cmd.Flags().Changed("jobs") {
				cfg.Parallelism = opts.Parallelism
			}
			if cmd.Flags().Changed("fail-fast") {
				cfg.FailFast = opts.FailFast
			}
			if cfg.Parallelism < 1 {
				return fmt.Errorf("--jobs must be at least 1, got %d", cfg.Parallelism)
			}

			res, err := scan(cmd, args[0], opts.Cache, cfg, rootOpts.logger)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), rootOpts.cfg.Output.Format, res)
		},
	}

	cmd.Flags().StringVar(&opts.Cache, "cache", "", "CBOR file caching the usage index")
	cmd.Flags().IntVarP(&opts.Parallelism, "jobs", "j", 0, "method bodies scanned in parallel (default from config)")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "stop at the first undecodable method body")

	return cmd
}

func scan(cmd *cobra.Command, path, cache string, cfg ScanConfig, logger *zap.Logger) (*scanResult, error) {
	m, err := metadata.LoadFixture(path, metadata.Options{
		Parallelism: cfg.Parallelism,
		FailFast:    cfg.FailFast,
	})
	if err != nil {
		return nil, err
	}

	table, cached, err := readCache(cache, m)
	if err != nil {
		return nil, err
	}
	if table == nil {
		table, err = m.Usages(cmd.Context())
		if err != nil {
			return nil, err
		}
		if cache != "" {
			if err := writeCache(cache, table); err != nil {
				return nil, err
			}
			logger.Debug("wrote usage cache", zap.String("path", cache))
		}
	}

	res := &scanResult{
		Module:      m.Name,
		Mvid:        m.Mvid.String(),
		Cached:      cached,
		Usages:      []usageEntry{},
		Undecodable: methodNames(m, table.Undecodable),
	}
	for _, h := range table.Handles() {
		res.Usages = append(res.Usages, usageEntry{
			Handle: h.String(),
			Table:  h.Table().String(),
			UsedBy: methodNames(m, table.UsedBy(h)),
		})
	}
	return res, nil
}

func methodNames(m *metadata.Module, hs []handle.Handle) []string {
	var out []string
	for _, h := range hs {
		name := h.String()
		if def, err := m.Method(h); err == nil {
			name = def.Name
		}
		out = append(out, name)
	}
	return out
}

// readCache returns the cached table, or nil when there is no cache or it
// was scanned from other module content.
func readCache(path string, m *metadata.Module) (*metadata.UsageTable, bool, error) {
	if path == "" {
		return nil, false, nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	table, err := metadata.ReadUsageTable(f)
	if err != nil {
		return nil, false, fmt.Errorf("read cache %s: %w", path, err)
	}
	if !table.Describes(m) {
		metadata.Logger().Warn("ignoring stale usage cache",
			zap.String("path", path),
			zap.String("cached", table.Module),
			zap.String("module", m.Name),
			zap.Stringer("mvid", m.Mvid),
			zap.Int("generation", m.Generation),
		)
		return nil, false, nil
	}
	return table, true, nil
}

func writeCache(path string, table *metadata.UsageTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := table.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
