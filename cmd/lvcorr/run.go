// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvcorr/corr"
	"github.com/katalvlaran/lvcorr/internal/api"
	"github.com/katalvlaran/lvcorr/subset"
)

const (
	modeMatrix  = "matrix"
	modeTarget  = "target"
	modeTargets = "targets"

	formatCSV  = "csv"
	formatJSON = "json"
)

// runFlags holds the flags shared by matrix, target and targets.
type runFlags struct {
	data, meta, key string
	sel             []string
	filters         []string
	targets         []string
	self, method    string
	adjust          string
	strategy        string
	format          string
	workers         int
	logical         bool
}

func newRunCmd(a *app, mode string) *cobra.Command {
	rf := &runFlags{}
	cmd := &cobra.Command{
		Use:   mode,
		Short: runShort[mode],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rf.checkTargets(mode); err != nil {
				return err
			}
			req, err := rf.request()
			if err != nil {
				return err
			}
			logical := a.cfg.LogicalCores
			if cmd.Flags().Changed("logical") {
				logical = rf.logical
			}
			defer a.startPool(rf.workers, logical)()

			need, err := schemesOf(req.Dataset, req.Metadata)
			if err != nil {
				return err
			}
			loader, closeLoader, err := a.newLoader(cmd.Context(), need)
			defer closeLoader()
			if err != nil {
				return err
			}
			exec := &api.Executor{
				Loader:     loader,
				AllowLocal: true,
				Base:       a.baseOptions(),
			}
			resp, err := exec.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			for _, o := range resp.Outcomes {
				if o.Error != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "⚠ target %s failed: %s\n", o.Target, o.Error)
				}
			}
			return render(cmd.OutOrStdout(), rf.format, resp)
		},
	}

	f := cmd.Flags()
	f.StringVar(&rf.data, "data", "", "dataset location: path, s3://, minio:// or sql:<query>")
	f.StringVar(&rf.meta, "meta", "", "metadata table location (filter is evaluated there)")
	f.StringVar(&rf.key, "key", "", "key attribute shared by data and metadata")
	f.StringSliceVar(&rf.sel, "select", nil, "columns to correlate (default: every numeric non-key column)")
	f.StringArrayVar(&rf.filters, "filter", nil, "row filter col=v1,v2 (repeatable; values of one column are OR-ed)")
	if mode != modeMatrix {
		f.StringArrayVar(&rf.targets, "target", nil, "target column (repeatable)")
		f.StringVar(&rf.strategy, "strategy", "", "per-target computation: sequential or dispatching")
	}
	if mode == modeTargets {
		f.StringVar(&rf.adjust, "adjust", "", "adjustment family: global or per-target (overrides config)")
	}
	f.StringVar(&rf.self, "self", "", "include self correlations: yes or no (overrides config)")
	f.StringVar(&rf.method, "method", "", "p-value adjustment: holm, hochberg, hommel, bonferroni, BH, BY, none (overrides config)")
	f.StringVar(&rf.format, "format", formatCSV, "output format: csv or json")
	f.IntVar(&rf.workers, "workers", 0, "worker pool size (0: config, then core count)")
	f.BoolVar(&rf.logical, "logical", true, "size the pool by logical rather than physical cores")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

var runShort = map[string]string{
	modeMatrix:  "Correlate every selected column pair",
	modeTarget:  "Correlate one target column against the selection",
	modeTargets: "Correlate several targets in parallel and merge the results",
}

func (rf *runFlags) checkTargets(mode string) error {
	switch {
	case mode == modeTarget && len(rf.targets) != 1:
		return fmt.Errorf("target needs exactly one --target, got %d: %w", len(rf.targets), corr.ErrInvalidTargetSet)
	case mode == modeTargets && len(rf.targets) < 2:
		return fmt.Errorf("targets needs at least two --target, got %d: %w", len(rf.targets), corr.ErrInvalidTargetSet)
	}
	if rf.format != formatCSV && rf.format != formatJSON {
		return fmt.Errorf("format %q: %w", rf.format, corr.ErrInvalidOption)
	}
	return nil
}

func (rf *runFlags) request() (api.Request, error) {
	filter, err := parseFilters(rf.filters)
	if err != nil {
		return api.Request{}, err
	}
	return api.Request{
		Dataset:  rf.data,
		Metadata: rf.meta,
		Key:      rf.key,
		Select:   rf.sel,
		Filter:   filter,
		Targets:  rf.targets,
		Self:     rf.self,
		Method:   rf.method,
		Adjust:   rf.adjust,
		Strategy: rf.strategy,
	}, nil
}

// parseFilters turns repeated "col=v1,v2" flags into a filter; repeating a column
// appends to its accepted values.
func parseFilters(specs []string) (subset.Filter, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	f := make(subset.Filter, len(specs))
	for _, spec := range specs {
		col, vals, ok := strings.Cut(spec, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("filter %q, want col=v1,v2: %w", spec, subset.ErrInvalidFilterSpec)
		}
		n := len(f[col])
		for _, v := range strings.Split(vals, ",") {
			if v = strings.TrimSpace(v); v != "" {
				f[col] = append(f[col], v)
			}
		}
		if len(f[col]) == n {
			return nil, fmt.Errorf("filter %q has no values: %w", spec, subset.ErrInvalidFilterSpec)
		}
	}
	return f, f.Validate()
}

// baseOptions turns the configured defaults into corr options; request flags are applied after.
func (a *app) baseOptions() []corr.Option {
	base := []corr.Option{corr.WithLogger(a.log.Logger)}
	defaults := api.Request{Self: a.cfg.Self, Method: a.cfg.Method, Adjust: a.cfg.AdjustScope}
	if opts, err := defaults.Options(); err == nil {
		base = append(base, opts...)
	} else {
		a.log.Warn("ignoring invalid configured defaults", "error", err)
	}
	return base
}

func render(w io.Writer, format string, resp *api.Response) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	return resp.Table.WriteCSV(w)
}
