// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	cfgpkg "github.com/katalvlaran/lvcorr/internal/config"
	"github.com/katalvlaran/lvcorr/internal/logging"
	"github.com/katalvlaran/lvcorr/workers"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfgFile  string
	logLevel string
	logJSON  bool

	cfg *cfgpkg.Global
	log *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "lvcorr",
		Short:         "Pairwise Pearson correlations over tabular data",
		Long:          `lvcorr correlates the numeric columns of a dataset, optionally restricted by a row filter (directly or through a metadata table), limited to target columns and fanned out over a worker pool. Output is a long-format table: Target, Correlation, n, r, p, q.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	// Persistent global flags available to all subcommands
	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default is ~/.lvcorr/config.yaml)")
	f.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	f.BoolVar(&a.logJSON, "log-json", false, "emit JSON log records (overrides config)")

	root.AddCommand(
		newRunCmd(a, modeMatrix),
		newRunCmd(a, modeTarget),
		newRunCmd(a, modeTargets),
		newServeCmd(a),
		newConfigCmd(a),
	)
	return root
}

// init loads configuration and builds the logger; flags win over config values.
func (a *app) init(stderr io.Writer) error {
	c, err := cfgpkg.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = c
	if a.logLevel != "" {
		a.cfg.LogLevel = a.logLevel
	}
	if a.logJSON {
		a.cfg.LogJSON = true
	}

	level, err := logging.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.cfg.LogJSON {
		a.log = logging.NewJSONLogger(stderr, level)
	} else {
		a.log = logging.NewTextLogger(stderr, level)
	}
	return nil
}

// startPool installs the process-wide worker pool from config; the caller defers the
// returned stop.
func (a *app) startPool(size int, logical bool) func() {
	var opts []workers.Option
	if a.cfg.RateLimit > 0 {
		opts = append(opts, workers.WithRateLimit(a.cfg.RateLimit, 1))
	}
	if size <= 0 {
		size = a.cfg.Workers
	}
	var p *workers.Pool
	if size > 0 {
		p = workers.StartN(size, opts...)
	} else {
		p = workers.Start(logical, opts...)
	}
	a.log.Debug("worker pool started", slog.Int("size", p.Size()))
	return workers.Stop
}
