// SPDX-License-Identifier: MIT

// Package corr: functional options and their documented defaults.
//
// Options never panic: an invalid value is recorded and surfaced by the entry point as
// ErrInvalidOption before any work starts.

package corr

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/katalvlaran/lvcorr/internal/logging"
	"github.com/katalvlaran/lvcorr/stats"
	"github.com/katalvlaran/lvcorr/subset"
	"github.com/katalvlaran/lvcorr/table"
	"github.com/katalvlaran/lvcorr/workers"
)

// Self controls whether a column's correlation with itself appears in the output.
type Self uint8

const (
	// SelfNo drops self rows (default).
	SelfNo Self = iota
	// SelfYes keeps self rows with p and q forced to 0.
	SelfYes
)

// String returns "no" or "yes".
func (s Self) String() string {
	if s == SelfYes {
		return "yes"
	}
	return "no"
}

// ParseSelf maps "yes" or "no" (case-insensitive) to a Self value.
func ParseSelf(s string) (Self, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return SelfYes, nil
	case "no":
		return SelfNo, nil
	default:
		return SelfNo, fmt.Errorf("self %q: %w", s, ErrInvalidOption)
	}
}

// AdjustScope chooses the family a multiple-testing correction runs over in TargetMap.
type AdjustScope uint8

const (
	// AdjustGlobal adjusts the merged result of all targets as one family (default).
	AdjustGlobal AdjustScope = iota
	// AdjustPerTarget adjusts each target's rows separately before merging.
	AdjustPerTarget
)

// String returns "global" or "per-target".
func (a AdjustScope) String() string {
	if a == AdjustPerTarget {
		return "per-target"
	}
	return "global"
}

// ParseAdjustScope maps "global" or "per-target" to an AdjustScope.
func ParseAdjustScope(s string) (AdjustScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "global", "":
		return AdjustGlobal, nil
	case "per-target", "per_target", "pertarget":
		return AdjustPerTarget, nil
	default:
		return AdjustGlobal, fmt.Errorf("adjust scope %q: %w", s, ErrInvalidOption)
	}
}

// Defaults.
const (
	DefaultSelf        = SelfNo
	DefaultMethod      = stats.DefaultMethod
	DefaultAdjustScope = AdjustGlobal
)

// Option configures one correlation call.
type Option func(*config)

type config struct {
	filter   subset.Filter
	meta     *table.Table
	self     Self
	method   stats.Method
	pool     *workers.Pool
	poolSet  bool
	strategy Strategy
	scope    AdjustScope
	log      *logging.Logger
	err      error // first invalid option
}

// WithFilter restricts rows to the cross-join of accepted values per column.
func WithFilter(f subset.Filter) Option {
	return func(c *config) { c.filter = f }
}

// WithMetadata evaluates the filter on meta and maps matching keys back to the dataset.
func WithMetadata(meta *table.Table) Option {
	return func(c *config) { c.meta = meta }
}

// WithSelf sets the self-row policy.
func WithSelf(s Self) Option {
	return func(c *config) {
		if s != SelfNo && s != SelfYes {
			c.fail(fmt.Errorf("self %d: %w", s, ErrInvalidOption))
			return
		}
		c.self = s
	}
}

// WithMethod sets the multiple-testing adjustment.
func WithMethod(m stats.Method) Option {
	return func(c *config) {
		if !m.Valid() {
			c.fail(fmt.Errorf("%w: %w", ErrInvalidOption, fmt.Errorf("%q: %w", string(m), stats.ErrUnknownMethod)))
			return
		}
		c.method = m
	}
}

// WithPool runs dispatched work on p instead of workers.Default(). A nil p forces
// synchronous execution even when a default pool is running.
func WithPool(p *workers.Pool) Option {
	return func(c *config) {
		c.pool = p
		c.poolSet = true
	}
}

// WithStrategy sets the per-target computation used by TargetMap and Target.
func WithStrategy(s Strategy) Option {
	return func(c *config) {
		if s == nil {
			c.fail(fmt.Errorf("nil strategy: %w", ErrInvalidOption))
			return
		}
		c.strategy = s
	}
}

// WithAdjustScope sets the adjustment family for TargetMap.
func WithAdjustScope(a AdjustScope) Option {
	return func(c *config) {
		if a != AdjustGlobal && a != AdjustPerTarget {
			c.fail(fmt.Errorf("adjust scope %d: %w", a, ErrInvalidOption))
			return
		}
		c.scope = a
	}
}

// WithLogger routes call logs to l. The default discards them.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = &logging.Logger{Logger: l}
		}
	}
}

func (c *config) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// activePool resolves the pool a dispatch runs on.
func (c *config) activePool() *workers.Pool {
	if c.poolSet {
		return c.pool
	}
	return workers.Default()
}

// gatherOptions applies opts over the defaults and reports the first invalid option.
func gatherOptions(opts ...Option) (*config, error) {
	c := &config{
		self:     DefaultSelf,
		method:   DefaultMethod,
		strategy: Sequential,
		scope:    DefaultAdjustScope,
		log:      logging.NoopLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.err != nil {
		return nil, c.err
	}

	return c, nil
}
