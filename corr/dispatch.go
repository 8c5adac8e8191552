// SPDX-License-Identifier: MIT

// Package corr - multi-target dispatch.
//
// Concurrency:
//   - One pool task per target; each task owns a Clone of the reduced table.
//   - The call blocks until every task has finished; there is no streaming.
//   - Outcomes and merged rows follow target submission order.

package corr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/lvcorr/subset"
	"github.com/katalvlaran/lvcorr/table"
	"github.com/katalvlaran/lvcorr/workers"
)

// minTargets is the smallest target set TargetMap accepts; one target goes through Target.
const minTargets = 2

// TargetOutcome records what happened to one target of a TargetMap call.
type TargetOutcome struct {
	Target string
	Err    error // nil on success
	Rows   int   // raw rows produced (before self handling)
}

// Result is the outcome of a TargetMap call.
type Result struct {
	RunID    uuid.UUID
	Table    *PairTable      // merged rows of every successful target
	Outcomes []TargetOutcome // one per target, in submission order
}

// Failed returns the outcomes that carry an error.
func (r *Result) Failed() []TargetOutcome {
	var out []TargetOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Err joins the failures of every target, or returns nil when all succeeded.
func (r *Result) Err() error {
	var errs []error
	for _, o := range r.Failed() {
		errs = append(errs, fmt.Errorf("target %q: %w", o.Target, o.Err))
	}
	return errors.Join(errs...)
}

// TargetMap correlates each target against every selected column, one task per target.
// Implementation:
//   - Stage 1: options; at least two distinct, non-empty targets; subset validation and
//     reduction run once, before dispatch, and are fatal.
//   - Stage 2: one task per target on the active pool, each with its own table Clone and the
//     configured Strategy (Sequential by default).
//   - Stage 3: record an outcome per target; merge successful rows in submission order.
//   - Stage 4: assemble (global adjustment by default, per-target with AdjustPerTarget).
//
// Behavior highlights:
//   - A failed or panicking target is isolated in its outcome; siblings still complete.
//   - The returned error covers validation only; use Result.Err for task failures.
//
// Errors:
//   - ErrInvalidOption, ErrInvalidTargetSet, plus the subset/table validation sentinels.
func TargetMap(ctx context.Context, ds *table.Table, targets []string, sel subset.Selection, opts ...Option) (*Result, error) {
	// Stage 1 (Validate + reduce).
	cfg, err := gatherOptions(opts...)
	if err != nil {
		return nil, corrErrorf(opTargetMap, err)
	}
	if len(targets) < minTargets {
		return nil, corrErrorf(opTargetMap, fmt.Errorf("%d target(s), want at least %d: %w", len(targets), minTargets, ErrInvalidTargetSet))
	}
	pl, err := prepare(cfg, ds, targets, sel)
	if err != nil {
		return nil, corrErrorf(opTargetMap, err)
	}
	runID := uuid.New()
	log := cfg.log.WithRun(runID).WithMode("target_map")
	log.LogSubset(ctx, ds.Rows(), pl.reduced.Rows(), pl.reduced.NumCols(), nil)

	// Stage 2 (Dispatch).
	pool := cfg.activePool()
	log.LogDispatch(ctx, len(targets), pool.Size())
	res, err := workers.Run(ctx, pool, len(targets), func(ctx context.Context, i int) ([]Pair, error) {
		start := time.Now()
		rows, err := cfg.strategy.compute(ctx, pool, pl.reduced.Clone(), targets[i], pl.cols)
		if err == nil && cfg.scope == AdjustPerTarget {
			err = adjust(rows, cfg.method)
		}
		log.LogTask(ctx, targets[i], len(rows), time.Since(start), err)
		return rows, err
	})
	if err != nil {
		return nil, corrErrorf(opTargetMap, err)
	}

	// Stage 3 (Outcomes + merge).
	out := &Result{RunID: runID, Outcomes: make([]TargetOutcome, len(targets))}
	var merged []Pair
	for i, r := range res {
		out.Outcomes[i] = TargetOutcome{Target: targets[i], Err: r.Err}
		if r.Err != nil {
			continue
		}
		out.Outcomes[i].Rows = len(r.Value)
		merged = append(merged, r.Value...)
	}

	// Stage 4 (Assemble).
	out.Table, err = assemble(merged, cfg, assembly{adjust: cfg.scope == AdjustGlobal})
	if err != nil {
		return nil, corrErrorf(opTargetMap, err)
	}
	log.LogAssemble(ctx, out.Table.Len(), len(out.Failed()), string(cfg.method))

	return out, nil
}
