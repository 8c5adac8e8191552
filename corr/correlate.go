// SPDX-License-Identifier: MIT

package corr

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lvcorr/matrix"
	"github.com/katalvlaran/lvcorr/subset"
	"github.com/katalvlaran/lvcorr/table"
	"github.com/katalvlaran/lvcorr/workers"
)

// Operation tags for uniform error wrapping.
const (
	opMatrix           = "corr.Matrix"
	opTarget           = "corr.Target"
	opTargetSequential = "corr.TargetSequential"
	opTargetMap        = "corr.TargetMap"
)

func corrErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Matrix correlates every pair of the selected columns of ds.
// Implementation:
//   - Stage 1: options, then subset.Resolve (filter, metadata, selection).
//   - Stage 2: matrix.PairwiseCorrelation over the reduced columns (NaN = missing).
//   - Stage 3: emit both orientations of every pair plus the diagonal; assemble with dedupe.
//
// Errors:
//   - ErrInvalidOption, table.ErrNotATable, table.ErrKeyMismatch, table.ErrColumnNotFound,
//     subset.ErrInvalidFilterSpec, subset.ErrNonNumericColumn; numeric failures abort the call.
//
// Complexity:
//   - Time O(rows*cols²).
func Matrix(ds *table.Table, sel subset.Selection, opts ...Option) (*PairTable, error) {
	// Stage 1 (Validate + reduce).
	cfg, err := gatherOptions(opts...)
	if err != nil {
		return nil, corrErrorf(opMatrix, err)
	}
	log := cfg.log.WithMode("matrix")
	reduced, err := subset.Resolve(ds, cfg.meta, cfg.filter, sel)
	if err != nil {
		return nil, corrErrorf(opMatrix, err)
	}
	log.LogSubset(context.Background(), ds.Rows(), reduced.Rows(), reduced.NumCols(), nil)

	// Stage 2 (Closed form).
	names := reduced.Names()
	cols := make([][]float64, len(names))
	for j, name := range names {
		if cols[j], err = numeric(reduced, name); err != nil {
			return nil, corrErrorf(opMatrix, err)
		}
	}
	X, err := matrix.NewFromColumns(cols)
	if err != nil {
		return nil, corrErrorf(opMatrix, err)
	}
	R, N, P, err := matrix.PairwiseCorrelation(X)
	if err != nil {
		return nil, corrErrorf(opMatrix, err)
	}

	// Stage 3 (Long format).
	raw := make([]Pair, 0, len(names)*len(names))
	var r, n, p float64
	for i := range names {
		for j := range names {
			if r, err = R.At(i, j); err == nil {
				if n, err = N.At(i, j); err == nil {
					p, err = P.At(i, j)
				}
			}
			if err != nil {
				return nil, corrErrorf(opMatrix, err)
			}
			raw = append(raw, Pair{Target: names[i], Correlation: names[j], N: int(n), R: r, P: p})
		}
	}
	out, err := assemble(raw, cfg, assembly{dedupe: true, adjust: true})
	if err != nil {
		return nil, corrErrorf(opMatrix, err)
	}
	log.LogAssemble(context.Background(), out.Len(), 0, string(cfg.method))

	return out, nil
}

// TargetSequential correlates target against every selected column in the calling goroutine.
// The target joins the projection when it is not selected; a self row exists only when it is.
// Errors: as Matrix, plus ErrInvalidTargetSet for an empty target name.
func TargetSequential(ds *table.Table, target string, sel subset.Selection, opts ...Option) (*PairTable, error) {
	cfg, err := gatherOptions(opts...)
	if err != nil {
		return nil, corrErrorf(opTargetSequential, err)
	}
	cfg.pool, cfg.poolSet = nil, true
	cfg.strategy = Sequential

	out, err := targetOne(context.Background(), cfg, ds, target, sel)
	if err != nil {
		return nil, corrErrorf(opTargetSequential, err)
	}

	return out, nil
}

// Target correlates target against every selected column as one task on the active pool
// (WithPool, else workers.Default(), else synchronously). A failure of that task is returned.
func Target(ctx context.Context, ds *table.Table, target string, sel subset.Selection, opts ...Option) (*PairTable, error) {
	cfg, err := gatherOptions(opts...)
	if err != nil {
		return nil, corrErrorf(opTarget, err)
	}

	out, err := targetOne(ctx, cfg, ds, target, sel)
	if err != nil {
		return nil, corrErrorf(opTarget, err)
	}

	return out, nil
}

func targetOne(ctx context.Context, cfg *config, ds *table.Table, target string, sel subset.Selection) (*PairTable, error) {
	log := cfg.log.WithMode("target")
	pl, err := prepare(cfg, ds, []string{target}, sel)
	if err != nil {
		return nil, err
	}
	log.LogSubset(ctx, ds.Rows(), pl.reduced.Rows(), pl.reduced.NumCols(), nil)

	pool := cfg.activePool()
	res, err := workers.Run(ctx, pool, 1, func(ctx context.Context, _ int) ([]Pair, error) {
		return cfg.strategy.compute(ctx, pool, pl.reduced, target, pl.cols)
	})
	if err != nil {
		return nil, err
	}
	if res[0].Err != nil {
		return nil, fmt.Errorf("target %q: %w", target, res[0].Err)
	}

	out, err := assemble(res[0].Value, cfg, assembly{adjust: true})
	if err != nil {
		return nil, err
	}
	log.LogAssemble(ctx, out.Len(), 0, string(cfg.method))

	return out, nil
}

// plan is the validated, reduced input shared by the target entry points.
type plan struct {
	reduced *table.Table
	cols    []string // correlation columns: the resolved selection
}

// prepare validates targets and reduces ds to the selection plus any unselected targets.
func prepare(cfg *config, ds *table.Table, targets []string, sel subset.Selection) (*plan, error) {
	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if t == "" {
			return nil, fmt.Errorf("empty target name: %w", ErrInvalidTargetSet)
		}
		if _, dup := seen[t]; dup {
			return nil, fmt.Errorf("duplicate target %q: %w", t, ErrInvalidTargetSet)
		}
		seen[t] = struct{}{}
	}

	cols, err := subset.Validate(ds, cfg.meta, cfg.filter, sel)
	if err != nil {
		return nil, err
	}
	withTargets, err := subset.Columns(cols...).With(ds, targets...)
	if err != nil {
		return nil, err
	}
	reduced, err := subset.Resolve(ds, cfg.meta, cfg.filter, withTargets)
	if err != nil {
		return nil, err
	}

	return &plan{reduced: reduced, cols: cols}, nil
}
