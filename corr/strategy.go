// SPDX-License-Identifier: MIT

package corr

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/lvcorr/stats"
	"github.com/katalvlaran/lvcorr/table"
	"github.com/katalvlaran/lvcorr/workers"
)

// Strategy computes one target column against a list of columns of a reduced table.
// The set is closed: Sequential and Dispatching are the only implementations.
type Strategy interface {
	// Name identifies the strategy in logs and configuration.
	Name() string

	compute(ctx context.Context, pool *workers.Pool, t *table.Table, target string, cols []string) ([]Pair, error)
}

var (
	// Sequential runs every pair test of a target in the calling goroutine. It is the
	// default per-target computation of TargetMap.
	Sequential Strategy = sequential{}

	// Dispatching submits every pair test of a target to the pool as its own task.
	// Inside TargetMap this nests pool work within pool tasks and gains nothing; it
	// exists for single-target calls on wide tables.
	Dispatching Strategy = dispatching{}
)

// ParseStrategy maps "sequential" or "dispatching" to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", Sequential.Name():
		return Sequential, nil
	case Dispatching.Name():
		return Dispatching, nil
	default:
		return nil, fmt.Errorf("strategy %q: %w", name, ErrInvalidOption)
	}
}

type sequential struct{}

func (sequential) Name() string { return "sequential" }

func (sequential) compute(_ context.Context, _ *workers.Pool, t *table.Table, target string, cols []string) ([]Pair, error) {
	x, err := numeric(t, target)
	if err != nil {
		return nil, err
	}
	out := make([]Pair, 0, len(cols))
	for _, name := range cols {
		p, err := testPair(t, x, target, name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, nil
}

type dispatching struct{}

func (dispatching) Name() string { return "dispatching" }

func (dispatching) compute(ctx context.Context, pool *workers.Pool, t *table.Table, target string, cols []string) ([]Pair, error) {
	x, err := numeric(t, target)
	if err != nil {
		return nil, err
	}
	res, err := workers.Run(ctx, pool, len(cols), func(_ context.Context, i int) (Pair, error) {
		return testPair(t, x, target, cols[i])
	})
	if err != nil {
		return nil, err
	}
	out := make([]Pair, len(res))
	for i, r := range res {
		if r.Err != nil {
			return nil, fmt.Errorf("%s ~ %s: %w", target, cols[i], r.Err)
		}
		out[i] = r.Value
	}

	return out, nil
}

// testPair runs the explicit Pearson test of target (values x) against column name.
// A column against itself keeps its r but gets a NaN p: it is not a test and stays out
// of the adjustment family.
func testPair(t *table.Table, x []float64, target, name string) (Pair, error) {
	y, err := numeric(t, name)
	if err != nil {
		return Pair{}, err
	}
	res, err := stats.PearsonTest(x, y)
	if err != nil {
		return Pair{}, fmt.Errorf("%s ~ %s: %w", target, name, err)
	}
	p := res.P
	if name == target {
		p = math.NaN()
	}

	return Pair{Target: target, Correlation: name, N: res.N, R: res.R, P: p, Q: math.NaN()}, nil
}

func numeric(t *table.Table, name string) ([]float64, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return col.Values()
}
