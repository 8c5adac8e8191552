// SPDX-License-Identifier: MIT

package corr

import (
	"context"
	"errors"

	"github.com/katalvlaran/lvcorr/table"
	"github.com/katalvlaran/lvcorr/workers"
)

// ErrInjected is returned by FaultyStrategy for its failing targets.
var ErrInjected = errors.New("corr: injected failure")

// faulty behaves like Sequential except for the listed targets.
type faulty struct {
	fail, panics map[string]bool
}

// FaultyStrategy returns a Strategy that fails the targets in fail and panics on the
// targets in panics; every other target computes like Sequential.
func FaultyStrategy(fail, panics []string) Strategy {
	f := faulty{fail: map[string]bool{}, panics: map[string]bool{}}
	for _, t := range fail {
		f.fail[t] = true
	}
	for _, t := range panics {
		f.panics[t] = true
	}
	return f
}

func (faulty) Name() string { return "faulty" }

func (f faulty) compute(ctx context.Context, pool *workers.Pool, t *table.Table, target string, cols []string) ([]Pair, error) {
	if f.panics[target] {
		panic("faulty strategy: " + target)
	}
	if f.fail[target] {
		return nil, ErrInjected
	}
	return Sequential.compute(ctx, pool, t, target, cols)
}
