// SPDX-License-Identifier: MIT

// Package corr - result assembly.
//
// Steps, in order:
//  1. Dedupe (matrix mode): Target = min, Correlation = max, first occurrence kept.
//  2. Adjust: q over the non-NaN p values as one family.
//  3. Annotate: one value per sorted filter key (comma-joined accepted values).
//  4. Self: SelfYes keeps self rows with p = q = 0; SelfNo drops them.
//  5. Sort: Target asc, q asc with NaN last, Correlation asc.

package corr

import (
	"math"
	"sort"

	"github.com/katalvlaran/lvcorr/stats"
)

type assembly struct {
	dedupe bool // matrix mode
	adjust bool // false when q was already set per target
}

// assemble turns raw per-pair statistics into the final PairTable. raw is consumed.
func assemble(raw []Pair, cfg *config, a assembly) (*PairTable, error) {
	pairs := raw

	// Stage 1 (Dedupe).
	if a.dedupe {
		pairs = dedupe(pairs)
	}

	// Stage 2 (Adjust).
	if a.adjust {
		if err := adjust(pairs, cfg.method); err != nil {
			return nil, err
		}
	}

	// Stage 3 (Annotate).
	keys := cfg.filter.Keys()
	if len(keys) > 0 {
		ann := make([]string, len(keys))
		for i, k := range keys {
			ann[i] = cfg.filter.Annotation(k)
		}
		for i := range pairs {
			pairs[i].Filters = ann
		}
	}

	// Stage 4 (Self).
	kept := pairs[:0]
	for _, p := range pairs {
		if p.IsSelf() {
			if cfg.self == SelfNo {
				continue
			}
			p.P, p.Q = 0, 0
		}
		kept = append(kept, p)
	}
	pairs = kept

	// Stage 5 (Sort).
	sort.SliceStable(pairs, func(i, j int) bool {
		x, y := pairs[i], pairs[j]
		if x.Target != y.Target {
			return x.Target < y.Target
		}
		if nx, ny := math.IsNaN(x.Q), math.IsNaN(y.Q); nx != ny {
			return ny
		} else if !nx && x.Q != y.Q {
			return x.Q < y.Q
		}
		return x.Correlation < y.Correlation
	})

	return &PairTable{FilterKeys: keys, Pairs: pairs}, nil
}

// dedupe normalizes each unordered pair and keeps its first occurrence.
func dedupe(pairs []Pair) []Pair {
	seen := make(map[[2]string]struct{}, len(pairs)/2+1)
	out := pairs[:0]
	for _, p := range pairs {
		if p.Correlation < p.Target {
			p.Target, p.Correlation = p.Correlation, p.Target
		}
		k := [2]string{p.Target, p.Correlation}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}

	return out
}

// adjust fills Q from P under method m; NaN p values stay out of the family.
func adjust(pairs []Pair, m stats.Method) error {
	p := make([]float64, len(pairs))
	for i := range pairs {
		p[i] = pairs[i].P
	}
	q, err := stats.Adjust(p, m)
	if err != nil {
		return err
	}
	for i := range pairs {
		pairs[i].Q = q[i]
	}

	return nil
}
