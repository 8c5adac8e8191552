// SPDX-License-Identifier: MIT

// Package stats - multiple-testing adjustment.
//
// Purpose:
//   - Turn a vector of raw p-values into adjusted q-values controlling FWER or FDR.
//
// Missing policy:
//   - NaN entries are not part of the family: the family size is the count of non-NaN
//     p-values and NaN positions stay NaN in the output.
//
// Determinism:
//   - Orderings use stable sorts, so tied p-values keep their input order.

package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Method names a multiple-testing adjustment.
type Method string

// Supported adjustment methods.
const (
	Holm       Method = "holm"
	Hochberg   Method = "hochberg"
	Hommel     Method = "hommel"
	Bonferroni Method = "bonferroni"
	BH         Method = "BH"
	BY         Method = "BY"
	None       Method = "none"
)

// DefaultMethod is Benjamini-Hochberg (false discovery rate).
const DefaultMethod = BH

// Methods lists every supported method in documentation order.
func Methods() []Method {
	return []Method{Holm, Hochberg, Hommel, Bonferroni, BH, BY, None}
}

// ParseMethod maps a user-supplied name to a Method. Matching is case-insensitive and
// "fdr" is an alias of BH. Unknown names return ErrUnknownMethod.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "holm":
		return Holm, nil
	case "hochberg":
		return Hochberg, nil
	case "hommel":
		return Hommel, nil
	case "bonferroni":
		return Bonferroni, nil
	case "bh", "fdr":
		return BH, nil
	case "by":
		return BY, nil
	case "none":
		return None, nil
	default:
		return "", fmt.Errorf("%q: %w", name, ErrUnknownMethod)
	}
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	for _, known := range Methods() {
		if m == known {
			return true
		}
	}
	return false
}

// Adjust returns adjusted p-values for p under method m. The input is not modified.
// Implementation:
//   - Stage 1: validate m; compact the non-NaN entries (family of size n).
//   - Stage 2: apply the step-down/step-up rule on the compact vector.
//   - Stage 3: scatter back into input positions; NaN positions stay NaN.
//
// Errors:
//   - ErrUnknownMethod.
//
// Complexity:
//   - Time O(n log n) for all methods except Hommel, which is O(n^2).
func Adjust(p []float64, m Method) ([]float64, error) {
	// Stage 1 (Validate + compact).
	if !m.Valid() {
		return nil, fmt.Errorf("%q: %w", string(m), ErrUnknownMethod)
	}
	out := make([]float64, len(p))
	pos := make([]int, 0, len(p))
	vals := make([]float64, 0, len(p))
	for i, v := range p {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		pos = append(pos, i)
		vals = append(vals, v)
	}

	// Stage 2 (Adjust).
	var adj []float64
	n := len(vals)
	switch {
	case n <= 1 || m == None:
		adj = vals
	case m == Bonferroni:
		adj = make([]float64, n)
		for i, v := range vals {
			adj[i] = math.Min(1, float64(n)*v)
		}
	case m == Holm:
		adj = holm(vals)
	case m == Hochberg || (m == Hommel && n == 2):
		adj = stepUp(vals, func(i, n int) float64 { return float64(n - i + 1) })
	case m == Hommel:
		adj = hommel(vals)
	case m == BH:
		adj = stepUp(vals, func(i, n int) float64 { return float64(n) / float64(i) })
	case m == BY:
		var h float64
		for k := 1; k <= n; k++ {
			h += 1 / float64(k)
		}
		adj = stepUp(vals, func(i, n int) float64 { return h * float64(n) / float64(i) })
	}

	// Stage 3 (Scatter).
	for k, i := range pos {
		out[i] = adj[k]
	}
	return out, nil
}

// ascending returns the indices of v in stable ascending order.
func ascending(v []float64) []int {
	o := make([]int, len(v))
	for i := range o {
		o[i] = i
	}
	sort.SliceStable(o, func(a, b int) bool { return v[o[a]] < v[o[b]] })
	return o
}

// descending returns the indices of v in stable descending order.
func descending(v []float64) []int {
	o := make([]int, len(v))
	for i := range o {
		o[i] = i
	}
	sort.SliceStable(o, func(a, b int) bool { return v[o[a]] > v[o[b]] })
	return o
}

// holm is the step-down Holm rule: running max of (n-i+1)*p_(i), capped at 1.
func holm(p []float64) []float64 {
	n := len(p)
	o := ascending(p)
	out := make([]float64, n)
	run := 0.0
	for k, idx := range o {
		v := float64(n-k) * p[idx]
		if v > run {
			run = v
		}
		out[idx] = math.Min(1, run)
	}
	return out
}

// stepUp walks p in descending order, taking the running min of factor(i,n)*p_(i)
// where i is the ascending rank (n down to 1), capped at 1. Hochberg, BH and BY
// differ only in factor.
func stepUp(p []float64, factor func(i, n int) float64) []float64 {
	n := len(p)
	o := descending(p)
	out := make([]float64, n)
	run := math.Inf(1)
	for k, idx := range o {
		i := n - k
		v := factor(i, n) * p[idx]
		if v < run {
			run = v
		}
		out[idx] = math.Min(1, run)
	}
	return out
}

// hommel implements Hommel's closed-testing procedure on sorted p (n >= 3).
func hommel(p []float64) []float64 {
	n := len(p)
	o := ascending(p)
	s := make([]float64, n) // sorted p
	for k, idx := range o {
		s[k] = p[idx]
	}

	// q = pa = min_i(n*s_i/i)
	init := math.Inf(1)
	for i := 0; i < n; i++ {
		if v := float64(n) * s[i] / float64(i+1); v < init {
			init = v
		}
	}
	q := make([]float64, n)
	pa := make([]float64, n)
	for i := range q {
		q[i] = init
		pa[i] = init
	}

	for m := n - 1; m >= 2; m-- {
		// q1 = min over the top m-1 sorted values of m*s/(2..m)
		q1 := math.Inf(1)
		for k := 2; k <= m; k++ {
			if v := float64(m) * s[n-m+k-1] / float64(k); v < q1 {
				q1 = v
			}
		}
		for i := 0; i <= n-m; i++ {
			q[i] = math.Min(float64(m)*s[i], q1)
		}
		for i := n - m + 1; i < n; i++ {
			q[i] = q[n-m]
		}
		for i := range pa {
			if q[i] > pa[i] {
				pa[i] = q[i]
			}
		}
	}

	out := make([]float64, n)
	for k, idx := range o {
		out[idx] = math.Max(pa[k], s[k])
	}
	return out
}
