// SPDX-License-Identifier: MIT

package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// minTestN is the smallest complete-pair count with a defined t statistic (df >= 1).
const minTestN = 3

// TStatistic converts a Pearson coefficient into its t statistic with n-2 degrees of freedom.
// |r| == 1 yields ±Inf; n < 3 or NaN r yields NaN.
func TStatistic(r float64, n int) float64 {
	if n < minTestN || math.IsNaN(r) {
		return math.NaN()
	}
	df := float64(n - 2)
	den := 1 - r*r
	if den <= 0 {
		return math.Copysign(math.Inf(1), r)
	}
	return r * math.Sqrt(df/den)
}

// TwoSidedP returns the two-sided p-value for H0: rho = 0 given r over n complete pairs.
// Implementation:
//   - Stage 1: t = r*sqrt((n-2)/(1-r^2)).
//   - Stage 2: p = 2*F(-|t|) with F the Student t CDF on n-2 df; the lower tail keeps
//     precision for tiny p where 1-F(|t|) would round to zero.
//
// Returns NaN when the statistic is undefined (n < 3, NaN r).
func TwoSidedP(r float64, n int) float64 {
	t := TStatistic(r, n)
	if math.IsNaN(t) {
		return math.NaN()
	}
	if math.IsInf(t, 0) {
		return 0
	}
	st := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	p := 2 * st.CDF(-math.Abs(t))
	if p > 1 {
		p = 1
	}
	return p
}
