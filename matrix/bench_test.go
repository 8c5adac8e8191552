// SPDX-License-Identifier: MIT
// Package matrix_test provides benchmarks for the correlation kernels,
// using deterministic random columns with a fixed missing rate.
package matrix_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/lvcorr/matrix"
)

// benchShapes are the (rows, cols) data shapes to benchmark.
var benchShapes = [][2]int{{100, 10}, {1000, 50}, {5000, 100}}

// sinks to defeat dead-code elimination
var (
	sinkM matrix.Matrix
	sinkD *matrix.Dense
)

func BenchmarkPairwiseCorrelation(b *testing.B) {
	b.ReportAllocs()
	for _, s := range benchShapes {
		b.Run(fmt.Sprintf("%dx%d", s[0], s[1]), func(b *testing.B) {
			X, err := matrix.NewFromColumns(randomColumns(1337, s[0], s[1], 0.05))
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				R, _, _, err := matrix.PairwiseCorrelation(X)
				if err != nil {
					b.Fatal(err)
				}
				sinkD = R
			}
		})
	}
}

func BenchmarkMul(b *testing.B) {
	b.ReportAllocs()
	for _, n := range []int{64, 128, 256} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			A, err := matrix.NewFromColumns(randomColumns(4242, n, n, 0))
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m, err := matrix.Mul(A, A)
				if err != nil {
					b.Fatal(err)
				}
				sinkM = m
			}
		})
	}
}
