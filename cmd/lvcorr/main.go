// SPDX-License-Identifier: MIT

// Command lvcorr computes pairwise Pearson correlations over tabular datasets.
//
// Usage:
//
//	lvcorr matrix  --data cars.csv [--select mpg,wt] [--filter cyl=4,6]
//	lvcorr target  --data cars.csv --target mpg
//	lvcorr targets --data cars.csv --target mpg --target wt --adjust per-target
//	lvcorr serve   [--listen :8080] [--allow-local]
//	lvcorr config  show | set <key> <value>
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}
