// SPDX-License-Identifier: MIT

// Package corr - long-format output schema and renderers.
//
// Schema (every entry point):
//
//	Target, Correlation, n, r, p, q, <filter keys in lexicographic order>
//
// NaN statistics render as "NA" in records and CSV and as null in JSON.

package corr

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"
)

// Fixed column names of the long-format schema.
const (
	ColTarget      = "Target"
	ColCorrelation = "Correlation"
	ColN           = "n"
	ColR           = "r"
	ColP           = "p"
	ColQ           = "q"

	naCell = "NA"
)

// Pair is one row of the output: the correlation of Target with Correlation.
type Pair struct {
	Target      string
	Correlation string
	N           int      // pairwise-complete observations
	R           float64  // Pearson r; NaN when undefined
	P           float64  // two-sided p; NaN when undefined
	Q           float64  // adjusted p; NaN when P is NaN
	Filters     []string // accepted values per filter key, aligned with PairTable.FilterKeys
}

// IsSelf reports whether the pair is a column against itself.
func (p Pair) IsSelf() bool { return p.Target == p.Correlation }

// PairTable is the long-format result of one correlation call.
type PairTable struct {
	FilterKeys []string
	Pairs      []Pair
}

// Len returns the number of rows.
func (t *PairTable) Len() int { return len(t.Pairs) }

// Lookup returns the row for (target, correlation).
func (t *PairTable) Lookup(target, correlation string) (Pair, bool) {
	for _, p := range t.Pairs {
		if p.Target == target && p.Correlation == correlation {
			return p, true
		}
	}
	return Pair{}, false
}

// Header returns the column names of Records.
func (t *PairTable) Header() []string {
	h := []string{ColTarget, ColCorrelation, ColN, ColR, ColP, ColQ}
	return append(h, t.FilterKeys...)
}

// Records renders every row as strings aligned with Header.
func (t *PairTable) Records() [][]string {
	out := make([][]string, len(t.Pairs))
	for i, p := range t.Pairs {
		rec := make([]string, 0, 6+len(t.FilterKeys))
		rec = append(rec, p.Target, p.Correlation, strconv.Itoa(p.N), cell(p.R), cell(p.P), cell(p.Q))
		out[i] = append(rec, p.Filters...)
	}

	return out
}

// WriteCSV writes Header and Records to w.
func (t *PairTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Records()); err != nil {
		return err
	}

	return cw.Error()
}

type jsonPair struct {
	Target      string            `json:"target"`
	Correlation string            `json:"correlation"`
	N           int               `json:"n"`
	R           *float64          `json:"r"`
	P           *float64          `json:"p"`
	Q           *float64          `json:"q"`
	Filters     map[string]string `json:"filters,omitempty"`
}

type jsonTable struct {
	FilterKeys []string   `json:"filter_keys"`
	Pairs      []jsonPair `json:"pairs"`
}

// MarshalJSON encodes the table with NaN statistics as null.
func (t *PairTable) MarshalJSON() ([]byte, error) {
	out := jsonTable{FilterKeys: t.FilterKeys, Pairs: make([]jsonPair, len(t.Pairs))}
	if out.FilterKeys == nil {
		out.FilterKeys = []string{}
	}
	for i, p := range t.Pairs {
		jp := jsonPair{Target: p.Target, Correlation: p.Correlation, N: p.N, R: num(p.R), P: num(p.P), Q: num(p.Q)}
		if len(t.FilterKeys) > 0 {
			jp.Filters = make(map[string]string, len(t.FilterKeys))
			for k, key := range t.FilterKeys {
				if k < len(p.Filters) {
					jp.Filters[key] = p.Filters[k]
				}
			}
		}
		out.Pairs[i] = jp
	}

	return json.Marshal(out)
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return naCell
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
