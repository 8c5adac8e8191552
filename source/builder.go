// SPDX-License-Identifier: MIT

package source

import (
	"math"
	"strconv"
	"strings"

	"github.com/katalvlaran/lvcorr/table"
)

// columnBuilder accumulates one column of text cells and infers its kind on build.
type columnBuilder struct {
	name    string
	cells   []string
	missing []bool
}

func newColumnBuilder(name string, capacity int) *columnBuilder {
	return &columnBuilder{
		name:    name,
		cells:   make([]string, 0, capacity),
		missing: make([]bool, 0, capacity),
	}
}

func (b *columnBuilder) appendCell(s string, missing bool) {
	b.cells = append(b.cells, s)
	b.missing = append(b.missing, missing)
}

// build returns a numeric column when every observed cell parses, else a categorical one.
// A cell parsing to NaN ends up missing in the numeric column.
func (b *columnBuilder) build() *table.Column {
	values := make([]float64, len(b.cells))
	for i, s := range b.cells {
		if b.missing[i] {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return table.NewCategorical(b.name, b.cells, b.missing)
		}
		values[i] = v
	}
	return table.NewNumeric(b.name, values)
}

func buildTable(key string, builders []*columnBuilder) (*table.Table, error) {
	cols := make([]*table.Column, len(builders))
	for i, b := range builders {
		cols[i] = b.build()
	}
	return table.New(key, cols...)
}
