// SPDX-License-Identifier: MIT

package source

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/katalvlaran/lvcorr/table"
)

// arrowColumn accumulates one Arrow field across record batches.
type arrowColumn struct {
	name    string
	numeric bool
	num     []float64
	str     []string
	missing []bool
}

func newArrowColumn(f arrow.Field) (*arrowColumn, error) {
	c := &arrowColumn{name: f.Name}
	switch f.Type.ID() {
	case arrow.FLOAT64, arrow.FLOAT32,
		arrow.INT64, arrow.INT32, arrow.INT16, arrow.INT8,
		arrow.UINT64, arrow.UINT32, arrow.UINT16, arrow.UINT8:
		c.numeric = true
	case arrow.STRING, arrow.LARGE_STRING:
	default:
		return nil, fmt.Errorf("source: field %q of type %s: %w", f.Name, f.Type, ErrUnsupportedType)
	}
	return c, nil
}

// appendArray copies arr into the column; nulls become NaN or missing strings.
func (c *arrowColumn) appendArray(arr arrow.Array) error {
	n := arr.Len()
	for i := 0; i < n; i++ {
		null := arr.IsNull(i)
		if !c.numeric {
			s := ""
			if !null {
				switch a := arr.(type) {
				case *array.String:
					s = a.Value(i)
				case *array.LargeString:
					s = a.Value(i)
				default:
					return fmt.Errorf("source: field %q: %w", c.name, ErrUnsupportedType)
				}
			}
			c.str = append(c.str, s)
			c.missing = append(c.missing, null)
			continue
		}
		if null {
			c.num = append(c.num, math.NaN())
			continue
		}
		v, err := numericAt(arr, i)
		if err != nil {
			return fmt.Errorf("source: field %q: %w", c.name, err)
		}
		c.num = append(c.num, v)
	}
	return nil
}

func numericAt(arr arrow.Array, i int) (float64, error) {
	switch a := arr.(type) {
	case *array.Float64:
		return a.Value(i), nil
	case *array.Float32:
		return float64(a.Value(i)), nil
	case *array.Int64:
		return float64(a.Value(i)), nil
	case *array.Int32:
		return float64(a.Value(i)), nil
	case *array.Int16:
		return float64(a.Value(i)), nil
	case *array.Int8:
		return float64(a.Value(i)), nil
	case *array.Uint64:
		return float64(a.Value(i)), nil
	case *array.Uint32:
		return float64(a.Value(i)), nil
	case *array.Uint16:
		return float64(a.Value(i)), nil
	case *array.Uint8:
		return float64(a.Value(i)), nil
	default:
		return 0, ErrUnsupportedType
	}
}

func (c *arrowColumn) build() *table.Column {
	if c.numeric {
		return table.NewNumeric(c.name, c.num)
	}
	return table.NewCategorical(c.name, c.str, c.missing)
}

// arrowBuilder gathers record batches that share one schema.
type arrowBuilder struct {
	cols []*arrowColumn
}

func newArrowBuilder(schema *arrow.Schema) (*arrowBuilder, error) {
	b := &arrowBuilder{cols: make([]*arrowColumn, schema.NumFields())}
	for i, f := range schema.Fields() {
		c, err := newArrowColumn(f)
		if err != nil {
			return nil, err
		}
		b.cols[i] = c
	}
	return b, nil
}

func (b *arrowBuilder) append(rec arrow.Record) error {
	for j, c := range b.cols {
		if err := c.appendArray(rec.Column(j)); err != nil {
			return err
		}
	}
	return nil
}

func (b *arrowBuilder) table(key string) (*table.Table, error) {
	cols := make([]*table.Column, len(b.cols))
	for j, c := range b.cols {
		cols[j] = c.build()
	}
	return table.New(key, cols...)
}

// FromRecord converts one Arrow record batch into a Table. The record is not released.
// Errors: ErrUnsupportedType for fields that are neither numeric nor string.
func FromRecord(rec arrow.Record, opts ...Option) (*table.Table, error) {
	cfg := gatherOptions(opts...)
	b, err := newArrowBuilder(rec.Schema())
	if err != nil {
		return nil, err
	}
	if err = b.append(rec); err != nil {
		return nil, err
	}
	return b.table(cfg.key)
}

// ReadIPC reads an Arrow IPC stream and concatenates every record batch into one Table.
func ReadIPC(r io.Reader, opts ...Option) (*table.Table, error) {
	cfg := gatherOptions(opts...)
	rdr, err := ipc.NewReader(r, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("source: ipc: %w", err)
	}
	defer rdr.Release()

	b, err := newArrowBuilder(rdr.Schema())
	if err != nil {
		return nil, err
	}
	for rdr.Next() {
		if err = b.append(rdr.Record()); err != nil {
			return nil, err
		}
	}
	if err = rdr.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("source: ipc: %w", err)
	}
	return b.table(cfg.key)
}
