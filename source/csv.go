// SPDX-License-Identifier: MIT

package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/katalvlaran/lvcorr/table"
)

// ReadCSV parses a delimited text stream with a header row into a Table.
// Implementation:
//   - Stage 1: read the header; every later record must have the same field count.
//   - Stage 2: append each cell to its column builder, flagging NA tokens as missing.
//   - Stage 3: infer column kinds and assemble the table (key from WithKey).
//
// Errors:
//   - ErrEmptyInput when there is no header; csv parse errors; table construction errors.
func ReadCSV(r io.Reader, opts ...Option) (*table.Table, error) {
	cfg := gatherOptions(opts...)
	cr := csv.NewReader(r)
	if cfg.delimiter != 0 {
		cr.Comma = cfg.delimiter
	}
	cr.ReuseRecord = true

	// Stage 1 (Header).
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("source: header: %w", err)
	}
	builders := make([]*columnBuilder, len(header))
	for j, name := range header {
		builders[j] = newColumnBuilder(strings.TrimSpace(name), 64)
	}

	// Stage 2 (Records).
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		for j, cell := range rec {
			builders[j].appendCell(cell, cfg.isNA(strings.TrimSpace(cell)))
		}
	}

	// Stage 3 (Assemble).
	return buildTable(cfg.key, builders)
}

// ReadFile opens path, decompresses it by suffix and parses the remaining name:
// ".arrows" or ".ipc" as an Arrow IPC stream, anything else as CSV.
// A ".tsv" name selects the tab delimiter unless WithDelimiter is given.
func ReadFile(name string, opts ...Option) (*table.Table, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readNamed(name, f, opts...)
}

// readNamed decodes r as the file name would be decoded from disk.
func readNamed(name string, r io.Reader, opts ...Option) (*table.Table, error) {
	rc, base, err := Decompress(name, r)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", name, err)
	}
	defer rc.Close()

	switch strings.ToLower(path.Ext(base)) {
	case ".arrows", ".ipc":
		t, err := ReadIPC(rc, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return t, nil
	case ".tsv":
		opts = append([]Option{WithDelimiter('\t')}, opts...)
	}

	t, err := ReadCSV(rc, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}
