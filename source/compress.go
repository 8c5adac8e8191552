// SPDX-License-Identifier: MIT

package source

import (
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression suffixes recognised by Decompress.
const (
	SuffixZstd = ".zst"
	SuffixGzip = ".gz"
	SuffixLZ4  = ".lz4"
)

// Decompress wraps r in a decoder chosen by the suffix of name and returns the name with
// that suffix stripped. Unknown suffixes pass r through unchanged.
// The returned ReadCloser releases decoder state; it never closes r.
func Decompress(name string, r io.Reader) (io.ReadCloser, string, error) {
	ext := strings.ToLower(path.Ext(name))
	base := strings.TrimSuffix(name, path.Ext(name))
	switch ext {
	case SuffixZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, "", err
		}
		return dec.IOReadCloser(), base, nil
	case SuffixGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, "", err
		}
		return gz, base, nil
	case SuffixLZ4:
		return io.NopCloser(lz4.NewReader(r)), base, nil
	default:
		return io.NopCloser(r), name, nil
	}
}
