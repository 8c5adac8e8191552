// SPDX-License-Identifier: MIT

package source

import "errors"

var (
	// ErrEmptyInput indicates a source without a header row.
	ErrEmptyInput = errors.New("source: empty input")

	// ErrUnsupportedType indicates an Arrow or SQL column type with no table mapping.
	ErrUnsupportedType = errors.New("source: unsupported column type")

	// ErrUnknownScheme indicates a location whose scheme has no registered store.
	ErrUnknownScheme = errors.New("source: unknown location scheme")

	// ErrInvalidLocation indicates a malformed object location (missing bucket or key).
	ErrInvalidLocation = errors.New("source: invalid location")
)
