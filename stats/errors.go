// SPDX-License-Identifier: MIT
// Package stats: sentinel error set ("stats: ..." prefix, match with errors.Is).

package stats

import "errors"

var (
	// ErrLengthMismatch indicates paired vectors of different lengths.
	ErrLengthMismatch = errors.New("stats: vector length mismatch")

	// ErrUnknownMethod indicates an adjustment method name outside the supported set.
	ErrUnknownMethod = errors.New("stats: unknown adjustment method")
)
