// SPDX-License-Identifier: MIT
// Package workers: sentinel error set ("workers: ..." prefix, match with errors.Is).

package workers

import "errors"

var (
	// ErrPoolClosed is returned by Run on a pool that has been closed.
	ErrPoolClosed = errors.New("workers: pool closed")

	// ErrTaskPanic wraps a recovered task panic.
	ErrTaskPanic = errors.New("workers: task panicked")
)
