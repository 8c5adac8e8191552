// SPDX-License-Identifier: MIT
// Package corr: sentinel error set ("corr: ..." prefix, match with errors.Is).
// Dataset and column errors come from package table and package subset unchanged.

package corr

import "errors"

var (
	// ErrInvalidTargetSet indicates a target list with the wrong arity, a duplicate, or an empty name.
	ErrInvalidTargetSet = errors.New("corr: invalid target set")

	// ErrInvalidOption indicates an option value outside its enumerated set.
	ErrInvalidOption = errors.New("corr: invalid option")
)
