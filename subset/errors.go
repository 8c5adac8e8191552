// SPDX-License-Identifier: MIT
// Package subset: sentinel error set ("subset: ..." prefix, match with errors.Is).

package subset

import "errors"

var (
	// ErrInvalidFilterSpec indicates a filter with an empty column name.
	ErrInvalidFilterSpec = errors.New("subset: invalid filter specification")

	// ErrNonNumericColumn indicates a selected column that cannot be correlated.
	ErrNonNumericColumn = errors.New("subset: selected column is not numeric")
)
