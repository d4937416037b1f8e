package repository

import "errors"

// ErrDuplicate is returned when an insert hits a uniqueness constraint.
// Repositories detect the driver-specific violation through the dialect
// and translate it here, so callers never see raw storage errors.
var ErrDuplicate = errors.New("duplicate row")
