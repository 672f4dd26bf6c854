package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row or a targeted update
// affects none.
var ErrNotFound = errors.New("not found")
