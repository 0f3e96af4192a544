package store

import "errors"

// ErrNotFound is returned when a requested entity does not exist, or exists
// but is gated from the caller (an unpublished post fetched anonymously).
var ErrNotFound = errors.New("not found")
