package shopgate

import "errors"

var (
	// ErrNotFound is returned when no allowed root yields the requested file.
	ErrNotFound = errors.New("not found")
	// ErrDenied is returned for traversal and sensitive-file rejections.
	// Callers must report it with the same surface as ErrNotFound so that
	// security rejections do not leak existence information.
	ErrDenied = errors.New("denied")
	// ErrPermission is returned when a resolved file exists but cannot be read.
	ErrPermission = errors.New("permission denied")
	// ErrCorrupted is returned when a resolved file fails the read probe.
	ErrCorrupted = errors.New("corrupted")
	// ErrCompression is returned when gzip encoding of a response body fails.
	ErrCompression = errors.New("compression failed")
	// ErrInternal is returned when an unexpected internal error occurs.
	ErrInternal = errors.New("internal error")
)
