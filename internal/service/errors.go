package service

import "errors"

// The whole error surface of the core. Authentication failures collapse into
// the single ErrUnauthorized so callers cannot tell which check failed.
var (
	ErrValidation   = errors.New("validation")   // 400
	ErrUnauthorized = errors.New("unauthorized") // 401
	ErrNotFound     = errors.New("not found")    // 404
	ErrConflict     = errors.New("conflict")     // 409
)
