package app

import "errors"

// Sentinel errors mapped to HTTP statuses at the transport layer.
var (
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrAlreadyFavorited = errors.New("video already in favorites")
	ErrNotFavorited     = errors.New("video not in favorites")
	ErrProfileLimit     = errors.New("profile limit reached")
)
