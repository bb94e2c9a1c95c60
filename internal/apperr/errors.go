// Package apperr holds the sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	// ErrPersistence marks a store write or read that did not take effect.
	ErrPersistence = errors.New("persistence failure")
	ErrHostTooOld  = errors.New("host version too old")
)
