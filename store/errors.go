package store

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors for package store.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// ErrNotFound is returned when a link, directory marker or project file
	// is absent. It also matches fs.ErrNotExist.
	ErrNotFound = fmt.Errorf("not found: %w", fs.ErrNotExist)

	// ErrDecode is returned when a project file does not match its schema.
	ErrDecode = errors.New("cannot decode project file")

	// Identifier errors
	ErrInvalidID   = errors.New("invalid identifier")
	ErrUnknownMode = errors.New("unknown build mode")

	// File and directory errors
	ErrExpectedDirectory = errors.New("expected directory but got file")
	ErrInvalidPath       = errors.New("invalid path")
)
