// Package model holds the data types and error kinds shared by rtrash packages
package model

import "errors"

var (
	// Setup and environment errors
	ErrConfiguration          = errors.New("configuration error")
	ErrUnsupportedEnvironment = errors.New("unsupported operating system")

	// Filesystem errors
	ErrNotFound          = errors.New("not found")
	ErrIO                = errors.New("i/o error")
	ErrCrossDevice       = errors.New("source and trash are on different devices")
	ErrDestinationExists = errors.New("destination already exists")

	// Trash related errors
	ErrUnresolvableTrashLocation = errors.New("no trash location for path")
	ErrProtectedPath             = errors.New("path is protected")
	ErrInvalidPath               = errors.New("path is not valid UTF-8")

	// History related errors
	ErrCorruptHistory = errors.New("history file is corrupt")
)

// IsConfiguration reports whether err comes from setup rather than from
// executing a move.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrUnsupportedEnvironment)
}
