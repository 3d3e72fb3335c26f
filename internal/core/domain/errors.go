package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDataRootNotFound indicates the import data root does not exist.
	ErrDataRootNotFound = errors.New("data root not found")

	// ErrUnknownKind indicates an unrecognised entity kind.
	ErrUnknownKind = errors.New("unknown entity kind")

	// ErrUnknownScope indicates an import scope that names no known book.
	ErrUnknownScope = errors.New("unknown import scope")

	// ErrImportInProgress indicates an import is already running.
	ErrImportInProgress = errors.New("import in progress")
)
