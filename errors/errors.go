// Package errors provides error handling for biograf.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check error kinds
//	if errors.IsNotFoundError(err) {
//	    // handle not found
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	Mark         = crdb.Mark
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
)

// Error inspection
var (
	Is         = crdb.Is
	IsAny      = crdb.IsAny
	As         = crdb.As
	Unwrap     = crdb.Unwrap
	UnwrapOnce = crdb.UnwrapOnce
	UnwrapAll  = crdb.UnwrapAll
	Join       = crdb.Join
)

// Assertions and panics
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the record store taxonomy.
// Use these with errors.Is() for type-safe error checking.
// Wrap causes with errors.Mark() to attach a kind while preserving the chain.
var (
	// ErrNotFound indicates the operation target does not exist
	ErrNotFound = New("person not found")

	// ErrDuplicate indicates a strict-mode create collided with an
	// existing record above the dedup threshold
	ErrDuplicate = New("duplicate person exists")

	// ErrIDExhausted indicates identifier generation ran out of collision
	// retries; the namespace is too small or the generator is defective
	ErrIDExhausted = New("identifier space exhausted")

	// ErrCorruptDocument indicates a persisted document could not be parsed
	ErrCorruptDocument = New("corrupt document")

	// ErrNoBackup indicates a restore found no backup for the record
	ErrNoBackup = New("no backup found")

	// ErrIO indicates an underlying filesystem failure
	ErrIO = New("i/o failure")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsDuplicateError checks if an error is or wraps ErrDuplicate.
func IsDuplicateError(err error) bool {
	return err != nil && Is(err, ErrDuplicate)
}

// IsIDExhaustedError checks if an error is or wraps ErrIDExhausted.
func IsIDExhaustedError(err error) bool {
	return err != nil && Is(err, ErrIDExhausted)
}

// IsCorruptDocumentError checks if an error is or wraps ErrCorruptDocument.
func IsCorruptDocumentError(err error) bool {
	return err != nil && Is(err, ErrCorruptDocument)
}

// IsNoBackupError checks if an error is or wraps ErrNoBackup.
func IsNoBackupError(err error) bool {
	return err != nil && Is(err, ErrNoBackup)
}

// IsIOError checks if an error is or wraps ErrIO.
func IsIOError(err error) bool {
	return err != nil && Is(err, ErrIO)
}

// WrapIO marks an underlying filesystem error as an i/o failure and adds
// context, preserving the original chain for errors.As.
func WrapIO(err error, context string) error {
	return Wrap(Mark(err, ErrIO), context)
}

// WrapCorrupt marks a parse error as a corrupt document and adds context.
func WrapCorrupt(err error, context string) error {
	return Wrap(Mark(err, ErrCorruptDocument), context)
}

// NewNotFoundf creates a not-found error with a formatted message.
func NewNotFoundf(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewDuplicatef creates a duplicate-exists error with a formatted message.
func NewDuplicatef(format string, args ...interface{}) error {
	return Wrap(ErrDuplicate, Newf(format, args...).Error())
}
