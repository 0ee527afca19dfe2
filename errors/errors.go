// Package errors provides error handling for shaderport.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for operator-facing messages
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
//	// Check errors
//	if errors.Is(err, errors.ErrToolUnavailable) {
//	    // toolchain misconfiguration, not user shader code
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
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is     = crdb.Is
	IsAny  = crdb.IsAny
	As     = crdb.As
	Unwrap = crdb.Unwrap
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the compilation pipeline.
//
// These distinguish operational failures (environment misconfiguration)
// from compilation failures, which are never Go errors: a shader that
// fails to compile is a pipeline.Result with Outcome Failure.
var (
	// ErrToolUnavailable indicates the configured compiler executable
	// could not be launched at all (missing binary, bad path).
	ErrToolUnavailable = New("toolchain unavailable")

	// ErrWorkspace indicates the per-request scratch directory could not
	// be created or written.
	ErrWorkspace = New("workspace error")

	// ErrTimeout indicates an operation exceeded its bound.
	ErrTimeout = New("operation timed out")

	// ErrUnsupportedTarget indicates a target format outside the
	// supported set.
	ErrUnsupportedTarget = New("unsupported target format")

	// ErrInvalidRequest indicates the request was malformed or invalid.
	ErrInvalidRequest = New("invalid request")
)

// IsOperational reports whether err is an environment failure that should
// surface to the transport layer as a 5xx, as opposed to anything
// attributable to user shader code.
func IsOperational(err error) bool {
	return err != nil && IsAny(err, ErrToolUnavailable, ErrWorkspace)
}

// IsToolUnavailable checks if an error is or wraps ErrToolUnavailable.
func IsToolUnavailable(err error) bool {
	return err != nil && Is(err, ErrToolUnavailable)
}

// IsWorkspaceError checks if an error is or wraps ErrWorkspace.
func IsWorkspaceError(err error) bool {
	return err != nil && Is(err, ErrWorkspace)
}
