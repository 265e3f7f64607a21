// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package wire

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConfig indicates the propagator configuration is invalid.
	ErrInvalidConfig = errors.New("wire: invalid configuration")

	// ErrProfileNotFound indicates no shell profile file could be
	// resolved for the current platform.
	ErrProfileNotFound = errors.New("wire: shell profile not found")

	// ErrToolUnavailable indicates an external CLI is not installed or
	// not on PATH.
	ErrToolUnavailable = errors.New("wire: tool unavailable")

	// ErrPropagationFailed indicates one or more targets could not be
	// configured. Individual failures are carried by PropagationError.
	ErrPropagationFailed = errors.New("wire: propagation failed")
)

// TargetError records a single failed propagation target.
type TargetError struct {
	// Target names the failed target (env var, file, or tool).
	Target string

	// Err is the underlying error.
	Err error
}

// Error returns a formatted message including the target name.
func (e *TargetError) Error() string {
	return fmt.Sprintf("target %s: %v", e.Target, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *TargetError) Unwrap() error {
	return e.Err
}

// PropagationError collects the isolated per-target failures of one
// propagation pass. Propagation is best-effort: all targets are
// attempted before this error surfaces.
type PropagationError struct {
	// Failures contains one record per failed target.
	Failures []TargetError
}

// Error returns a formatted message listing every failed target.
func (e *PropagationError) Error() string {
	var b strings.Builder
	b.WriteString("wire: propagation failed: [")
	for i, f := range e.Failures {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Error())
	}
	b.WriteString("]")
	return b.String()
}

// Unwrap returns ErrPropagationFailed for use with errors.Is.
func (e *PropagationError) Unwrap() error {
	return ErrPropagationFailed
}
