// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package bundle

import "errors"

var (
	// ErrInvalidConfig indicates the builder or locator configuration is
	// invalid.
	ErrInvalidConfig = errors.New("bundle: invalid configuration")

	// ErrMissingBaseline indicates no baseline trusted-CA bundle could be
	// located. The baseline is a fatal precondition; without it there is
	// nothing to merge the discovered chain into.
	ErrMissingBaseline = errors.New("bundle: baseline CA bundle not found")

	// ErrPersistence indicates a filesystem write or lock failure while
	// persisting artifacts.
	ErrPersistence = errors.New("bundle: persistence failed")
)
