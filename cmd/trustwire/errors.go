// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import "errors"

// Exit codes for the CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitFailure indicates discovery, persistence or propagation failed.
	ExitFailure = 1

	// ExitConfigError indicates a configuration or input validation error.
	ExitConfigError = 2
)

// Sentinel errors for CLI operations.
var (
	// ErrInvalidInput is returned when required input parameters are
	// missing or invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSetupFailed is returned when the discovery or persistence phase
	// of the pipeline fails.
	ErrSetupFailed = errors.New("setup failed")

	// ErrFileOperation is returned when a file read or write operation
	// fails.
	ErrFileOperation = errors.New("file operation failed")
)
