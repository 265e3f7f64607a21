// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

//go:build !windows

package wire

import "fmt"

// UserEnvStore has no POSIX counterpart; persistence happens through the
// shell profile's managed block instead.
type UserEnvStore struct{}

// NewUserEnvStore reports that no persistent user environment store
// exists on this platform.
func NewUserEnvStore() (*UserEnvStore, error) {
	return nil, fmt.Errorf("%w: persistent user environment store requires Windows", ErrInvalidConfig)
}

// Get is never reachable on this platform.
func (*UserEnvStore) Get(name string) (string, bool) { return "", false }

// Set is never reachable on this platform.
func (*UserEnvStore) Set(name, value string) error {
	return fmt.Errorf("%w: persistent user environment store requires Windows", ErrInvalidConfig)
}

// Remove is never reachable on this platform.
func (*UserEnvStore) Remove(name string) error {
	return fmt.Errorf("%w: persistent user environment store requires Windows", ErrInvalidConfig)
}
