// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

//go:build windows

package wire

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// UserEnvStore persists user-level environment variables in the
// HKCU\Environment registry key, the Windows equivalent of exporting
// from the shell profile.
//
// TODO: broadcast WM_SETTINGCHANGE after writes so already-running
// shells pick up the new values without a relogin.
type UserEnvStore struct{}

// NewUserEnvStore creates the registry-backed user environment store.
func NewUserEnvStore() (*UserEnvStore, error) {
	return &UserEnvStore{}, nil
}

func openEnvKey(access uint32) (registry.Key, error) {
	return registry.OpenKey(registry.CURRENT_USER, "Environment", access)
}

// Get returns the persisted value for name.
func (UserEnvStore) Get(name string) (string, bool) {
	k, err := openEnvKey(registry.QUERY_VALUE)
	if err != nil {
		return "", false
	}
	defer k.Close()

	v, _, err := k.GetStringValue(name)
	if err != nil {
		return "", false
	}
	return v, true
}

// Set persists value under name.
func (UserEnvStore) Set(name, value string) error {
	k, err := openEnvKey(registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open HKCU\\Environment: %w", err)
	}
	defer k.Close()

	if err := k.SetStringValue(name, value); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

// Remove deletes name from the persisted environment.
func (UserEnvStore) Remove(name string) error {
	k, err := openEnvKey(registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open HKCU\\Environment: %w", err)
	}
	defer k.Close()

	if err := k.DeleteValue(name); err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
