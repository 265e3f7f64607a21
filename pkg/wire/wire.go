// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

// Package wire propagates the golden bundle path into every consumer:
// the current process environment, a marked block in the shell profile
// (or a standalone sourceable env file), the persistent user environment
// on Windows, and the configuration keys of external CLIs (git, gcloud,
// pip).
//
// Every target value is derived from the bundle path, never computed
// independently. Targets are applied best-effort: a failure configuring
// one tool is isolated and reported without aborting the others, and
// re-running never duplicates previously written blocks.
package wire

import "path/filepath"

// Target is a single environment setting that must reference the golden
// bundle.
type Target struct {
	// Name is the environment variable name.
	Name string

	// Value is the bundle path, or its containing directory for the
	// *_DIR variables.
	Value string
}

// Targets returns the fixed enumerated set of environment targets for
// the given golden bundle path, in stable order.
func Targets(bundlePath string) []Target {
	dir := filepath.Dir(bundlePath)
	return []Target{
		{Name: "SSL_CERT_FILE", Value: bundlePath},
		{Name: "SSL_CERT_DIR", Value: dir},
		{Name: "CERT_PATH", Value: bundlePath},
		{Name: "CERT_DIR", Value: dir},
		{Name: "REQUESTS_CA_BUNDLE", Value: bundlePath},
		{Name: "CURL_CA_BUNDLE", Value: bundlePath},
		{Name: "NODE_EXTRA_CA_CERTS", Value: bundlePath},
		{Name: "GRPC_DEFAULT_SSL_ROOTS_FILE_PATH", Value: bundlePath},
		{Name: "GIT_SSL_CAINFO", Value: bundlePath},
		{Name: "CLOUDSDK_CORE_CUSTOM_CA_CERTS_FILE", Value: bundlePath},
	}
}

// EnvStore is a mutable environment key-value store. Implementations
// cover the current process environment and, on Windows, the persistent
// user-level environment. Components receive a store explicitly rather
// than mutating ambient process state as a side channel.
type EnvStore interface {
	// Get returns the value for name and whether it is set.
	Get(name string) (string, bool)

	// Set assigns value to name.
	Set(name, value string) error

	// Remove unsets name.
	Remove(name string) error
}
