// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// knownBaselinePaths is the set of common system CA bundle locations,
// consulted after the runtime trust-package locator.
var knownBaselinePaths = []string{
	"/etc/ssl/certs/ca-certificates.crt", // Debian/Ubuntu
	"/etc/pki/tls/certs/ca-bundle.crt",   // RHEL/CentOS
	"/etc/ssl/cert.pem",                  // Alpine/macOS
}

// LocatorConfig configures baseline bundle resolution.
type LocatorConfig struct {
	// ExplicitPath short-circuits all discovery when set.
	ExplicitPath string

	// SearchPaths overrides the well-known system bundle locations.
	SearchPaths []string

	// DisableCertifi skips invoking the Python certifi locator.
	DisableCertifi bool

	// Logger for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Locator resolves the baseline trusted-CA bundle path. Resolution order:
// explicit path, the SSL_CERT_FILE environment variable, the active
// Python runtime's certifi package, then well-known system locations.
// The baseline is read-only input owned by the platform; trustwire never
// writes to it.
type Locator struct {
	explicitPath   string
	searchPaths    []string
	disableCertifi bool
	logger         *slog.Logger

	// runCertifi is overridden in tests.
	runCertifi func(ctx context.Context) (string, error)
}

// NewLocator creates a locator from the given config.
func NewLocator(cfg *LocatorConfig) *Locator {
	if cfg == nil {
		cfg = &LocatorConfig{}
	}

	searchPaths := cfg.SearchPaths
	if searchPaths == nil {
		searchPaths = knownBaselinePaths
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Locator{
		explicitPath:   cfg.ExplicitPath,
		searchPaths:    searchPaths,
		disableCertifi: cfg.DisableCertifi,
		logger:         logger.With("component", "baseline_locator"),
		runCertifi:     runCertifiLocator,
	}
}

// Locate resolves the baseline bundle path, or ErrMissingBaseline when
// no candidate exists on disk.
func (l *Locator) Locate(ctx context.Context) (string, error) {
	if l.explicitPath != "" {
		if !regularFileExists(l.explicitPath) {
			return "", fmt.Errorf("%w: %s", ErrMissingBaseline, l.explicitPath)
		}
		return l.explicitPath, nil
	}

	if p := os.Getenv("SSL_CERT_FILE"); p != "" && regularFileExists(p) {
		l.logger.Debug("baseline from SSL_CERT_FILE", "path", p)
		return p, nil
	}

	if !l.disableCertifi {
		if p, err := l.runCertifi(ctx); err == nil && regularFileExists(p) {
			l.logger.Debug("baseline from certifi", "path", p)
			return p, nil
		}
	}

	for _, p := range l.searchPaths {
		if regularFileExists(p) {
			l.logger.Debug("baseline from system path", "path", p)
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: install the certifi package or set SSL_CERT_FILE", ErrMissingBaseline)
}

// runCertifiLocator asks the active Python runtime's certifi package for
// its bundled CA file path.
func runCertifiLocator(ctx context.Context) (string, error) {
	for _, python := range []string{"python3", "python"} {
		out, err := exec.CommandContext(ctx, python, "-m", "certifi").Output()
		if err != nil {
			continue
		}
		if p := strings.TrimSpace(string(out)); p != "" {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: certifi locator unavailable", ErrMissingBaseline)
}

func regularFileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
