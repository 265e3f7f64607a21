// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

// Package bundle persists the discovered proxy chain and builds the
// golden trust bundle: the platform's baseline trusted-CA bundle with the
// validated chain appended. The golden bundle is a derived artifact; it
// is rebuilt from scratch on every run, never merged with a previous
// copy, so repeat invocations are byte-for-byte reproducible.
package bundle

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/jeremyhahn/go-trustwire/pkg/atomicfile"
	"github.com/jeremyhahn/go-trustwire/pkg/probe"
)

const (
	// DefaultCertDirName is the certificate directory under the user's
	// home directory.
	DefaultCertDirName = "certs"

	// DefaultChainFileName holds the raw validated proxy chain.
	DefaultChainFileName = "proxy-chain.pem"

	// DefaultBundleFileName holds the golden bundle consumed by every
	// configured tool.
	DefaultBundleFileName = "trust-bundle.pem"

	certDirPerm  = 0o755
	certFilePerm = 0o644
)

// Artifacts names the files a successful build produced.
type Artifacts struct {
	// ChainPath is the raw validated chain, PEM concatenation in
	// leaf-to-root order.
	ChainPath string

	// BundlePath is the golden bundle: baseline bytes followed by chain
	// bytes, one PEM text file.
	BundlePath string
}

// BuilderConfig configures the bundle builder.
type BuilderConfig struct {
	// CertDir is the directory artifacts are written to.
	// Default: ~/certs.
	CertDir string

	// ChainFileName overrides the raw chain file name.
	ChainFileName string

	// BundleFileName overrides the golden bundle file name.
	BundleFileName string

	// Logger for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Builder writes the chain and golden bundle artifacts. Writes are
// atomic (temp file plus rename) and serialized with a file lock; the
// artifacts are shared, mutable, file-backed resources with no other
// transactional guarantee.
type Builder struct {
	certDir    string
	chainFile  string
	bundleFile string
	lock       *flock.Flock
	logger     *slog.Logger
}

// NewBuilder creates a builder for the given certificate directory.
func NewBuilder(cfg *BuilderConfig) (*Builder, error) {
	if cfg == nil {
		cfg = &BuilderConfig{}
	}

	certDir := cfg.CertDir
	if certDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: resolve home directory: %w", ErrInvalidConfig, err)
		}
		certDir = filepath.Join(home, DefaultCertDirName)
	}

	chainFile := cfg.ChainFileName
	if chainFile == "" {
		chainFile = DefaultChainFileName
	}

	bundleFile := cfg.BundleFileName
	if bundleFile == "" {
		bundleFile = DefaultBundleFileName
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Builder{
		certDir:    certDir,
		chainFile:  chainFile,
		bundleFile: bundleFile,
		lock:       flock.New(filepath.Join(certDir, ".trustwire.lock")),
		logger:     logger.With("component", "bundle_builder"),
	}, nil
}

// ChainPath returns the path the raw chain is written to.
func (b *Builder) ChainPath() string {
	return filepath.Join(b.certDir, b.chainFile)
}

// BundlePath returns the path the golden bundle is written to.
func (b *Builder) BundlePath() string {
	return filepath.Join(b.certDir, b.bundleFile)
}

// BundleExists reports whether a golden bundle is already present. The
// bundle is a cache: when present, callers may reuse it and skip
// re-discovery unless the operator forces a rebuild.
func (b *Builder) BundleExists() bool {
	info, err := os.Stat(b.BundlePath())
	return err == nil && info.Mode().IsRegular()
}

// Build writes the raw chain and the golden bundle. The bundle bytes are
// exactly the baseline bundle bytes followed by the chain bytes. Any
// pre-existing artifacts at the same paths are overwritten.
func (b *Builder) Build(baselinePath string, chain probe.Chain) (*Artifacts, error) {
	if chain.Len() == 0 {
		return nil, fmt.Errorf("%w: refusing to build from an empty chain", ErrInvalidConfig)
	}

	baseline, err := os.ReadFile(baselinePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingBaseline, baselinePath)
		}
		return nil, fmt.Errorf("%w: read baseline bundle: %w", ErrPersistence, err)
	}

	if err := os.MkdirAll(b.certDir, certDirPerm); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrPersistence, b.certDir, err)
	}

	if err := b.lock.Lock(); err != nil {
		return nil, fmt.Errorf("%w: lock %s: %w", ErrPersistence, b.certDir, err)
	}
	defer func() { _ = b.lock.Unlock() }()

	chainPEM := chain.PEM()
	if err := atomicfile.WriteFile(b.ChainPath(), chainPEM, certFilePerm); err != nil {
		return nil, fmt.Errorf("%w: write chain: %w", ErrPersistence, err)
	}

	golden := append(append([]byte{}, baseline...), chainPEM...)
	if err := atomicfile.WriteFile(b.BundlePath(), golden, certFilePerm); err != nil {
		return nil, fmt.Errorf("%w: write golden bundle: %w", ErrPersistence, err)
	}

	b.logger.Info("trust bundle written",
		"chain", b.ChainPath(),
		"bundle", b.BundlePath(),
		"baseline_bytes", len(baseline),
		"chain_certs", chain.Len())

	return &Artifacts{
		ChainPath:  b.ChainPath(),
		BundlePath: b.BundlePath(),
	}, nil
}
