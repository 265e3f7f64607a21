// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

// Package trustwire composes the discovery, bundling and propagation
// stages into the one-shot pipeline the CLI runs: observe the chain the
// intercepting proxy presents, validate it, merge it with the baseline
// trusted-CA bundle into the golden bundle, and point every consumer at
// the result.
//
// The pipeline is deliberately sequential. Each stage either completes
// or fails the run; an interrupt leaves previously completed stages
// intact, and the whole run is safe to repeat.
package trustwire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jeremyhahn/go-trustwire/pkg/bundle"
	"github.com/jeremyhahn/go-trustwire/pkg/probe"
	"github.com/jeremyhahn/go-trustwire/pkg/wire"
)

// ErrInvalidConfig indicates the pipeline configuration is missing
// required stages.
var ErrInvalidConfig = errors.New("trustwire: invalid configuration")

// PipelineConfig wires the pipeline stages together.
type PipelineConfig struct {
	// Locator resolves the baseline trusted-CA bundle. If nil, a locator
	// with default settings is used.
	Locator *bundle.Locator

	// Discoverer drives the retry-bounded chain discovery. Required.
	Discoverer *probe.Discoverer

	// Builder persists the chain and golden bundle. If nil, a builder
	// with default settings is used.
	Builder *bundle.Builder

	// Propagator fans the bundle path out to consumers. Required.
	Propagator *wire.Propagator

	// Force rebuilds the golden bundle even when one already exists.
	// Without it an existing bundle is treated as a cache and discovery
	// is skipped.
	Force bool

	// Logger for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Result summarizes a completed pipeline run.
type Result struct {
	// BaselinePath is the resolved baseline bundle.
	BaselinePath string

	// Artifacts names the chain and golden bundle files.
	Artifacts *bundle.Artifacts

	// Reused reports that an existing golden bundle was reused and
	// discovery was skipped.
	Reused bool

	// Report is the propagation outcome; its failures are best-effort
	// and do not fail the run.
	Report *wire.Report
}

// Pipeline is the discovery-to-propagation run.
type Pipeline struct {
	locator    *bundle.Locator
	discoverer *probe.Discoverer
	builder    *bundle.Builder
	propagator *wire.Propagator
	force      bool
	logger     *slog.Logger
}

// NewPipeline creates a pipeline from the given config.
func NewPipeline(cfg *PipelineConfig) (*Pipeline, error) {
	if cfg == nil || cfg.Discoverer == nil {
		return nil, fmt.Errorf("%w: discoverer required", ErrInvalidConfig)
	}
	if cfg.Propagator == nil {
		return nil, fmt.Errorf("%w: propagator required", ErrInvalidConfig)
	}

	locator := cfg.Locator
	if locator == nil {
		locator = bundle.NewLocator(nil)
	}

	builder := cfg.Builder
	if builder == nil {
		b, err := bundle.NewBuilder(nil)
		if err != nil {
			return nil, err
		}
		builder = b
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		locator:    locator,
		discoverer: cfg.Discoverer,
		builder:    builder,
		propagator: cfg.Propagator,
		force:      cfg.Force,
		logger:     logger.With("component", "pipeline"),
	}, nil
}

// Run executes the pipeline. The baseline precondition is checked before
// any network I/O so a machine without the trust package fails fast with
// nothing written. Discovery and persistence failures are fatal;
// propagation failures are isolated per target and carried in the
// result's report.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	baselinePath, err := p.locator.Locate(ctx)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("baseline resolved", "path", baselinePath)

	result := &Result{BaselinePath: baselinePath}

	if p.builder.BundleExists() && !p.force {
		p.logger.Info("reusing existing golden bundle", "path", p.builder.BundlePath())
		result.Reused = true
		result.Artifacts = &bundle.Artifacts{
			ChainPath:  p.builder.ChainPath(),
			BundlePath: p.builder.BundlePath(),
		}
	} else {
		chain, err := p.discoverer.Discover(ctx)
		if err != nil {
			return nil, err
		}

		artifacts, err := p.builder.Build(baselinePath, chain)
		if err != nil {
			return nil, err
		}
		result.Artifacts = artifacts
	}

	result.Report = p.propagator.Apply(ctx, result.Artifacts.BundlePath)
	return result, nil
}
