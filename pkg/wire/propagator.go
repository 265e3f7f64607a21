// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package wire

import (
	"context"
	"fmt"
	"log/slog"
)

// PropagatorConfig configures a propagation pass.
type PropagatorConfig struct {
	// Profile is the platform profile resolved at startup. Required.
	Profile PlatformProfile

	// EnvFilePath redirects the environment block to a standalone
	// sourceable file; the profile then only receives a source line.
	// Empty writes the block into the profile itself.
	EnvFilePath string

	// ProcessEnv receives the targets for the current process. If nil,
	// ProcessEnvStore is used.
	ProcessEnv EnvStore

	// UserEnv optionally receives the targets in a persistent user-level
	// store. If nil and the profile shell is PowerShell, the registry
	// store is used when available.
	UserEnv EnvStore

	// Tools are the external CLI configurators. If nil, DefaultTools
	// with the exec runner is used.
	Tools []ToolConfigurator

	// Logger for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Propagator fans the golden bundle path out to every consumer.
type Propagator struct {
	profile     PlatformProfile
	envFilePath string
	processEnv  EnvStore
	userEnv     EnvStore
	tools       []ToolConfigurator
	logger      *slog.Logger
}

// Report summarizes one propagation pass.
type Report struct {
	// Applied names the targets configured successfully, in order.
	Applied []string

	// Failures contains the isolated per-target errors.
	Failures []TargetError
}

// Err returns nil when every target applied, or a PropagationError
// carrying the failures.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return &PropagationError{Failures: r.Failures}
}

// NewPropagator creates a propagator from the given config.
func NewPropagator(cfg *PropagatorConfig) (*Propagator, error) {
	if cfg == nil || cfg.Profile.ProfilePath == "" {
		return nil, fmt.Errorf("%w: platform profile required", ErrInvalidConfig)
	}

	processEnv := cfg.ProcessEnv
	if processEnv == nil {
		processEnv = ProcessEnvStore{}
	}

	userEnv := cfg.UserEnv
	if userEnv == nil && cfg.Profile.Shell == ShellPowerShell {
		if s, err := NewUserEnvStore(); err == nil {
			userEnv = s
		}
	}

	tools := cfg.Tools
	if tools == nil {
		tools = DefaultTools(nil)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Propagator{
		profile:     cfg.Profile,
		envFilePath: cfg.EnvFilePath,
		processEnv:  processEnv,
		userEnv:     userEnv,
		tools:       tools,
		logger:      logger.With("component", "propagator"),
	}, nil
}

// Apply derives the target set from bundlePath and applies every target
// best-effort. All targets are attempted; the report carries both the
// successes and the isolated failures.
func (p *Propagator) Apply(ctx context.Context, bundlePath string) *Report {
	report := &Report{}
	targets := Targets(bundlePath)

	p.applyProcessEnv(report, targets)
	p.applyPersistent(report, targets)
	p.applyUserEnv(report, targets)
	p.applyTools(ctx, report, bundlePath)

	p.logger.Info("propagation complete",
		"applied", len(report.Applied), "failed", len(report.Failures))
	return report
}

func (p *Propagator) applyProcessEnv(report *Report, targets []Target) {
	for _, t := range targets {
		if err := p.processEnv.Set(t.Name, t.Value); err != nil {
			report.Failures = append(report.Failures, TargetError{
				Target: "env:" + t.Name,
				Err:    err,
			})
			continue
		}
		report.Applied = append(report.Applied, "env:"+t.Name)
	}
}

// applyPersistent writes the marked environment block. With an env file
// configured, the block goes there and the profile gets an idempotent
// source line; otherwise the block goes straight into the profile.
func (p *Propagator) applyPersistent(report *Report, targets []Target) {
	block := RenderBlock(p.profile.Shell, targets)

	if p.envFilePath != "" {
		envStore, err := NewFileStore(p.envFilePath)
		if err == nil {
			err = envStore.ApplyMarkedBlock(block)
		}
		if err != nil {
			report.Failures = append(report.Failures, TargetError{Target: "env-file", Err: err})
		} else {
			report.Applied = append(report.Applied, "env-file")
		}

		profileStore, err := NewFileStore(p.profile.ProfilePath)
		if err == nil {
			err = profileStore.EnsureLine(SourceLine(p.profile.Shell, p.envFilePath))
		}
		if err != nil {
			report.Failures = append(report.Failures, TargetError{Target: "profile-source", Err: err})
		} else {
			report.Applied = append(report.Applied, "profile-source")
		}
		return
	}

	profileStore, err := NewFileStore(p.profile.ProfilePath)
	if err == nil {
		err = profileStore.ApplyMarkedBlock(block)
	}
	if err != nil {
		report.Failures = append(report.Failures, TargetError{Target: "profile", Err: err})
		return
	}
	report.Applied = append(report.Applied, "profile")
}

func (p *Propagator) applyUserEnv(report *Report, targets []Target) {
	if p.userEnv == nil {
		return
	}
	for _, t := range targets {
		if err := p.userEnv.Set(t.Name, t.Value); err != nil {
			report.Failures = append(report.Failures, TargetError{
				Target: "user-env:" + t.Name,
				Err:    err,
			})
			continue
		}
		report.Applied = append(report.Applied, "user-env:"+t.Name)
	}
}

func (p *Propagator) applyTools(ctx context.Context, report *Report, bundlePath string) {
	for _, tool := range p.tools {
		if err := tool.Apply(ctx, bundlePath); err != nil {
			p.logger.Warn("tool configuration failed",
				"tool", tool.Name(), "error", err)
			report.Failures = append(report.Failures, TargetError{
				Target: "tool:" + tool.Name(),
				Err:    err,
			})
			continue
		}
		report.Applied = append(report.Applied, "tool:"+tool.Name())
	}
}
