// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package wire

import (
	"context"
	"fmt"
	"os/exec"
)

// CommandRunner abstracts external command execution for dependency
// injection. The production runner shells out; tests substitute a
// recorder.
type CommandRunner interface {
	// LookPath reports where name resolves on PATH.
	LookPath(name string) (string, error)

	// Run executes name with args and waits for completion.
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner is the production CommandRunner backed by os/exec.
type ExecRunner struct{}

// LookPath resolves name on PATH.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes the command and returns its combined output in the error
// on failure, since tool diagnostics end up on the operator's screen.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return nil
}

// ToolConfigurator points one external CLI's trust setting at the golden
// bundle. Each configurator is applied in isolation; one tool failing
// must not prevent configuring the others.
type ToolConfigurator interface {
	// Name identifies the tool in reports.
	Name() string

	// Apply writes the tool's CA setting.
	Apply(ctx context.Context, bundlePath string) error
}

// DefaultTools returns the configurators for the fixed tool set: git,
// gcloud and pip. A nil runner selects ExecRunner.
func DefaultTools(runner CommandRunner) []ToolConfigurator {
	if runner == nil {
		runner = ExecRunner{}
	}
	return []ToolConfigurator{
		&gitTool{runner: runner},
		&gcloudTool{runner: runner},
		&pipTool{runner: runner},
	}
}

// gitTool sets git's global HTTPS CA bundle.
type gitTool struct {
	runner CommandRunner
}

func (t *gitTool) Name() string { return "git" }

func (t *gitTool) Apply(ctx context.Context, bundlePath string) error {
	if _, err := t.runner.LookPath("git"); err != nil {
		return fmt.Errorf("%w: git: %w", ErrToolUnavailable, err)
	}
	return t.runner.Run(ctx, "git", "config", "--global", "http.sslCAInfo", bundlePath)
}

// gcloudTool sets the Cloud SDK custom CA certs file.
type gcloudTool struct {
	runner CommandRunner
}

func (t *gcloudTool) Name() string { return "gcloud" }

func (t *gcloudTool) Apply(ctx context.Context, bundlePath string) error {
	if _, err := t.runner.LookPath("gcloud"); err != nil {
		return fmt.Errorf("%w: gcloud: %w", ErrToolUnavailable, err)
	}
	return t.runner.Run(ctx, "gcloud", "config", "set", "core/custom_ca_certs_file", bundlePath)
}

// pipTool sets pip's global cert setting.
type pipTool struct {
	runner CommandRunner
}

func (t *pipTool) Name() string { return "pip" }

func (t *pipTool) Apply(ctx context.Context, bundlePath string) error {
	pip := "pip3"
	if _, err := t.runner.LookPath(pip); err != nil {
		pip = "pip"
		if _, err := t.runner.LookPath(pip); err != nil {
			return fmt.Errorf("%w: pip: %w", ErrToolUnavailable, err)
		}
	}
	return t.runner.Run(ctx, pip, "config", "set", "global.cert", bundlePath)
}
