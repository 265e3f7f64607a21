// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-trustwire/pkg/trustwire"
	"github.com/jeremyhahn/go-trustwire/pkg/wire"
)

var (
	forceRebuild bool
	envFilePath  string
	profilePath  string
	shellName    string
)

// registerSetupFlags adds the setup-phase flags. They live on both the
// root command and the setup subcommand so `trustwire --force` and
// `trustwire setup --force` behave identically.
func registerSetupFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&forceRebuild, "force", "f", false, "rebuild the golden bundle even when one exists")
	cmd.Flags().StringVar(&envFilePath, "env-file", "", "write the environment block to this sourceable file instead of the profile")
	cmd.Flags().StringVar(&profilePath, "profile", "", "shell profile file receiving the managed block (default: detected)")
	cmd.Flags().StringVar(&shellName, "shell", "", "shell family for generated syntax (posix|fish|powershell, default: detected)")
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run the full discovery, bundling and propagation pipeline",
	Long: `Setup performs the complete bootstrap: resolve the baseline CA
bundle, observe and validate the intercepting proxy's certificate
chain, write the golden bundle, and propagate it to the environment,
shell profile and external tools.

An existing golden bundle is reused without touching the network;
pass --force to rediscover and rebuild.`,
	RunE: runSetup,
}

func init() {
	registerSetupFlags(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	profile, err := resolveProfile()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	discoverer, err := newDiscoverer(settings)
	if err != nil {
		return err
	}

	builder, err := newBuilder(settings)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	propagator, err := wire.NewPropagator(&wire.PropagatorConfig{
		Profile:     profile,
		EnvFilePath: envFilePath,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	pipeline, err := trustwire.NewPipeline(&trustwire.PipelineConfig{
		Locator:    newLocator(settings),
		Discoverer: discoverer,
		Builder:    builder,
		Propagator: propagator,
		Force:      forceRebuild,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	result, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSetupFailed, err)
	}

	if result.Reused {
		slog.Info("existing golden bundle reused, pass --force to rebuild",
			"bundle", result.Artifacts.BundlePath)
	}

	// Propagation is best-effort; individual target failures are
	// reported but do not fail the run.
	if err := result.Report.Err(); err != nil {
		slog.Warn("some targets were not configured", "error", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Trust bundle ready: %s\n", result.Artifacts.BundlePath)
	fmt.Fprintf(cmd.OutOrStdout(), "Restart your shell or source your profile to pick up the environment.\n")
	return nil
}

// resolveProfile applies the --shell and --profile overrides on top of
// platform detection.
func resolveProfile() (wire.PlatformProfile, error) {
	profile, err := wire.DetectProfile(profilePath)
	if err != nil {
		return wire.PlatformProfile{}, err
	}

	if shellName != "" {
		switch wire.Shell(shellName) {
		case wire.ShellPosix, wire.ShellFish, wire.ShellPowerShell:
			profile.Shell = wire.Shell(shellName)
		default:
			return wire.PlatformProfile{}, fmt.Errorf("unknown shell %q", shellName)
		}
	}
	return profile, nil
}
