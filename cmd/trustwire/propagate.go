// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-trustwire/pkg/wire"
)

var propagateBundle string

var propagateCmd = &cobra.Command{
	Use:   "propagate",
	Short: "Re-apply configuration from an existing golden bundle",
	Long: `Propagate points the environment, shell profile and external tools at
an existing golden bundle without running discovery. Use it after the
bundle file moved or the profile was replaced. The pass is idempotent;
repeating it changes nothing.`,
	RunE: runPropagate,
}

func init() {
	propagateCmd.Flags().StringVar(&propagateBundle, "bundle", "", "golden bundle path (default: <cert-dir>/trust-bundle.pem)")
	propagateCmd.Flags().StringVar(&envFilePath, "env-file", "", "write the environment block to this sourceable file instead of the profile")
	propagateCmd.Flags().StringVar(&profilePath, "profile", "", "shell profile file receiving the managed block (default: detected)")
	propagateCmd.Flags().StringVar(&shellName, "shell", "", "shell family for generated syntax (posix|fish|powershell, default: detected)")
}

func runPropagate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	bundlePath := propagateBundle
	if bundlePath == "" {
		builder, err := newBuilder(settings)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		bundlePath = builder.BundlePath()
	}
	if _, err := os.Stat(bundlePath); err != nil {
		return fmt.Errorf("%w: no golden bundle at %s, run setup first", ErrInvalidInput, bundlePath)
	}

	profile, err := resolveProfile()
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

	report := propagator.Apply(ctx, bundlePath)
	for _, applied := range report.Applied {
		fmt.Fprintf(cmd.OutOrStdout(), "configured %s\n", applied)
	}
	if err := report.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrSetupFailed, err)
	}
	return nil
}
