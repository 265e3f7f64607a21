// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var discoverOutput string

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover and validate the intercepting proxy's certificate chain",
	Long: `Discover performs the handshake, extraction and validation phases
without writing any bundle artifacts or touching the environment. The
validated chain is printed to stdout as concatenated PEM, or written to
a file with --output.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVarP(&discoverOutput, "output", "o", "", "write the chain PEM to this file instead of stdout")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	discoverer, err := newDiscoverer(settings)
	if err != nil {
		return err
	}

	chain, err := discoverer.Discover(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSetupFailed, err)
	}

	if discoverOutput != "" {
		if err := os.WriteFile(discoverOutput, chain.PEM(), 0o644); err != nil {
			return fmt.Errorf("%w: write %s: %w", ErrFileOperation, discoverOutput, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Validated chain (%d certificates) written to %s\n",
			chain.Len(), discoverOutput)
		return nil
	}

	_, err = cmd.OutOrStdout().Write(chain.PEM())
	return err
}
