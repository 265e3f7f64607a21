// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	quiet      bool
	debug      bool
	logFormat  string
	configFile string
)

// logLevel controls the global slog level at runtime.
var logLevel = new(slog.LevelVar)

// exitFunc is the function called to exit the program.
// This can be overridden in tests to capture exit calls.
var exitFunc = os.Exit

var rootCmd = &cobra.Command{
	Use:   "trustwire",
	Short: "Corporate proxy trust bundle setup",
	Long: `trustwire configures a developer machine behind a TLS-intercepting
corporate proxy. It discovers the certificate chain the proxy presents,
validates the issuer identity, merges the chain with the baseline
trusted-CA bundle into a single golden bundle, and points the
environment and external tools (git, gcloud, pip) at it.

Running with no arguments performs the full setup. Use subcommands for
individual phases:
  discover   - chain discovery only, prints the validated PEM chain
  propagate  - re-apply configuration from an existing bundle
  status     - inspect the persisted artifacts
  doctor     - network preflight checks`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
	RunE: runSetup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output (errors only)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log output format (text|json)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ~/.config/trustwire/trustwire.yaml)")

	rootCmd.PersistentFlags().String("probe-host", "", "host:port used to observe the network path")
	rootCmd.PersistentFlags().String("issuer", "", "issuer substring expected of the intercepting chain")
	rootCmd.PersistentFlags().Int("attempts", 0, "maximum discovery attempts")
	rootCmd.PersistentFlags().Duration("backoff", 0, "fixed interval between discovery attempts")
	rootCmd.PersistentFlags().String("cert-dir", "", "directory the bundle artifacts are written to")
	rootCmd.PersistentFlags().String("baseline", "", "explicit baseline CA bundle path")

	registerSetupFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(propagateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(doctorCmd)
}

// initLogging configures the global slog logger based on CLI flags.
//
//	--debug: LevelDebug with source location
//	default: LevelInfo
//	--quiet: LevelError (only errors shown)
//
// --debug takes precedence over --quiet.
// --log-format selects the handler: "text" (default) or "json".
func initLogging() {
	switch {
	case debug:
		logLevel.Set(slog.LevelDebug)
	case quiet:
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: debug,
	}

	handlers := map[string]func(io.Writer, *slog.HandlerOptions) slog.Handler{
		"text": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewTextHandler(w, o) },
		"json": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewJSONHandler(w, o) },
	}

	factory, ok := handlers[logFormat]
	if !ok {
		factory = handlers["text"]
	}

	handler := factory(os.Stderr, opts)
	slog.SetDefault(slog.New(handler))
}
