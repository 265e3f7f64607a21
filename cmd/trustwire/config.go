// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-trustwire/pkg/bundle"
	"github.com/jeremyhahn/go-trustwire/pkg/probe"
)

// Settings are the layered runtime settings: built-in defaults, then the
// optional config file, then TRUSTWIRE_* environment variables, then
// flags. Retry count, backoff and the issuer identity are deliberately
// configuration, not constants; deployments disagree on all three.
type Settings struct {
	// ProbeHost is the host:port observed during discovery.
	ProbeHost string

	// Issuer is the substring expected in the intercepting chain's
	// issuer DN.
	Issuer string

	// IssuerAnyElement widens the issuer check from the leaf to every
	// chain element.
	IssuerAnyElement bool

	// Attempts bounds the discovery retry loop.
	Attempts int

	// Backoff is the fixed interval between attempts.
	Backoff time.Duration

	// ConnectTimeout bounds each handshake.
	ConnectTimeout time.Duration

	// CertDir is the artifact directory. Empty selects ~/certs.
	CertDir string

	// Baseline is an explicit baseline bundle path. Empty selects
	// automatic resolution.
	Baseline string
}

// loadSettings builds the layered settings for the executing command.
func loadSettings(cmd *cobra.Command) (*Settings, error) {
	v := viper.New()
	v.SetDefault("probe_host", probe.DefaultProbeAddr)
	v.SetDefault("issuer", probe.DefaultIssuerSubstring)
	v.SetDefault("issuer_any_element", false)
	v.SetDefault("attempts", probe.DefaultMaxAttempts)
	v.SetDefault("backoff", probe.DefaultBackoff)
	v.SetDefault("connect_timeout", probe.DefaultConnectTimeout)
	v.SetDefault("cert_dir", "")
	v.SetDefault("baseline", "")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "trustwire"))
		}
		v.SetConfigName("trustwire")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("TRUSTWIRE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// No config file is the common case.
		case configFile != "":
			return nil, fmt.Errorf("%w: read config %s: %w", ErrInvalidInput, configFile, err)
		default:
			slog.Warn("ignoring unreadable config file", "error", err)
		}
	}

	bind := func(key, flag string) {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
	bind("probe_host", "probe-host")
	bind("issuer", "issuer")
	bind("attempts", "attempts")
	bind("backoff", "backoff")
	bind("cert_dir", "cert-dir")
	bind("baseline", "baseline")

	s := &Settings{
		ProbeHost:        v.GetString("probe_host"),
		Issuer:           v.GetString("issuer"),
		IssuerAnyElement: v.GetBool("issuer_any_element"),
		Attempts:         v.GetInt("attempts"),
		Backoff:          v.GetDuration("backoff"),
		ConnectTimeout:   v.GetDuration("connect_timeout"),
		CertDir:          v.GetString("cert_dir"),
		Baseline:         v.GetString("baseline"),
	}

	if s.Attempts < 1 {
		return nil, fmt.Errorf("%w: attempts must be positive", ErrInvalidInput)
	}
	return s, nil
}

// newDiscoverer assembles the discovery stage from settings.
func newDiscoverer(s *Settings) (*probe.Discoverer, error) {
	connector, err := probe.NewTLSConnector(&probe.ConnectorConfig{
		Addr:           s.ProbeHost,
		ConnectTimeout: s.ConnectTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return probe.NewDiscoverer(&probe.DiscovererConfig{
		Connector: connector,
		Validator: &probe.Validator{
			IssuerSubstring: s.Issuer,
			MatchAnyElement: s.IssuerAnyElement,
		},
		MaxAttempts: s.Attempts,
		Backoff:     s.Backoff,
	})
}

// newLocator assembles the baseline locator from settings.
func newLocator(s *Settings) *bundle.Locator {
	return bundle.NewLocator(&bundle.LocatorConfig{ExplicitPath: s.Baseline})
}

// newBuilder assembles the bundle builder from settings.
func newBuilder(s *Settings) (*bundle.Builder, error) {
	return bundle.NewBuilder(&bundle.BuilderConfig{CertDir: s.CertDir})
}
