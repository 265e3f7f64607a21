// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Inspect the persisted trust bundle artifacts",
	Long: `Status reports on the chain and golden bundle files: whether they
exist, how many certificates each contains, the chain's leaf issuer and
fingerprint, and how old the artifacts are.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	builder, err := newBuilder(settings)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	out := cmd.OutOrStdout()
	chainOK := printArtifact(out, "chain", builder.ChainPath())
	bundleOK := printArtifact(out, "bundle", builder.BundlePath())

	if !chainOK && !bundleOK {
		fmt.Fprintln(out, "no artifacts found, run setup first")
	}
	return nil
}

// printArtifact describes one artifact file and reports its presence.
func printArtifact(out io.Writer, label, path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(out, "%-7s %s: missing\n", label, path)
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(out, "%-7s %s: unreadable: %v\n", label, path, err)
		return true
	}

	certs := parseAll(data)
	age := time.Since(info.ModTime()).Round(time.Minute)
	fmt.Fprintf(out, "%-7s %s: %d certificates, %d bytes, modified %s ago\n",
		label, path, len(certs), len(data), age)

	if label == "chain" && len(certs) > 0 {
		leaf := certs[0]
		fmt.Fprintf(out, "        leaf subject: %s\n", leaf.Subject)
		fmt.Fprintf(out, "        leaf issuer:  %s\n", leaf.Issuer)
		fmt.Fprintf(out, "        fingerprint:  sha256:%x\n", sha256.Sum256(leaf.Raw))
		fmt.Fprintf(out, "        not after:    %s\n", leaf.NotAfter.Format(time.RFC3339))
	}
	return true
}

// parseAll decodes every parseable certificate in a PEM concatenation,
// skipping blocks that fail to parse.
func parseAll(data []byte) []*x509.Certificate {
	var certs []*x509.Certificate
	for len(data) > 0 {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		data = rest
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			continue
		}
		certs = append(certs, cert)
	}
	return certs
}
