// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

// Package probe discovers the certificate chain the local network path
// actually presents for a TLS connection. Behind a TLS-intercepting
// corporate proxy this is the proxy's chain, not the origin server's,
// which is exactly what the caller wants to capture.
//
// The pipeline is Connector -> extraction -> validation, driven by a
// Discoverer that retries transient failures with a fixed backoff:
//
//   - Connector performs a TLS handshake with chain verification
//     suppressed and returns the peer certificates as presented.
//   - Extract/ExtractText render the chain into canonical PEM blocks,
//     leaf to root, regardless of whether the chain came from a
//     structured handshake API or line-oriented tool output.
//   - Validator checks encoding integrity first, then the issuer
//     identity of the leaf certificate.
//
// Every attempt ends in exactly one Outcome; only OutcomeValidated
// promotes the chain to the caller.
package probe

import (
	"context"
	"crypto/x509"
)

// Outcome classifies the result of a single discovery attempt.
type Outcome string

const (
	// OutcomeConnectionFailed indicates the TLS handshake could not be
	// completed (timeout, DNS failure, reset).
	OutcomeConnectionFailed Outcome = "connection-failed"

	// OutcomeChainEmpty indicates the handshake yielded no complete
	// certificate blocks.
	OutcomeChainEmpty Outcome = "chain-empty"

	// OutcomeEncodingInvalid indicates the extracted chain contained
	// bytes outside printable PEM text, or a block that does not parse.
	OutcomeEncodingInvalid Outcome = "encoding-invalid"

	// OutcomeIssuerMismatch indicates the chain parsed cleanly but its
	// issuer does not contain the expected proxy-vendor identity.
	OutcomeIssuerMismatch Outcome = "issuer-mismatch"

	// OutcomeValidated indicates the chain passed all checks.
	OutcomeValidated Outcome = "validated"
)

// Connector opens a TLS connection and surfaces the certificate chain the
// network presents. Implementations must not consult a previously written
// trust bundle: discovery has to observe the current network path because
// the intercepting certificate can rotate.
type Connector interface {
	// Connect performs the handshake and returns the peer chain in the
	// order presented, leaf first. Connection-level failures are returned
	// wrapped in ErrConnectionFailed.
	Connect(ctx context.Context) ([]*x509.Certificate, error)
}

// Chain is an ordered sequence of canonical PEM certificate blocks,
// leaf to root as presented by the handshake.
type Chain struct {
	// Blocks holds one PEM-encoded certificate per element.
	Blocks [][]byte
}

// Len returns the number of certificates in the chain.
func (c Chain) Len() int {
	return len(c.Blocks)
}

// PEM returns the chain as a single PEM concatenation in presentation
// order. The result is empty for an empty chain.
func (c Chain) PEM() []byte {
	var out []byte
	for _, b := range c.Blocks {
		out = append(out, b...)
	}
	return out
}

// Leaf parses and returns the first certificate in the chain.
func (c Chain) Leaf() (*x509.Certificate, error) {
	if len(c.Blocks) == 0 {
		return nil, ErrChainEmpty
	}
	return parsePEMBlock(c.Blocks[0])
}
