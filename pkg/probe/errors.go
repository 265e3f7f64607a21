// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package probe

import "errors"

var (
	// ErrInvalidConfig indicates the connector or discoverer configuration
	// is invalid or missing required fields.
	ErrInvalidConfig = errors.New("probe: invalid configuration")

	// ErrConnectionFailed indicates the TLS handshake with the probe host
	// could not be completed.
	ErrConnectionFailed = errors.New("probe: connection failed")

	// ErrChainEmpty indicates the handshake yielded no certificates.
	ErrChainEmpty = errors.New("probe: certificate chain is empty")

	// ErrEncodingInvalid indicates the chain contains bytes outside
	// printable PEM text or a block that does not parse as a certificate.
	ErrEncodingInvalid = errors.New("probe: chain encoding is invalid")

	// ErrIssuerMismatch indicates the chain issuer does not contain the
	// expected proxy-vendor identity.
	ErrIssuerMismatch = errors.New("probe: issuer does not match expected identity")

	// ErrExhausted indicates all discovery attempts failed.
	ErrExhausted = errors.New("probe: discovery attempts exhausted")
)

// outcomeErr maps a non-validated outcome to its sentinel error.
func outcomeErr(o Outcome) error {
	switch o {
	case OutcomeConnectionFailed:
		return ErrConnectionFailed
	case OutcomeChainEmpty:
		return ErrChainEmpty
	case OutcomeEncodingInvalid:
		return ErrEncodingInvalid
	case OutcomeIssuerMismatch:
		return ErrIssuerMismatch
	default:
		return nil
	}
}
