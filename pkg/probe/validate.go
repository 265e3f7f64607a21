// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package probe

import "strings"

// DefaultIssuerSubstring is the proxy-vendor identity expected in the
// issuer distinguished name of an intercepted chain.
const DefaultIssuerSubstring = "Zscaler"

// Validator inspects an extracted chain. Checks run in a fixed order:
// the cheap structural encoding check short-circuits before the issuer
// inspection. Validation is pure; it never touches the network or disk.
type Validator struct {
	// IssuerSubstring is the substring required in the issuer DN.
	// Default: DefaultIssuerSubstring.
	IssuerSubstring string

	// MatchAnyElement widens the issuer check from the leaf certificate
	// to every element of the chain. Off by default; the leaf is the
	// certificate the intercepting proxy minted for this connection.
	MatchAnyElement bool
}

// NewValidator creates a validator for the given issuer identity.
// An empty substring selects the default.
func NewValidator(issuerSubstring string) *Validator {
	if issuerSubstring == "" {
		issuerSubstring = DefaultIssuerSubstring
	}
	return &Validator{IssuerSubstring: issuerSubstring}
}

// Validate classifies the chain. Only a non-empty, encoding-clean chain
// whose issuer matches the expected identity is OutcomeValidated.
func (v *Validator) Validate(chain Chain) Outcome {
	if chain.Len() == 0 {
		return OutcomeChainEmpty
	}

	for _, block := range chain.Blocks {
		if !pemTextClean(block) {
			return OutcomeEncodingInvalid
		}
	}

	if v.MatchAnyElement {
		for _, block := range chain.Blocks {
			cert, err := parsePEMBlock(block)
			if err != nil {
				return OutcomeEncodingInvalid
			}
			if strings.Contains(cert.Issuer.String(), v.IssuerSubstring) {
				return OutcomeValidated
			}
		}
		return OutcomeIssuerMismatch
	}

	leaf, err := chain.Leaf()
	if err != nil {
		return OutcomeEncodingInvalid
	}
	if !strings.Contains(leaf.Issuer.String(), v.IssuerSubstring) {
		return OutcomeIssuerMismatch
	}

	return OutcomeValidated
}

// pemTextClean reports whether b contains only the bytes expected of PEM
// text: printable ASCII plus tab, CR and LF. Anything else indicates a
// partially received or binary-corrupted capture.
func pemTextClean(b []byte) bool {
	for _, c := range b {
		if c >= 0x20 && c <= 0x7e {
			continue
		}
		if c == '\n' || c == '\r' || c == '\t' {
			continue
		}
		return false
	}
	return true
}
