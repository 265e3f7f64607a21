// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package probe

import (
	"bufio"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"strings"
)

const (
	pemCertificateType = "CERTIFICATE"

	pemBeginMarker = "-----BEGIN CERTIFICATE-----"
	pemEndMarker   = "-----END CERTIFICATE-----"
)

// Extract renders a handshake-level chain into canonical PEM blocks in
// presentation order. A nil or empty input yields an empty chain.
func Extract(certs []*x509.Certificate) Chain {
	blocks := make([][]byte, 0, len(certs))
	for _, cert := range certs {
		blocks = append(blocks, pem.EncodeToMemory(&pem.Block{
			Type:  pemCertificateType,
			Bytes: cert.Raw,
		}))
	}
	return Chain{Blocks: blocks}
}

// ExtractText scans line-oriented handshake output (openssl s_client
// style) and returns the complete PEM certificate blocks it contains, in
// order, with all surrounding framing discarded. A stream with no
// complete block yields an empty chain, not an error; the validator
// treats that uniformly as chain-empty.
func ExtractText(r io.Reader) (Chain, error) {
	var (
		blocks  [][]byte
		current strings.Builder
		inBlock bool
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == pemBeginMarker:
			// A BEGIN inside an open block abandons the partial capture.
			current.Reset()
			current.WriteString(line)
			current.WriteByte('\n')
			inBlock = true
		case line == pemEndMarker && inBlock:
			current.WriteString(line)
			current.WriteByte('\n')
			blocks = append(blocks, []byte(current.String()))
			current.Reset()
			inBlock = false
		case inBlock:
			current.WriteString(line)
			current.WriteByte('\n')
		}
	}
	if err := scanner.Err(); err != nil {
		return Chain{}, fmt.Errorf("%w: reading handshake output: %w", ErrConnectionFailed, err)
	}

	return Chain{Blocks: blocks}, nil
}

// parsePEMBlock decodes a single PEM certificate block.
func parsePEMBlock(b []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(b)
	if block == nil || block.Type != pemCertificateType {
		return nil, fmt.Errorf("%w: not a PEM certificate block", ErrEncodingInvalid)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingInvalid, err)
	}
	return cert, nil
}
