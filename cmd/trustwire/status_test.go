// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCertPEM(t *testing.T, cn string) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

func TestParseAll_MixedContent(t *testing.T) {
	var data []byte
	data = append(data, testCertPEM(t, "one")...)
	data = append(data, []byte("# a comment between blocks\n")...)
	data = append(data, testCertPEM(t, "two")...)

	certs := parseAll(data)
	require.Len(t, certs, 2)
	assert.Equal(t, "one", certs[0].Subject.CommonName)
	assert.Equal(t, "two", certs[1].Subject.CommonName)
}

func TestParseAll_Garbage(t *testing.T) {
	assert.Empty(t, parseAll([]byte("not pem at all")))
}

func TestPrintArtifact_Missing(t *testing.T) {
	var buf bytes.Buffer
	found := printArtifact(&buf, "chain", filepath.Join(t.TempDir(), "absent.pem"))
	assert.False(t, found)
	assert.Contains(t, buf.String(), "missing")
}

func TestPrintArtifact_Chain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy-chain.pem")
	require.NoError(t, os.WriteFile(path, testCertPEM(t, "Intercept Root"), 0o644))

	var buf bytes.Buffer
	found := printArtifact(&buf, "chain", path)
	assert.True(t, found)
	assert.Contains(t, buf.String(), "1 certificates")
	assert.Contains(t, buf.String(), "Intercept Root")
	assert.Contains(t, buf.String(), "sha256:")
}
