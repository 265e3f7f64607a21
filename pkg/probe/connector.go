// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net"
	"time"
)

const (
	// DefaultProbeAddr is the default externally reachable host:port used
	// to observe the network path.
	DefaultProbeAddr = "www.google.com:443"

	// DefaultConnectTimeout bounds a single dial plus handshake so the
	// retry loop completes in well under a minute.
	DefaultConnectTimeout = 10 * time.Second
)

// ConnectorConfig configures the TLS connector.
type ConnectorConfig struct {
	// Addr is the host:port to handshake with. Default: DefaultProbeAddr.
	Addr string

	// ConnectTimeout bounds the dial and handshake. Default: 10s.
	ConnectTimeout time.Duration

	// Logger for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// TLSConnector observes the certificate chain presented on the wire by
// performing a real handshake with chain verification suppressed. Under
// interception the chain belongs to the proxy, which is the point: the
// connector reports what the network presents, trusted or not.
type TLSConnector struct {
	addr    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewTLSConnector creates a connector for the given probe address.
func NewTLSConnector(cfg *ConnectorConfig) (*TLSConnector, error) {
	if cfg == nil {
		cfg = &ConnectorConfig{}
	}

	addr := cfg.Addr
	if addr == "" {
		addr = DefaultProbeAddr
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return nil, fmt.Errorf("%w: addr %q: %w", ErrInvalidConfig, addr, err)
	}

	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = DefaultConnectTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &TLSConnector{
		addr:    addr,
		timeout: timeout,
		logger:  logger.With("component", "tls_connector"),
	}, nil
}

// Connect performs the handshake and returns the peer chain as presented,
// leaf first. The handshake deliberately skips chain verification; the
// chain is inspected by the validator, not trusted here.
func (c *TLSConnector) Connect(ctx context.Context) ([]*x509.Certificate, error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug("probing network path", "addr", c.addr)

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: c.timeout},
		Config: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true, //nolint:gosec // Observing the presented chain is the purpose
		},
	}

	conn, err := dialer.DialContext(dialCtx, "tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectionFailed, c.addr, err)
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	certs := state.PeerCertificates

	c.logger.Debug("handshake complete",
		"addr", c.addr, "chain_length", len(certs))

	return certs, nil
}
