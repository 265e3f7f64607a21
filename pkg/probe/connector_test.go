// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewTLSConnector_Defaults(t *testing.T) {
	c, err := NewTLSConnector(nil)
	if err != nil {
		t.Fatalf("NewTLSConnector(nil) error = %v", err)
	}
	if c.addr != DefaultProbeAddr {
		t.Errorf("addr = %q, want %q", c.addr, DefaultProbeAddr)
	}
	if c.timeout != DefaultConnectTimeout {
		t.Errorf("timeout = %v, want %v", c.timeout, DefaultConnectTimeout)
	}
}

func TestNewTLSConnector_InvalidAddr(t *testing.T) {
	if _, err := NewTLSConnector(&ConnectorConfig{Addr: "no-port"}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewTLSConnector(no port) error = %v, want ErrInvalidConfig", err)
	}
}

func TestTLSConnector_Connect_UntrustedChain(t *testing.T) {
	// The test server presents a self-signed certificate no local trust
	// store accepts. Connect must still surface it.
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	c, err := NewTLSConnector(&ConnectorConfig{
		Addr:           server.Listener.Addr().String(),
		ConnectTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewTLSConnector() error = %v", err)
	}

	certs, err := c.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if len(certs) == 0 {
		t.Fatal("Connect() returned no certificates")
	}
}

func TestTLSConnector_Connect_Refused(t *testing.T) {
	// Reserve a port, then close it so the dial is refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.Listener.Addr().String()
	server.Close()

	c, err := NewTLSConnector(&ConnectorConfig{
		Addr:           addr,
		ConnectTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewTLSConnector() error = %v", err)
	}

	if _, err := c.Connect(context.Background()); !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}
