// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"crypto/x509"
	"errors"
	"testing"
	"time"
)

// scriptedConnector returns one scripted result per attempt.
type scriptedConnector struct {
	results []scriptedResult
	calls   int
}

type scriptedResult struct {
	certs []*x509.Certificate
	err   error
}

func (c *scriptedConnector) Connect(ctx context.Context) ([]*x509.Certificate, error) {
	if c.calls >= len(c.results) {
		return nil, errors.New("scripted connector: no more results")
	}
	r := c.results[c.calls]
	c.calls++
	return r.certs, r.err
}

// countingSleep replaces the backoff sleep and records invocations.
func countingSleep(count *int) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*count++
		return nil
	}
}

func TestDiscoverer_ValidatesFirstAttempt(t *testing.T) {
	cert, _ := newSelfSignedCert(t, "Zscaler Inc.")
	conn := &scriptedConnector{results: []scriptedResult{
		{certs: []*x509.Certificate{cert}},
	}}

	d, err := NewDiscoverer(&DiscovererConfig{Connector: conn})
	if err != nil {
		t.Fatalf("NewDiscoverer() error = %v", err)
	}
	sleeps := 0
	d.sleep = countingSleep(&sleeps)

	chain, err := d.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if chain.Len() != 1 {
		t.Errorf("chain length = %d, want 1", chain.Len())
	}
	if sleeps != 0 {
		t.Errorf("sleeps = %d, want 0", sleeps)
	}
}

func TestDiscoverer_ExhaustsAfterThreeMismatches(t *testing.T) {
	cert, _ := newSelfSignedCert(t, "Some Other CA")
	conn := &scriptedConnector{results: []scriptedResult{
		{certs: []*x509.Certificate{cert}},
		{certs: []*x509.Certificate{cert}},
		{certs: []*x509.Certificate{cert}},
	}}

	d, err := NewDiscoverer(&DiscovererConfig{Connector: conn})
	if err != nil {
		t.Fatalf("NewDiscoverer() error = %v", err)
	}
	sleeps := 0
	d.sleep = countingSleep(&sleeps)

	_, err = d.Discover(context.Background())
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("Discover() error = %v, want ErrExhausted", err)
	}

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Discover() error type = %T, want *ExhaustedError", err)
	}
	if len(exhausted.Attempts) != 3 {
		t.Errorf("attempts = %d, want 3", len(exhausted.Attempts))
	}
	for i, a := range exhausted.Attempts {
		if a.Outcome != OutcomeIssuerMismatch {
			t.Errorf("attempt %d outcome = %s, want %s", i+1, a.Outcome, OutcomeIssuerMismatch)
		}
	}
	if conn.calls != 3 {
		t.Errorf("connector calls = %d, want 3", conn.calls)
	}
	// No sleep after the final attempt.
	if sleeps != 2 {
		t.Errorf("sleeps = %d, want 2", sleeps)
	}
}

func TestDiscoverer_RecoversAfterConnectionFailures(t *testing.T) {
	cert, _ := newSelfSignedCert(t, "Zscaler Inc.")
	conn := &scriptedConnector{results: []scriptedResult{
		{err: ErrConnectionFailed},
		{err: ErrConnectionFailed},
		{certs: []*x509.Certificate{cert}},
	}}

	d, err := NewDiscoverer(&DiscovererConfig{Connector: conn})
	if err != nil {
		t.Fatalf("NewDiscoverer() error = %v", err)
	}
	sleeps := 0
	d.sleep = countingSleep(&sleeps)

	chain, err := d.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if chain.Len() != 1 {
		t.Errorf("chain length = %d, want 1", chain.Len())
	}
	if sleeps != 2 {
		t.Errorf("sleeps = %d, want 2", sleeps)
	}
}

func TestDiscoverer_EmptyChainOutcome(t *testing.T) {
	conn := &scriptedConnector{results: []scriptedResult{
		{certs: nil},
	}}

	d, err := NewDiscoverer(&DiscovererConfig{Connector: conn, MaxAttempts: 1})
	if err != nil {
		t.Fatalf("NewDiscoverer() error = %v", err)
	}
	sleeps := 0
	d.sleep = countingSleep(&sleeps)

	_, err = d.Discover(context.Background())

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Discover() error type = %T, want *ExhaustedError", err)
	}
	if exhausted.Attempts[0].Outcome != OutcomeChainEmpty {
		t.Errorf("outcome = %s, want %s", exhausted.Attempts[0].Outcome, OutcomeChainEmpty)
	}
}

func TestDiscoverer_ContextCancelled(t *testing.T) {
	cert, _ := newSelfSignedCert(t, "Zscaler Inc.")
	conn := &scriptedConnector{results: []scriptedResult{
		{certs: []*x509.Certificate{cert}},
	}}

	d, err := NewDiscoverer(&DiscovererConfig{Connector: conn})
	if err != nil {
		t.Fatalf("NewDiscoverer() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Discover(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Discover() error = %v, want context.Canceled", err)
	}
}

func TestNewDiscoverer_NilConnector(t *testing.T) {
	if _, err := NewDiscoverer(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewDiscoverer(nil) error = %v, want ErrInvalidConfig", err)
	}
	if _, err := NewDiscoverer(&DiscovererConfig{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewDiscoverer(no connector) error = %v, want ErrInvalidConfig", err)
	}
}

func TestNewDiscoverer_NegativeAttempts(t *testing.T) {
	conn := &scriptedConnector{}
	if _, err := NewDiscoverer(&DiscovererConfig{Connector: conn, MaxAttempts: -1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewDiscoverer(-1 attempts) error = %v, want ErrInvalidConfig", err)
	}
}
