// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	// DefaultMaxAttempts is the default bound on discovery attempts.
	DefaultMaxAttempts = 3

	// DefaultBackoff is the default fixed interval slept between
	// attempts. No sleep follows the final attempt.
	DefaultBackoff = 1 * time.Second
)

// DiscovererConfig configures the retry-driven discovery loop.
type DiscovererConfig struct {
	// Connector performs the handshake. Required.
	Connector Connector

	// Validator classifies extracted chains. If nil, a validator with
	// default settings is used.
	Validator *Validator

	// MaxAttempts bounds the retry loop. Default: 3.
	MaxAttempts int

	// Backoff is the fixed interval between attempts. Default: 1s.
	Backoff time.Duration

	// Logger for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Discoverer drives Connector -> extraction -> validation through a
// bounded retry loop. Interception can be flaky at the exact moment of
// connection (proxy warm-up, captive-portal redirects); bounded retry
// absorbs transient failures without looping indefinitely.
type Discoverer struct {
	connector   Connector
	validator   *Validator
	maxAttempts int
	backoff     time.Duration
	logger      *slog.Logger

	// sleep is overridden in tests to count backoff intervals.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDiscoverer creates a discoverer from the given config.
func NewDiscoverer(cfg *DiscovererConfig) (*Discoverer, error) {
	if cfg == nil || cfg.Connector == nil {
		return nil, fmt.Errorf("%w: connector required", ErrInvalidConfig)
	}

	validator := cfg.Validator
	if validator == nil {
		validator = NewValidator("")
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if maxAttempts < 1 {
		return nil, fmt.Errorf("%w: max attempts must be positive", ErrInvalidConfig)
	}

	backoff := cfg.Backoff
	if backoff == 0 {
		backoff = DefaultBackoff
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Discoverer{
		connector:   cfg.Connector,
		validator:   validator,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		logger:      logger.With("component", "discoverer"),
		sleep:       sleepCtx,
	}, nil
}

// Discover runs the retry loop until a chain validates or attempts are
// exhausted. On exhaustion it returns an ExhaustedError carrying the
// outcome of every attempt.
func (d *Discoverer) Discover(ctx context.Context) (Chain, error) {
	attempts := make([]AttemptError, 0, d.maxAttempts)

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Chain{}, fmt.Errorf("%w: cancelled: %w", ErrExhausted, err)
		}

		chain, outcome, err := d.attempt(ctx)
		if outcome == OutcomeValidated {
			d.logger.Info("chain validated",
				"attempt", attempt, "chain_length", chain.Len())
			return chain, nil
		}

		if err == nil {
			err = outcomeErr(outcome)
		}
		d.logger.Warn("discovery attempt failed",
			"attempt", attempt, "max_attempts", d.maxAttempts,
			"outcome", outcome, "error", err)
		attempts = append(attempts, AttemptError{
			Attempt: attempt,
			Outcome: outcome,
			Err:     err,
		})

		// Back off between attempts only; the final failure surfaces
		// immediately.
		if attempt < d.maxAttempts {
			if err := d.sleep(ctx, d.backoff); err != nil {
				return Chain{}, fmt.Errorf("%w: cancelled: %w", ErrExhausted, err)
			}
		}
	}

	return Chain{}, &ExhaustedError{Attempts: attempts}
}

// attempt runs one connect-extract-validate cycle.
func (d *Discoverer) attempt(ctx context.Context) (Chain, Outcome, error) {
	certs, err := d.connector.Connect(ctx)
	if err != nil {
		return Chain{}, OutcomeConnectionFailed, err
	}

	chain := Extract(certs)
	return chain, d.validator.Validate(chain), nil
}

// sleepCtx sleeps for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// AttemptError records a single failed discovery attempt.
type AttemptError struct {
	// Attempt is the 1-based attempt number.
	Attempt int

	// Outcome classifies the failure.
	Outcome Outcome

	// Err is the underlying error, if any.
	Err error
}

// Error returns a formatted message including the attempt number.
func (e *AttemptError) Error() string {
	return fmt.Sprintf("attempt %d: %s: %v", e.Attempt, e.Outcome, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *AttemptError) Unwrap() error {
	return e.Err
}

// ExhaustedError is returned when every discovery attempt failed. It
// wraps ErrExhausted and carries the per-attempt records for diagnostics.
type ExhaustedError struct {
	// Attempts contains one record per failed attempt, in order.
	Attempts []AttemptError
}

// Error returns a formatted message listing every attempt outcome.
func (e *ExhaustedError) Error() string {
	var b strings.Builder
	b.WriteString("probe: discovery attempts exhausted: [")
	for i, a := range e.Attempts {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s", a.Error())
	}
	b.WriteString("]")
	return b.String()
}

// Unwrap returns ErrExhausted for use with errors.Is.
func (e *ExhaustedError) Unwrap() error {
	return ErrExhausted
}
