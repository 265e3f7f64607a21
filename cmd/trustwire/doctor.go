// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/miekg/dns"
	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-trustwire/pkg/probe"
)

const doctorDNSTimeout = 5 * time.Second

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run network preflight checks",
	Long: `Doctor checks the network path used for discovery: DNS resolution of
the probe host via a direct query to the system resolver, TLS
reachability, and an interception verdict based on the presented
chain's issuer.

Doctor never writes anything; it only observes and reports.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	host, _, err := net.SplitHostPort(settings.ProbeHost)
	if err != nil {
		return fmt.Errorf("%w: probe host %q: %w", ErrInvalidInput, settings.ProbeHost, err)
	}

	out := cmd.OutOrStdout()
	healthy := true

	if err := checkDNS(ctx, out, host); err != nil {
		fmt.Fprintf(out, "FAIL dns: %v\n", err)
		healthy = false
	}

	if err := checkHandshake(ctx, out, settings); err != nil {
		fmt.Fprintf(out, "FAIL tls: %v\n", err)
		healthy = false
	}

	if !healthy {
		return fmt.Errorf("%w: preflight checks failed", ErrSetupFailed)
	}
	fmt.Fprintln(out, "all checks passed")
	return nil
}

// checkDNS resolves the probe host with a direct A query against the
// first system nameserver, bypassing the Go resolver so a broken
// /etc/resolv.conf shows up as itself rather than as a dial timeout.
func checkDNS(ctx context.Context, out io.Writer, host string) error {
	systemCfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil {
		return fmt.Errorf("read resolver config: %w", err)
	}
	if len(systemCfg.Servers) == 0 {
		return fmt.Errorf("no nameservers in /etc/resolv.conf")
	}
	port := systemCfg.Port
	if port == "" {
		port = "53"
	}
	server := net.JoinHostPort(systemCfg.Servers[0], port)

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), dns.TypeA)
	msg.RecursionDesired = true

	client := &dns.Client{Timeout: doctorDNSTimeout}
	resp, rtt, err := client.ExchangeContext(ctx, msg, server)
	if err != nil {
		return fmt.Errorf("query %s via %s: %w", host, server, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return fmt.Errorf("query %s via %s: rcode %s", host, server, dns.RcodeToString[resp.Rcode])
	}

	addrs := make([]string, 0, len(resp.Answer))
	for _, rr := range resp.Answer {
		if a, ok := rr.(*dns.A); ok {
			addrs = append(addrs, a.A.String())
		}
	}
	if len(addrs) == 0 {
		return fmt.Errorf("query %s via %s: no A records", host, server)
	}

	fmt.Fprintf(out, "OK   dns: %s -> %s via %s (%s)\n",
		host, strings.Join(addrs, ", "), server, rtt.Round(time.Millisecond))
	return nil
}

// checkHandshake performs one handshake and classifies the presented
// chain without retrying.
func checkHandshake(ctx context.Context, out io.Writer, settings *Settings) error {
	connector, err := probe.NewTLSConnector(&probe.ConnectorConfig{
		Addr:           settings.ProbeHost,
		ConnectTimeout: settings.ConnectTimeout,
	})
	if err != nil {
		return err
	}

	certs, err := connector.Connect(ctx)
	if err != nil {
		return err
	}
	chain := probe.Extract(certs)
	fmt.Fprintf(out, "OK   tls: handshake with %s, %d certificates presented\n",
		settings.ProbeHost, chain.Len())

	validator := &probe.Validator{
		IssuerSubstring: settings.Issuer,
		MatchAnyElement: settings.IssuerAnyElement,
	}
	switch outcome := validator.Validate(chain); outcome {
	case probe.OutcomeValidated:
		fmt.Fprintf(out, "OK   interception: chain issuer matches %q\n", settings.Issuer)
	case probe.OutcomeIssuerMismatch:
		leaf, leafErr := chain.Leaf()
		if leafErr == nil {
			fmt.Fprintf(out, "INFO interception: no %q in issuer, chain issued by %s\n",
				settings.Issuer, leaf.Issuer)
		} else {
			fmt.Fprintf(out, "INFO interception: no %q in issuer\n", settings.Issuer)
		}
	default:
		fmt.Fprintf(out, "WARN interception: chain classified as %s\n", outcome)
	}
	return nil
}
