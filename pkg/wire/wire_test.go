// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package wire

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTargets_FixedSet(t *testing.T) {
	bundlePath := filepath.Join("/home/dev/certs", "trust-bundle.pem")
	targets := Targets(bundlePath)

	if len(targets) != 10 {
		t.Fatalf("targets = %d, want 10", len(targets))
	}

	byName := make(map[string]string, len(targets))
	for _, target := range targets {
		byName[target.Name] = target.Value
	}

	dir := filepath.Dir(bundlePath)
	wantPath := []string{
		"SSL_CERT_FILE", "CERT_PATH", "REQUESTS_CA_BUNDLE", "CURL_CA_BUNDLE",
		"NODE_EXTRA_CA_CERTS", "GRPC_DEFAULT_SSL_ROOTS_FILE_PATH",
		"GIT_SSL_CAINFO", "CLOUDSDK_CORE_CUSTOM_CA_CERTS_FILE",
	}
	for _, name := range wantPath {
		if byName[name] != bundlePath {
			t.Errorf("%s = %q, want bundle path", name, byName[name])
		}
	}
	for _, name := range []string{"SSL_CERT_DIR", "CERT_DIR"} {
		if byName[name] != dir {
			t.Errorf("%s = %q, want bundle dir", name, byName[name])
		}
	}
}

func TestTargets_StableOrder(t *testing.T) {
	a := Targets("/tmp/bundle.pem")
	b := Targets("/tmp/bundle.pem")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("target order differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRenderBlock_Posix(t *testing.T) {
	block := RenderBlock(ShellPosix, []Target{{Name: "SSL_CERT_FILE", Value: "/home/dev/certs/trust-bundle.pem"}})
	want := "export SSL_CERT_FILE=\"/home/dev/certs/trust-bundle.pem\"\n"
	if block != want {
		t.Errorf("RenderBlock() = %q, want %q", block, want)
	}
}

func TestRenderBlock_Fish(t *testing.T) {
	block := RenderBlock(ShellFish, []Target{{Name: "SSL_CERT_FILE", Value: "/b.pem"}})
	if !strings.HasPrefix(block, "set -gx SSL_CERT_FILE ") {
		t.Errorf("RenderBlock() = %q, want fish syntax", block)
	}
}

func TestRenderBlock_PowerShell(t *testing.T) {
	block := RenderBlock(ShellPowerShell, []Target{{Name: "SSL_CERT_FILE", Value: `C:\certs\b.pem`}})
	if !strings.HasPrefix(block, "$env:SSL_CERT_FILE = ") {
		t.Errorf("RenderBlock() = %q, want PowerShell syntax", block)
	}
}

func TestSourceLine(t *testing.T) {
	tests := []struct {
		shell Shell
		want  string
	}{
		{ShellPosix, "[ -f \"/tmp/env\" ] && . \"/tmp/env\"\n"},
		{ShellFish, "source \"/tmp/env\"\n"},
		{ShellPowerShell, ". \"/tmp/env\"\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			if got := SourceLine(tt.shell, "/tmp/env"); got != tt.want {
				t.Errorf("SourceLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectForPlatform(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		shellEnv  string
		wantShell Shell
		wantFile  string
	}{
		{"bash", "linux", "/bin/bash", ShellPosix, ".bashrc"},
		{"zsh", "darwin", "/bin/zsh", ShellPosix, ".zshrc"},
		{"fish", "linux", "/usr/bin/fish", ShellFish, "config.fish"},
		{"no shell env", "linux", "", ShellPosix, ".bashrc"},
		{"windows", "windows", "", ShellPowerShell, "Microsoft.PowerShell_profile.ps1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := detectForPlatform(tt.goos, tt.shellEnv, "/home/dev")
			if p.Shell != tt.wantShell {
				t.Errorf("Shell = %s, want %s", p.Shell, tt.wantShell)
			}
			if filepath.Base(p.ProfilePath) != tt.wantFile {
				t.Errorf("ProfilePath = %q, want base %q", p.ProfilePath, tt.wantFile)
			}
		})
	}
}
