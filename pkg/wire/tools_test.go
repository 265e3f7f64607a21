// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package wire

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeRunner records commands and scripts lookup/run results.
type fakeRunner struct {
	missing map[string]bool
	runErr  error
	cmds    []string
}

func (r *fakeRunner) LookPath(name string) (string, error) {
	if r.missing[name] {
		return "", errors.New("not found on PATH")
	}
	return "/usr/bin/" + name, nil
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	r.cmds = append(r.cmds, name+" "+strings.Join(args, " "))
	return r.runErr
}

func TestGitTool_Apply(t *testing.T) {
	runner := &fakeRunner{}
	tool := &gitTool{runner: runner}

	if err := tool.Apply(context.Background(), "/home/dev/certs/trust-bundle.pem"); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := "git config --global http.sslCAInfo /home/dev/certs/trust-bundle.pem"
	if len(runner.cmds) != 1 || runner.cmds[0] != want {
		t.Errorf("commands = %v, want [%q]", runner.cmds, want)
	}
}

func TestGcloudTool_Apply(t *testing.T) {
	runner := &fakeRunner{}
	tool := &gcloudTool{runner: runner}

	if err := tool.Apply(context.Background(), "/b.pem"); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := "gcloud config set core/custom_ca_certs_file /b.pem"
	if len(runner.cmds) != 1 || runner.cmds[0] != want {
		t.Errorf("commands = %v, want [%q]", runner.cmds, want)
	}
}

func TestPipTool_Apply_FallsBackToPip(t *testing.T) {
	runner := &fakeRunner{missing: map[string]bool{"pip3": true}}
	tool := &pipTool{runner: runner}

	if err := tool.Apply(context.Background(), "/b.pem"); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := "pip config set global.cert /b.pem"
	if len(runner.cmds) != 1 || runner.cmds[0] != want {
		t.Errorf("commands = %v, want [%q]", runner.cmds, want)
	}
}

func TestTools_Unavailable(t *testing.T) {
	runner := &fakeRunner{missing: map[string]bool{
		"git": true, "gcloud": true, "pip3": true, "pip": true,
	}}

	for _, tool := range DefaultTools(runner) {
		if err := tool.Apply(context.Background(), "/b.pem"); !errors.Is(err, ErrToolUnavailable) {
			t.Errorf("%s Apply() error = %v, want ErrToolUnavailable", tool.Name(), err)
		}
	}
	if len(runner.cmds) != 0 {
		t.Errorf("commands run for missing tools: %v", runner.cmds)
	}
}

func TestDefaultTools_Names(t *testing.T) {
	var names []string
	for _, tool := range DefaultTools(&fakeRunner{}) {
		names = append(names, tool.Name())
	}
	want := []string{"git", "gcloud", "pip"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("tool names = %v, want %v", names, want)
	}
}
