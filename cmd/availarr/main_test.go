package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommandShowsHelp(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "availarr") {
		t.Fatalf("help output missing command name:\n%s", out.String())
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), target) {
		t.Fatalf("expected written path in output:\n%s", out.String())
	}

	// A second init against the same path must refuse to overwrite.
	retry := newRootCommand()
	retry.SetOut(&out)
	retry.SetErr(&out)
	retry.SetArgs([]string{"config", "init", "--path", target})
	if err := retry.Execute(); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}

func TestMatchCommandRequiresIdentifier(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "missing.toml")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"match", "--config", cfg})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for empty match query")
	}
}
