package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func runRoot(t *testing.T, args ...string) (*appState, string, error) {
	t.Helper()
	root, state := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--state-dir", t.TempDir(), "--api", "http://127.0.0.1:1/api"}, args...))
	err := execute(root, state)
	return state, out.String(), err
}

func TestGateFailureStillReleasesApp(t *testing.T) {
	state, _, err := runRoot(t, "history", "--agent", "melody")
	if !errors.Is(err, errLoginRequired) {
		t.Fatalf("expected login required, got %v", err)
	}
	if !state.released || state.app != nil {
		t.Fatalf("app must be released after a failed command")
	}
}

func TestCommandErrorStillReleasesApp(t *testing.T) {
	state, _, err := runRoot(t, "login", "someone@other.com")
	if err == nil || !strings.Contains(err.Error(), "Access denied") {
		t.Fatalf("expected access denied, got %v", err)
	}
	if !state.released {
		t.Fatalf("app must be released after a failed command")
	}
}

func TestPublicCommandSucceedsAndReleasesApp(t *testing.T) {
	state, out, err := runRoot(t, "agents")
	if err != nil {
		t.Fatalf("agents: %v", err)
	}
	if !strings.Contains(out, "melody") {
		t.Fatalf("expected roster in output, got %q", out)
	}
	if !state.released {
		t.Fatalf("app must be released")
	}
}

func TestHelpBuildsNoApp(t *testing.T) {
	state, _, err := runRoot(t, "help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	if state.released {
		t.Fatalf("help must not build the app")
	}
}
