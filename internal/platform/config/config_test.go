package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CXASSIST_API_URL", "CXASSIST_DOMAIN_SUFFIX", "CXASSIST_LOG_LEVEL"} {
		prev, had := os.LookupEnv(key)
		_ = os.Unsetenv(key)
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(key, prev)
				return
			}
			_ = os.Unsetenv(key)
		})
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfg, err := New(Options{StateDir: dir, EnvFile: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Fatalf("expected default api url, got %s", cfg.APIBaseURL)
	}
	if cfg.DomainSuffix != "@ajobthing.com" {
		t.Fatalf("unexpected suffix %s", cfg.DomainSuffix)
	}
	if len(cfg.Agents) != 5 || cfg.Agents[0] != "sakinah" {
		t.Fatalf("unexpected roster %v", cfg.Agents)
	}
	if cfg.IdentityPath != filepath.Join(dir, "identity.json") {
		t.Fatalf("unexpected identity path %s", cfg.IdentityPath)
	}
}

func TestNewReadsYAMLAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yamlBody := "api_base_url: http://backend:9000/api/\nagents: [alpha, beta]\nrequest_timeout: 5s\nlog_level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	envPath := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envPath, []byte("CXASSIST_DOMAIN_SUFFIX=@example.org\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}

	cfg, err := New(Options{StateDir: dir, EnvFile: envPath})
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.APIBaseURL != "http://backend:9000/api" {
		t.Fatalf("expected trimmed yaml url, got %s", cfg.APIBaseURL)
	}
	if len(cfg.Agents) != 2 || cfg.Agents[1] != "beta" {
		t.Fatalf("unexpected roster %v", cfg.Agents)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.RequestTimeout)
	}
	if cfg.DomainSuffix != "@example.org" {
		t.Fatalf("expected env suffix, got %s", cfg.DomainSuffix)
	}

	cfg, err = New(Options{StateDir: dir, EnvFile: envPath, APIBaseURL: "http://flag/api"})
	if err != nil {
		t.Fatalf("new config with flag: %v", err)
	}
	if cfg.APIBaseURL != "http://flag/api" {
		t.Fatalf("flag must win, got %s", cfg.APIBaseURL)
	}
}

func TestNewRejectsMissingExplicitConfigAndBadValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envPath := filepath.Join(dir, "missing.env")
	if _, err := New(Options{StateDir: dir, ConfigPath: filepath.Join(dir, "nope.yaml"), EnvFile: envPath}); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("request_timeout: soon\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := New(Options{StateDir: dir, ConfigPath: bad, EnvFile: envPath}); err == nil {
		t.Fatalf("expected error for invalid duration")
	}

	cfg := Config{APIBaseURL: "http://x", RequestTimeout: time.Second, Agents: []string{"a"}, DomainSuffix: "example.org"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected suffix validation error")
	}
}
