package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != "localhost:8080" {
		t.Errorf("addr %s", cfg.Addr())
	}
	if cfg.Workers != 2 || cfg.SearchTimeout != 10*time.Second || cfg.RateLimit != 10 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if !cfg.SeatTokens || cfg.StoragePath != "" || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkers.yaml")
	data := []byte("api_port: 9000\nworkers: 4\nlog_level: debug\nsearch_timeout: 3s\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CHECKERS_WORKERS", "6")

	cfg, err := Load(path, map[string]any{"log-level": "warn"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIPort != 9000 {
		t.Errorf("file value lost: port %d", cfg.APIPort)
	}
	if cfg.SearchTimeout != 3*time.Second {
		t.Errorf("search timeout %v", cfg.SearchTimeout)
	}
	if cfg.Workers != 6 {
		t.Errorf("env must override file: workers %d", cfg.Workers)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("flag must override file: level %s", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name      string
		overrides map[string]any
	}{
		{"port", map[string]any{"api_port": 70000}},
		{"pid lock", map[string]any{"pid_lock": true}},
		{"workers", map[string]any{"workers": 0}},
		{"rate", map[string]any{"rate_limit": 0}},
		{"secret", map[string]any{"jwt_secret": "short"}},
		{"level", map[string]any{"log_level": "loud"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load("", tc.overrides); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
