package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Port:              "8081",
		SQLiteDBPath:      filepath.Join(t.TempDir(), "test.db"),
		BcryptCost:        10,
		RequestsPerMinute: 60,
		ShutdownTimeout:   30 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "missing database path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "bcrypt cost too low",
			mutate:      func(c *Config) { c.BcryptCost = 2 },
			wantErr:     true,
			errorString: "invalid bcrypt cost 2",
		},
		{
			name:        "bcrypt cost too high",
			mutate:      func(c *Config) { c.BcryptCost = 40 },
			wantErr:     true,
			errorString: "invalid bcrypt cost 40",
		},
		{
			name:        "requests per minute too low",
			mutate:      func(c *Config) { c.RequestsPerMinute = 0 },
			wantErr:     true,
			errorString: "invalid requests per minute 0",
		},
		{
			name:        "shutdown timeout too short",
			mutate:      func(c *Config) { c.ShutdownTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid shutdown timeout 100ms",
		},
		{
			name:        "shutdown timeout too long",
			mutate:      func(c *Config) { c.ShutdownTimeout = time.Hour },
			wantErr:     true,
			errorString: "invalid shutdown timeout 1h0m0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("expected error containing %q, got %q", tt.errorString, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "SQLITE_DB_PATH", "BCRYPT_COST", "REQUESTS_PER_MINUTE", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8081" {
		t.Errorf("default port expected 8081, got %s", cfg.Port)
	}
	if cfg.SQLiteDBPath == "" {
		t.Error("default SQLite path should not be empty")
	}
	if cfg.RequestsPerMinute != 60 {
		t.Errorf("default requests per minute expected 60, got %d", cfg.RequestsPerMinute)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("default shutdown timeout expected 30s, got %v", cfg.ShutdownTimeout)
	}
}
