package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ListenAddr != ":3000" {
		t.Errorf("ListenAddr = %v, want :3000", cfg.ListenAddr)
	}
	if cfg.BackendURL != "http://localhost:5000" {
		t.Errorf("BackendURL = %v, want http://localhost:5000", cfg.BackendURL)
	}
	if cfg.BackendTimeout != 0 {
		t.Errorf("BackendTimeout = %v, want 0", cfg.BackendTimeout)
	}
	if cfg.Storage != StorageSQLite {
		t.Errorf("Storage = %v, want %v", cfg.Storage, StorageSQLite)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v, want 30m", cfg.SessionTTL)
	}
	if cfg.MaxUploadMemory != 32<<20 {
		t.Errorf("MaxUploadMemory = %d, want %d", cfg.MaxUploadMemory, 32<<20)
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled should default to true")
	}

	wantNames := []string{"Cerael Donggay", "Andrew Donggay", "Aries Paye"}
	if strings.Join(cfg.Names, "|") != strings.Join(wantNames, "|") {
		t.Errorf("Names = %v, want %v", cfg.Names, wantNames)
	}
	if len(cfg.ProductTypes) != 3 || cfg.ProductTypes[0] != "Solar Roof Top" {
		t.Errorf("ProductTypes = %v", cfg.ProductTypes)
	}
	if len(cfg.RequestTypes) != 3 || cfg.RequestTypes[2] != "Request for Quotation" {
		t.Errorf("RequestTypes = %v", cfg.RequestTypes)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://procurement.example.com/base")
	t.Setenv("BACKEND_TIMEOUT", "15s")
	t.Setenv("STORAGE", "memory")
	t.Setenv("MAX_UPLOAD_MEMORY", "8 MB")
	t.Setenv("NAMES", " Ana , Ben ,, ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BackendTimeout != 15*time.Second {
		t.Errorf("BackendTimeout = %v, want 15s", cfg.BackendTimeout)
	}
	if cfg.Storage != StorageMemory {
		t.Errorf("Storage = %v, want memory", cfg.Storage)
	}
	if cfg.MaxUploadMemory != 8_000_000 {
		t.Errorf("MaxUploadMemory = %d, want 8000000", cfg.MaxUploadMemory)
	}
	if strings.Join(cfg.Names, "|") != "Ana|Ben" {
		t.Errorf("Names = %q, want [Ana Ben]", cfg.Names)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"STORAGE", "postgres", "STORAGE"},
		{"STORAGE_MAX_ROWS", "10", "STORAGE_MAX_ROWS"},
		{"BACKEND_URL", "localhost:5000", "BACKEND_URL"},
		{"BACKEND_URL", "ftp://example.com", "BACKEND_URL"},
		{"BACKEND_TIMEOUT", "-1s", "BACKEND_TIMEOUT"},
		{"LOG_LEVEL", "loud", "LOG_LEVEL"},
		{"MAX_SESSIONS", "0", "MAX_SESSIONS"},
		{"SESSION_TTL", "0s", "SESSION_TTL"},
		{"MAX_UPLOAD_MEMORY", "12", "MAX_UPLOAD_MEMORY"},
		{"NAMES", " , ", "NAMES"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatalf("Load() error = nil, want error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestParseSkipsValidation(t *testing.T) {
	t.Setenv("STORAGE_MAX_ROWS", "10")
	t.Setenv("SESSION_TTL", "0s")
	t.Setenv("BACKEND_URL", "http://backend.internal:5000")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.StorageMaxRows != 10 {
		t.Errorf("StorageMaxRows = %d, want 10", cfg.StorageMaxRows)
	}
	if err := cfg.ValidateClient(); err != nil {
		t.Errorf("ValidateClient() error = %v, want nil", err)
	}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "STORAGE_MAX_ROWS") {
		t.Errorf("Validate() error = %v, want STORAGE_MAX_ROWS", err)
	}
}

func TestValidateClient(t *testing.T) {
	base := Config{BackendURL: "http://localhost:5000", RequestIDHeader: "X-Request-ID", LogLevel: "info"}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"relative url", func(c *Config) { c.BackendURL = "localhost:5000" }, "BACKEND_URL"},
		{"negative timeout", func(c *Config) { c.BackendTimeout = -time.Second }, "BACKEND_TIMEOUT"},
		{"no header", func(c *Config) { c.RequestIDHeader = "" }, "REQUEST_ID_HEADER"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
		{"server settings ignored", func(c *Config) { c.SessionTTL = 0; c.MaxSessions = 0; c.Names = nil }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := c.ValidateClient()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateClient() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateClient() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("REQUEST_ID_HEADER=X-Correlation-ID\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("REQUEST_ID_HEADER") })

	if err := loadEnvFiles([]string{path, filepath.Join(dir, ".env.local")}); err != nil {
		t.Fatalf("loadEnvFiles error = %v", err)
	}
	if got := os.Getenv("REQUEST_ID_HEADER"); got != "X-Correlation-ID" {
		t.Errorf("REQUEST_ID_HEADER = %q, want X-Correlation-ID", got)
	}
}

func TestByteSizeString(t *testing.T) {
	if got := ByteSize(32 << 20).String(); got != "32 MiB" {
		t.Errorf("String() = %q, want 32 MiB", got)
	}
}
