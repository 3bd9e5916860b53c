package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Server.GRPCAddr != ":8080" || cfg.Session.ContactSource != "register" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.yaml")
	yml := `
server:
  grpc_addr: ":7000"
session:
  idle_ttl: 5m
  register_backend: sqlite
schema:
  sheet_name: Ventas
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GRPC_ADDR", ":7001")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.GRPCAddr != ":7001" {
		t.Fatalf("env should win: got=%q", cfg.Server.GRPCAddr)
	}
	if cfg.Session.IdleTTL != 5*time.Minute {
		t.Fatalf("idle ttl: got=%v want=5m", cfg.Session.IdleTTL)
	}
	if cfg.Session.RegisterBackend != "sqlite" || cfg.Schema.SheetName != "Ventas" || cfg.Log.Level != "debug" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Server.MetricsAddr != ":9090" {
		t.Fatalf("unset keys keep defaults: got=%q", cfg.Server.MetricsAddr)
	}
}

func TestLoadConfig_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.ContactSource = "crm"
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Session.RegisterBackend = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown register backend")
	}

	cfg = DefaultConfig()
	cfg.Log.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}
