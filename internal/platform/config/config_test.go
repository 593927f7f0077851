package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/platform/config"
)

func TestNewUsesDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.New(config.Options{DataDir: dir})
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Currency.Rate != 16000 || cfg.Currency.Code != "IDR" {
		t.Fatalf("unexpected currency defaults: %+v", cfg.Currency)
	}
	if cfg.Storage.Driver != config.DriverSQLite {
		t.Fatalf("expected sqlite driver, got %s", cfg.Storage.Driver)
	}
	if cfg.DBPath != filepath.Join(dir, "storefront.db") {
		t.Fatalf("unexpected db path %s", cfg.DBPath)
	}
	if cfg.ReceiptsDir != filepath.Join(dir, "receipts") {
		t.Fatalf("unexpected receipts dir %s", cfg.ReceiptsDir)
	}
}

func TestNewReadsYAMLThenEnvThenOptions(t *testing.T) {
	dir := t.TempDir()
	raw := `profile: shop-a
storage:
  driver: file
catalog:
  base_url: http://localhost:9999
  timeout: 3s
  cache_ttl: 1m
currency:
  rate: 15000
receipts_dir: out
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STOREFRONT_CURRENCY_RATE", "15500")

	cfg, err := config.New(config.Options{DataDir: dir, Profile: "shop-b"})
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Profile != "shop-b" {
		t.Fatalf("expected flag profile to win, got %s", cfg.Profile)
	}
	if cfg.Storage.Driver != config.DriverFile {
		t.Fatalf("expected file driver from yaml, got %s", cfg.Storage.Driver)
	}
	if cfg.Catalog.BaseURL != "http://localhost:9999" || cfg.Catalog.Timeout != 3*time.Second || cfg.Catalog.CacheTTL != time.Minute {
		t.Fatalf("unexpected catalog config: %+v", cfg.Catalog)
	}
	if cfg.Currency.Rate != 15500 {
		t.Fatalf("expected env rate override, got %v", cfg.Currency.Rate)
	}
	if cfg.ReceiptsDir != filepath.Join(dir, "out") {
		t.Fatalf("expected receipts dir under data dir, got %s", cfg.ReceiptsDir)
	}
}

func TestNewEphemeralForcesMemoryDriver(t *testing.T) {
	cfg, err := config.New(config.Options{DataDir: t.TempDir(), Ephemeral: true})
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Storage.Driver != config.DriverMemory {
		t.Fatalf("expected memory driver, got %s", cfg.Storage.Driver)
	}
}

func TestNewRejectsUnknownFieldsAndBadValues(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("unknown_field: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.New(config.Options{DataDir: dir}); err == nil {
		t.Fatalf("expected unknown field error")
	}

	if _, err := config.New(config.Options{DataDir: t.TempDir(), Driver: "redis"}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}

	t.Setenv("STOREFRONT_CURRENCY_RATE", "0")
	if _, err := config.New(config.Options{DataDir: t.TempDir()}); err == nil {
		t.Fatalf("expected non-positive rate error")
	}
}

func TestNewFailsWhenExplicitConfigMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := config.New(config.Options{DataDir: dir, ConfigPath: filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Fatalf("expected missing explicit config error")
	}
}
