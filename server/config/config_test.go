package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultConfig(t *testing.T) {
	cfg := LoadDefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Catalog.Store != "memory" {
		t.Errorf("expected default store 'memory', got %q", cfg.Catalog.Store)
	}
	if cfg.GetStoreTable() != DefaultStoreTable {
		t.Errorf("expected default store table %q, got %q", DefaultStoreTable, cfg.GetStoreTable())
	}
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glacier.yml")

	cfg := LoadDefaultConfig()
	cfg.Catalog.Name = "prod"
	cfg.Catalog.Store = "dynamodb"
	cfg.Catalog.TableName = "catalog_records"
	cfg.Catalog.Warehouse = "s3://bucket/warehouse"
	cfg.Catalog.AWS.Region = "eu-central-1"
	cfg.Catalog.AWS.Endpoint = "http://localhost:8000"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loaded.Catalog.Name != "prod" {
		t.Errorf("expected catalog name 'prod', got %q", loaded.Catalog.Name)
	}
	if loaded.Catalog.Store != "dynamodb" {
		t.Errorf("expected store 'dynamodb', got %q", loaded.Catalog.Store)
	}
	if loaded.Catalog.AWS.Region != "eu-central-1" {
		t.Errorf("expected region 'eu-central-1', got %q", loaded.Catalog.AWS.Region)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateRejectsUnknownStore(t *testing.T) {
	cfg := LoadDefaultConfig()
	cfg.Catalog.Store = "etcd"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown store")
	}
}

func TestValidateRequiresName(t *testing.T) {
	cfg := LoadDefaultConfig()
	cfg.Catalog.Name = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for empty catalog name")
	}
}

func TestGetStoreTableFallback(t *testing.T) {
	cfg := LoadDefaultConfig()
	cfg.Catalog.TableName = ""

	if got := cfg.GetStoreTable(); got != DefaultStoreTable {
		t.Errorf("expected fallback to %q, got %q", DefaultStoreTable, got)
	}
}

func TestSetupLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := LoadDefaultConfig()
	cfg.Log.Console = false
	cfg.Log.FilePath = filepath.Join(dir, "glacier.log")

	logger, err := SetupLogger(cfg)
	if err != nil {
		t.Fatalf("failed to setup logger: %v", err)
	}

	logger.Info().Msg("hello")

	data, err := os.ReadFile(cfg.Log.FilePath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log output in file")
	}
}
