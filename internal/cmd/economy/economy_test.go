package economy

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("economy", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.StoragePath != "data/economy.db" {
		t.Fatalf("expected default db path, got %q", cfg.StoragePath)
	}
	if cfg.CatalogPath != "data/catalog.yaml" {
		t.Fatalf("expected default catalog path, got %q", cfg.CatalogPath)
	}
	if cfg.SweepInterval != time.Hour {
		t.Fatalf("expected default sweep interval 1h, got %v", cfg.SweepInterval)
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("RAVENMOOR_ECONOMY_DB", "/tmp/economy.db")
	t.Setenv("RAVENMOOR_ECONOMY_SWEEP_INTERVAL", "15m")

	fs := flag.NewFlagSet("economy", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.StoragePath != "/tmp/economy.db" {
		t.Fatalf("expected env db path, got %q", cfg.StoragePath)
	}
	if cfg.SweepInterval != 15*time.Minute {
		t.Fatalf("expected env sweep interval 15m, got %v", cfg.SweepInterval)
	}
}

func TestParseConfigFlagOverrides(t *testing.T) {
	t.Setenv("RAVENMOOR_ECONOMY_CATALOG", "/tmp/env-catalog.yaml")

	fs := flag.NewFlagSet("economy", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-catalog", "/tmp/flag-catalog.yaml", "-sweep-interval", "30s"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.CatalogPath != "/tmp/flag-catalog.yaml" {
		t.Fatalf("expected flag catalog path, got %q", cfg.CatalogPath)
	}
	if cfg.SweepInterval != 30*time.Second {
		t.Fatalf("expected flag sweep interval 30s, got %v", cfg.SweepInterval)
	}
}
