package cmd

import (
	"context"
	"flag"
	"testing"
)

type testConfig struct {
	StoragePath string `env:"CMD_TEST_STORAGE_PATH" envDefault:"economy.db"`
	Interval    string `env:"CMD_TEST_INTERVAL" envDefault:"1h"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_STORAGE_PATH", "env.db")
	t.Setenv("CMD_TEST_INTERVAL", "30m")

	cfg := testConfig{}
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.StringVar(&cfg.StoragePath, "storage-path", cfg.StoragePath, "storage path")
	fs.StringVar(&cfg.Interval, "interval", cfg.Interval, "interval")

	if err := ParseArgs(fs, []string{"-storage-path", "flag.db"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfg.StoragePath != "flag.db" {
		t.Fatalf("expected flag value for storage path, got %q", cfg.StoragePath)
	}
	if cfg.Interval != "30m" {
		t.Fatalf("expected env default interval, got %q", cfg.Interval)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	t.Parallel()

	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("expected error for nil config target")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	t.Parallel()

	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected error for nil flag parser")
	}
}

func TestRunWithTelemetryRequiresService(t *testing.T) {
	t.Parallel()

	err := RunWithTelemetry(context.Background(), "  ", func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error for empty service name")
	}
}

func TestRunWithTelemetryExecutesRun(t *testing.T) {
	t.Setenv("RAVENMOOR_OTEL_ENDPOINT", "")

	ran := false
	err := RunWithTelemetry(context.Background(), ServiceEconomy, func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("run with telemetry: %v", err)
	}
	if !ran {
		t.Fatal("expected run function to execute")
	}
}
