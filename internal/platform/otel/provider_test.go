package otel_test

import (
	"context"
	"testing"

	"github.com/ravenmoor/ravenmoor/internal/platform/otel"
)

func TestSetupNoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("RAVENMOOR_OTEL_ENDPOINT", "")
	t.Setenv("RAVENMOOR_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "economy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupNoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("RAVENMOOR_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("RAVENMOOR_OTEL_ENABLED", "false")

	shutdown, err := otel.Setup(context.Background(), "economy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupCreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so no actual export happens.
	t.Setenv("RAVENMOOR_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("RAVENMOOR_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "economy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
