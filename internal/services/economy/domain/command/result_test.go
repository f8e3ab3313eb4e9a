package command

import (
	"strings"
	"testing"
)

func TestOK(t *testing.T) {
	t.Parallel()

	result := OK()
	if !result.Success {
		t.Fatal("expected success")
	}
	if result.ErrorMessage != "" {
		t.Fatalf("expected empty error message, got %q", result.ErrorMessage)
	}
}

func TestFailf(t *testing.T) {
	t.Parallel()

	result := Failf("coinhouse account %s could not be found", "acct-1")
	if result.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.ErrorMessage, "could not be found") {
		t.Fatalf("unexpected error message %q", result.ErrorMessage)
	}
}
