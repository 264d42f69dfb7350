package cmd

import (
	"strings"
	"testing"
)

func TestConfirmForceSkipsPrompt(t *testing.T) {
	if err := confirm("delete accounts/1", true); err != nil {
		t.Fatalf("confirm() with force = %v, want nil", err)
	}
}

func TestConfirmRefusesWithoutTerminal(t *testing.T) {
	// Under go test stdin is not a terminal, so the prompt must refuse
	// rather than block waiting for input.
	err := confirm("delete accounts/1", false)
	if err == nil {
		t.Fatal("confirm() = nil, want an error when stdin is not a terminal")
	}
	if !strings.Contains(err.Error(), "delete accounts/1") {
		t.Errorf("error should name the action, got %v", err)
	}
	if !strings.Contains(err.Error(), "--force") {
		t.Errorf("error should point at --force, got %v", err)
	}
}
