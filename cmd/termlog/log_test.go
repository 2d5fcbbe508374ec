package main

import (
	"errors"
	"testing"

	"github.com/termlog/termlog/internal/core"
)

// ============================================================================
// Park credit assignment
// ============================================================================

func TestResolveMyPark_DefaultsToPrimary(t *testing.T) {
	parks := []string{"US-1211", "US-0040"}

	got, err := resolveMyPark(parks, "")
	if err != nil {
		t.Fatalf("resolveMyPark() error = %v", err)
	}
	if got != "US-1211" {
		t.Errorf("resolveMyPark() = %q, want primary park US-1211", got)
	}
}

func TestResolveMyPark_SelectsSecondaryPark(t *testing.T) {
	parks := []string{"US-1211", "US-0040"}

	got, err := resolveMyPark(parks, "us-0040") // lowercase on purpose
	if err != nil {
		t.Fatalf("resolveMyPark() error = %v", err)
	}
	if got != "US-0040" {
		t.Errorf("resolveMyPark() = %q, want US-0040", got)
	}
}

func TestResolveMyPark_RejectsUnknownPark(t *testing.T) {
	parks := []string{"US-1211"}

	_, err := resolveMyPark(parks, "US-9999")
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("resolveMyPark() error = %v, want ErrInvalidInput", err)
	}
}
