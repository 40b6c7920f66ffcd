package services_test

import (
	"errors"
	"strings"
	"testing"

	"contactsheet/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("disk full")
	err := services.Wrap(services.ErrTransient, "organize", "copy photo", "failed to copy into output tree", base)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{"organize", "copy photo", "disk full"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected default transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected generic detail, got %q", err.Error())
	}
}

func TestWrapValidationClassification(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "contacts", "parse vcf", "no contacts found", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if errors.Is(err, services.ErrConfiguration) {
		t.Fatal("unexpected configuration classification")
	}
}
