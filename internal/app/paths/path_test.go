package paths

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNormalizeTargetPathDefaultsWhenEmpty(t *testing.T) {
	got, err := NormalizeTargetPath("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != DefaultTarget {
		t.Fatalf("expected %q, got %q", DefaultTarget, got)
	}
}

func TestNormalizeTargetPathResolvesRelative(t *testing.T) {
	got, err := NormalizeTargetPath("work/sbitx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err := filepath.Abs("work/sbitx")
	if err != nil {
		t.Fatalf("failed to build abs path: %v", err)
	}
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRequireTargetPath(t *testing.T) {
	if _, err := RequireTargetPath(""); !errors.Is(err, ErrTargetPathRequired) {
		t.Fatalf("expected ErrTargetPathRequired, got %v", err)
	}
}
