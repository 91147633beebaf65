package configstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sbitxtools/branchctl/internal/domain"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repositories.json")
	store, err := New(path, fixedClock{now: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, path
}

func TestLoadCreatesDefaults(t *testing.T) {
	store, path := newTestStore(t)

	cfg, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsDefaultURL(domain.DefaultRepoURL) {
		t.Fatalf("default url missing from fresh config")
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("default config was not written: %v", statErr)
	}
}

func TestSaveIsIdempotentAndCanonical(t *testing.T) {
	store, path := newTestStore(t)
	cfg, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := store.Save(context.Background(), cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if err := store.Save(context.Background(), cfg); err != nil {
		t.Fatalf("save again: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Fatalf("repeated saves are not byte-identical")
	}
}

func TestLoadCorruptFileBacksUpAndRestoresDefaults(t *testing.T) {
	store, path := newTestStore(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	cfg, err := store.Load(context.Background())
	if !errors.Is(err, ErrCorruptConfig) {
		t.Fatalf("expected ErrCorruptConfig, got %v", err)
	}
	if !cfg.IsDefaultURL(domain.DefaultRepoURL) {
		t.Fatalf("defaults not restored after corruption")
	}

	backup, readErr := os.ReadFile(path + backupSuffix)
	if readErr != nil {
		t.Fatalf("backup not written: %v", readErr)
	}
	if string(backup) != "{not json" {
		t.Fatalf("backup does not preserve original content")
	}
}

func TestLoadRejectsSchemaViolation(t *testing.T) {
	store, path := newTestStore(t)
	if err := os.WriteFile(path, []byte(`{"repositories": "nope"}`), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err := store.Load(context.Background())
	if !errors.Is(err, ErrCorruptConfig) {
		t.Fatalf("expected ErrCorruptConfig for schema violation, got %v", err)
	}
}

func TestSetLastUsedPreservesUnknownKeys(t *testing.T) {
	store, path := newTestStore(t)
	payload := `{"repositories":[],"default_repositories":[],"future_key":{"kept":true},"last_used_repo":"","last_used_branch":""}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := store.SetLastUsed(context.Background(), "https://github.com/octo/cat.git", "dev"); err != nil {
		t.Fatalf("set last used: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Contains(raw, []byte(`"future_key"`)) {
		t.Fatalf("unknown key dropped by last-used update: %s", raw)
	}
	if !bytes.Contains(raw, []byte(`"last_used_branch":"dev"`)) {
		t.Fatalf("branch not recorded: %s", raw)
	}

	cfg, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load after update: %v", err)
	}
	if cfg.LastUsedURL != "https://github.com/octo/cat.git" || cfg.LastUsedBranch != "dev" {
		t.Fatalf("last used not round-tripped: %+v", cfg)
	}
}

func TestSetLastUsedCreatesFileWhenMissing(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.SetLastUsed(context.Background(), "https://github.com/octo/cat.git", "main"); err != nil {
		t.Fatalf("set last used: %v", err)
	}

	cfg, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LastUsedBranch != "main" {
		t.Fatalf("expected branch main, got %q", cfg.LastUsedBranch)
	}
}
