package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sbitxtools/branchctl/internal/domain"
	"github.com/sbitxtools/branchctl/internal/infra/ident"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndList(t *testing.T) {
	store := openTestStore(t)
	gen := ident.NewULIDGenerator()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, branch := range []string{"main", "dev"} {
		id, err := gen.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		rec := Record{
			ID:         id,
			RepoURL:    "https://github.com/octo/cat.git",
			Branch:     branch,
			State:      domain.RunSucceeded,
			Failure:    domain.FailNone,
			Message:    "build completed",
			StartedAt:  started.Add(time.Duration(i) * time.Minute),
			FinishedAt: started.Add(time.Duration(i)*time.Minute + 30*time.Second),
		}
		if err := store.Append(context.Background(), rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	records, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// ULIDs sort chronologically, newest first in the listing.
	if records[0].Branch != "dev" || records[1].Branch != "main" {
		t.Fatalf("unexpected order: %q, %q", records[0].Branch, records[1].Branch)
	}
	if !records[0].StartedAt.Equal(started.Add(time.Minute)) {
		t.Fatalf("timestamps not round-tripped: %v", records[0].StartedAt)
	}
}

func TestListLimit(t *testing.T) {
	store := openTestStore(t)
	gen := ident.NewULIDGenerator()

	for range 5 {
		id, err := gen.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		rec := Record{
			ID:         id,
			RepoURL:    "https://github.com/octo/cat.git",
			Branch:     "main",
			State:      domain.RunFailed,
			Failure:    domain.FailGit,
			Message:    "fetch failed",
			StartedAt:  time.Now(),
			FinishedAt: time.Now(),
		}
		if err := store.Append(context.Background(), rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	records, err := store.List(context.Background(), 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}

func TestAppendRequiresID(t *testing.T) {
	store := openTestStore(t)
	if err := store.Append(context.Background(), Record{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}
