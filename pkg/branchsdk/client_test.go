package branchsdk

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/sbitxtools/branchctl/internal/domain"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dir := t.TempDir()
	client, err := New(Config{
		TargetPath:  filepath.Join(dir, "sbitx"),
		ConfigPath:  filepath.Join(dir, "repositories.json"),
		HistoryPath: filepath.Join(dir, "runs.db"),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRepositoriesSeedsDefault(t *testing.T) {
	client := newTestClient(t)

	repos, err := client.Repositories(context.Background())
	if err != nil {
		t.Fatalf("repositories: %v", err)
	}
	if len(repos) != 1 || repos[0].URL != domain.DefaultRepoURL || !repos[0].Default {
		t.Fatalf("expected seeded default repository, got %+v", repos)
	}
}

func TestAddRemoveRepository(t *testing.T) {
	client := newTestClient(t)

	repo, err := client.AddRepository(context.Background(), "octo/cat")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if repo.URL != "https://github.com/octo/cat.git" {
		t.Fatalf("url not normalized: %q", repo.URL)
	}

	if _, err := client.AddRepository(context.Background(), "octo/cat"); !errors.Is(err, ErrRepoExists) {
		t.Fatalf("expected ErrRepoExists, got %v", err)
	}

	if err := client.RemoveRepository(context.Background(), "octo/cat"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := client.RemoveRepository(context.Background(), "octo/cat"); !errors.Is(err, ErrRepoNotFound) {
		t.Fatalf("expected ErrRepoNotFound, got %v", err)
	}
	if err := client.RemoveRepository(context.Background(), domain.DefaultRepoURL); !errors.Is(err, ErrDefaultRepoProtected) {
		t.Fatalf("expected ErrDefaultRepoProtected, got %v", err)
	}
}

func TestStartRunRejectsBadInputSynchronously(t *testing.T) {
	client := newTestClient(t)

	if err := client.StartRun(context.Background(), RunRequest{RepoURL: "not a url", Branch: "main"}); !errors.Is(err, ErrInvalidRepoURL) {
		t.Fatalf("expected ErrInvalidRepoURL, got %v", err)
	}
	if err := client.StartRun(context.Background(), RunRequest{RepoURL: "octo/cat"}); !errors.Is(err, ErrBranchRequired) {
		t.Fatalf("expected ErrBranchRequired, got %v", err)
	}
	if client.Busy() {
		t.Fatalf("rejected requests must not occupy the worker")
	}
}

func TestLastUsedStartsEmpty(t *testing.T) {
	client := newTestClient(t)

	url, branch, err := client.LastUsed(context.Background())
	if err != nil {
		t.Fatalf("last used: %v", err)
	}
	if url != "" || branch != "" {
		t.Fatalf("expected empty last-used, got %q @ %q", url, branch)
	}
}

func TestCloseClosesEventChannel(t *testing.T) {
	client := newTestClient(t)

	done := make(chan struct{})
	go func() {
		for range client.Events() {
		}
		close(done)
	}()

	if err := client.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("event channel never closed")
	}

	if err := client.StartRun(context.Background(), RunRequest{RepoURL: "octo/cat", Branch: "main"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
