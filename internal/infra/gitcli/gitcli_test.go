package gitcli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sbitxtools/branchctl/internal/domain"
)

func TestParseBranchRefs(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{
			name:   "sorted regardless of input order",
			output: "abc123\trefs/heads/main\ndef456\trefs/heads/dev",
			want:   []string{"dev", "main"},
		},
		{
			name:   "non-head refs ignored",
			output: "abc\trefs/heads/main\ndef\trefs/tags/v1.0\nghi\trefs/pull/1/head",
			want:   []string{"main"},
		},
		{
			name:   "empty output yields empty list",
			output: "",
			want:   []string{},
		},
		{
			name:   "duplicates preserved",
			output: "abc\trefs/heads/dev\nabc\trefs/heads/dev",
			want:   []string{"dev", "dev"},
		},
		{
			name:   "malformed lines skipped",
			output: "no-tab-here\nabc\trefs/heads/main",
			want:   []string{"main"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseBranchRefs(tt.output)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestProbeAbsent(t *testing.T) {
	g := newTestGit(t)
	state, err := g.Probe(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != domain.DirAbsent {
		t.Fatalf("expected %s, got %s", domain.DirAbsent, state)
	}
}

func TestProbeForeign(t *testing.T) {
	requireGit(t)
	g := newTestGit(t)
	state, err := g.Probe(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != domain.DirForeign {
		t.Fatalf("expected %s, got %s", domain.DirForeign, state)
	}
}

func TestProbeWorkTree(t *testing.T) {
	requireGit(t)
	g := newTestGit(t)
	dir := initRepo(t)
	state, err := g.Probe(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != domain.DirVersionControlled {
		t.Fatalf("expected %s, got %s", domain.DirVersionControlled, state)
	}
}

func TestListRemoteBranchesSorted(t *testing.T) {
	requireGit(t)
	g := newTestGit(t)
	origin := initRepo(t)

	branches, err := g.ListRemoteBranches(context.Background(), origin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"dev", "main"}
	if !reflect.DeepEqual(branches, want) {
		t.Fatalf("expected %v, got %v", want, branches)
	}
}

func TestListRemoteBranchesBadRemote(t *testing.T) {
	requireGit(t)
	g := newTestGit(t)

	_, err := g.ListRemoteBranches(context.Background(), filepath.Join(t.TempDir(), "nope"))
	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
}

func TestCloneCheckoutSubmodules(t *testing.T) {
	requireGit(t)
	g := newTestGit(t)
	origin := initRepo(t)
	target := filepath.Join(t.TempDir(), "checkout")

	outcome, err := g.Clone(context.Background(), origin, target)
	if err != nil {
		t.Fatalf("clone returned error: %v", err)
	}
	if !outcome.Succeeded {
		t.Fatalf("clone did not succeed: %+v", outcome)
	}

	outcome, err = g.Checkout(context.Background(), "dev", target)
	if err != nil {
		t.Fatalf("checkout returned error: %v", err)
	}
	if !outcome.Succeeded {
		t.Fatalf("checkout did not succeed: %+v", outcome)
	}

	outcome, err = g.SyncSubmodules(context.Background(), target)
	if err != nil {
		t.Fatalf("submodule sync returned error: %v", err)
	}
	if !outcome.Succeeded {
		t.Fatalf("submodule sync did not succeed: %+v", outcome)
	}
}

func TestCheckoutMissingBranch(t *testing.T) {
	requireGit(t)
	g := newTestGit(t)
	origin := initRepo(t)
	target := filepath.Join(t.TempDir(), "checkout")

	if _, err := g.Clone(context.Background(), origin, target); err != nil {
		t.Fatalf("clone returned error: %v", err)
	}

	_, err := g.Checkout(context.Background(), "does-not-exist", target)
	var checkoutErr *CheckoutError
	if !errors.As(err, &checkoutErr) {
		t.Fatalf("expected CheckoutError, got %v", err)
	}
	if checkoutErr.Branch != "does-not-exist" {
		t.Fatalf("unexpected branch in error: %q", checkoutErr.Branch)
	}
}

func TestRewireRemote(t *testing.T) {
	requireGit(t)
	g := newTestGit(t)
	origin := initRepo(t)
	target := filepath.Join(t.TempDir(), "checkout")

	if _, err := g.Clone(context.Background(), origin, target); err != nil {
		t.Fatalf("clone returned error: %v", err)
	}

	second := initRepo(t)
	outcome, err := g.RewireRemote(context.Background(), second, target)
	if err != nil {
		t.Fatalf("rewire returned error: %v", err)
	}
	if !outcome.Succeeded {
		t.Fatalf("rewire did not succeed: %+v", outcome)
	}
}

func newTestGit(t *testing.T) *Git {
	t.Helper()
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gitIn(t, dir, "init", "-b", "main")
	gitIn(t, dir, "config", "user.email", "tester@example.com")
	gitIn(t, dir, "config", "user.name", "Tester")
	gitIn(t, dir, "config", "commit.gpgsign", "false")
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("sbitx\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	gitIn(t, dir, "add", "README")
	gitIn(t, dir, "commit", "-m", "initial")
	gitIn(t, dir, "branch", "dev")
	return dir
}

func gitIn(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}
