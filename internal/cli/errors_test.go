package cli

import (
	"errors"
	"testing"

	"github.com/sbitxtools/branchctl/internal/app/orchestrate"
	"github.com/sbitxtools/branchctl/internal/app/paths"
	"github.com/sbitxtools/branchctl/internal/app/repolist"
	"github.com/sbitxtools/branchctl/internal/domain"
	"github.com/sbitxtools/branchctl/internal/infra/buildcli"
	"github.com/sbitxtools/branchctl/internal/infra/gitcli"
)

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantKind ErrorKind
	}{
		{err: domain.ErrRepoURLRequired, wantCode: ExitInvalid, wantKind: KindValidation},
		{err: domain.ErrInvalidRepoURL, wantCode: ExitInvalid, wantKind: KindValidation},
		{err: domain.ErrBranchRequired, wantCode: ExitInvalid, wantKind: KindValidation},
		{err: paths.ErrTargetPathRequired, wantCode: ExitInvalid, wantKind: KindValidation},
		{err: gitcli.ErrGitUnavailable, wantCode: ExitInvalid, wantKind: KindValidation},
		{err: buildcli.ErrEntryPointMissing, wantCode: ExitInvalid, wantKind: KindValidation},
		{err: repolist.ErrRepoNotFound, wantCode: ExitNotFound, wantKind: KindNotFound},
		{err: repolist.ErrRepoExists, wantCode: ExitConflict, wantKind: KindConflict},
		{err: repolist.ErrDefaultRepoProtected, wantCode: ExitConflict, wantKind: KindConflict},
		{err: orchestrate.ErrRunInFlight, wantCode: ExitConflict, wantKind: KindConflict},
		{err: &gitcli.RemoteError{Op: "fetch", Target: "/tmp/sbitx"}, wantCode: ExitGit, wantKind: KindGit},
		{err: &gitcli.CheckoutError{Branch: "dev", Target: "/tmp/sbitx"}, wantCode: ExitGit, wantKind: KindGit},
		{err: &buildcli.InvokeError{Target: "/tmp/sbitx", Timeout: true}, wantCode: ExitBuild, wantKind: KindBuild},
		{err: errors.New("boom"), wantCode: ExitInternal, wantKind: KindInternal},
	}

	for _, tt := range tests {
		got := NormalizeError(tt.err)
		if got.Code != tt.wantCode {
			t.Fatalf("expected code %d, got %d for %v", tt.wantCode, got.Code, tt.err)
		}
		if got.Kind != tt.wantKind {
			t.Fatalf("expected kind %s, got %s for %v", tt.wantKind, got.Kind, tt.err)
		}
	}
}

func TestRunExitError(t *testing.T) {
	tests := []struct {
		failure  domain.FailureKind
		wantCode int
		wantKind ErrorKind
	}{
		{failure: domain.FailConfiguration, wantCode: ExitInvalid, wantKind: KindValidation},
		{failure: domain.FailGit, wantCode: ExitGit, wantKind: KindGit},
		{failure: domain.FailBuildRan, wantCode: ExitBuild, wantKind: KindBuild},
		{failure: domain.FailBuildInvoke, wantCode: ExitBuild, wantKind: KindBuild},
		{failure: domain.FailUnexpected, wantCode: ExitInternal, wantKind: KindInternal},
	}

	for _, tt := range tests {
		got := runExitError(orchestrate.Result{State: domain.RunFailed, Failure: tt.failure, Message: "failed"})
		if got.Code != tt.wantCode || got.Kind != tt.wantKind {
			t.Fatalf("failure %s: expected %d/%s, got %d/%s", tt.failure, tt.wantCode, tt.wantKind, got.Code, got.Kind)
		}
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Fatalf("expected ExitCode(nil) == 0")
	}

	custom := ExitError{Code: 9, Kind: KindInternal, Message: "custom"}
	if ExitCode(custom) != 9 {
		t.Fatalf("expected ExitCode(custom) == 9")
	}
}
