package orchestrate

import (
	"context"
	"time"

	"github.com/sbitxtools/branchctl/internal/domain"
)

// Prober classifies the target directory. The error is non-nil only
// when the classification itself could not be made (version-control
// tool missing or probe timeout); callers treat that as a
// configuration problem, not as a directory state.
type Prober interface {
	Probe(ctx context.Context, path string) (domain.DirectoryState, error)
}

// Remote covers the remote-touching version-control operations.
type Remote interface {
	Clone(ctx context.Context, url, path string) (domain.Outcome, error)
	RewireRemote(ctx context.Context, url, path string) (domain.Outcome, error)
	SyncSubmodules(ctx context.Context, path string) (domain.Outcome, error)
}

// BranchLister lists remote branch names, sorted lexicographically.
type BranchLister interface {
	ListRemoteBranches(ctx context.Context, url string) ([]string, error)
}

// Switcher creates or force-resets a local branch to its
// remote-tracking reference.
type Switcher interface {
	Checkout(ctx context.Context, branch, path string) (domain.Outcome, error)
}

// Builder invokes the build entry point. CheckPrerequisites failures
// are configuration errors; Build errors are invocation failures; a
// build that ran and exited non-zero is a normal failed Outcome.
type Builder interface {
	CheckPrerequisites(path string) error
	Build(ctx context.Context, path string) (domain.Outcome, error)
	Clean(ctx context.Context, path string) (domain.Outcome, error)
}

// StatusSource projects the current (repository, branch) of the
// target from its local metadata.
type StatusSource interface {
	CurrentStatus(ctx context.Context, path string) (domain.CheckoutStatus, error)
}

// LastUsedRecorder persists the selection of a successful run.
type LastUsedRecorder interface {
	SetLastUsed(ctx context.Context, url, branch string) error
}

// History stores finished run records.
type History interface {
	Append(ctx context.Context, rec RunRecord) error
}

// IDSource issues run identifiers.
type IDSource interface {
	NewID() (string, error)
}

type Clock interface {
	Now() time.Time
}

// RunRecord is the persisted trace of one finished run.
type RunRecord struct {
	ID         string
	RepoURL    string
	Branch     string
	State      domain.RunState
	Failure    domain.FailureKind
	Message    string
	StartedAt  time.Time
	FinishedAt time.Time
}
