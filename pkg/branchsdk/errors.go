package branchsdk

import (
	"errors"

	"github.com/sbitxtools/branchctl/internal/app/orchestrate"
	"github.com/sbitxtools/branchctl/internal/app/repolist"
	"github.com/sbitxtools/branchctl/internal/domain"
)

var (
	ErrRepoURLRequired      = errors.New("branchsdk: repository url required")
	ErrInvalidRepoURL       = errors.New("branchsdk: repository url is not a recognized github form")
	ErrBranchRequired       = errors.New("branchsdk: branch required")
	ErrRepoExists           = errors.New("branchsdk: repository already listed")
	ErrRepoNotFound         = errors.New("branchsdk: repository not listed")
	ErrDefaultRepoProtected = errors.New("branchsdk: default repository cannot be removed")
	ErrBusy                 = errors.New("branchsdk: another operation is in flight")
	ErrClosed               = errors.New("branchsdk: client is closed")
)

// translateError rewrites internal sentinels into the package's own,
// so callers outside the module can test them with errors.Is.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrRepoURLRequired):
		return ErrRepoURLRequired
	case errors.Is(err, domain.ErrInvalidRepoURL):
		return ErrInvalidRepoURL
	case errors.Is(err, domain.ErrBranchRequired):
		return ErrBranchRequired
	case errors.Is(err, repolist.ErrRepoExists):
		return ErrRepoExists
	case errors.Is(err, repolist.ErrRepoNotFound):
		return ErrRepoNotFound
	case errors.Is(err, repolist.ErrDefaultRepoProtected):
		return ErrDefaultRepoProtected
	case errors.Is(err, orchestrate.ErrRunInFlight):
		return ErrBusy
	case errors.Is(err, orchestrate.ErrRunnerClosed):
		return ErrClosed
	default:
		return err
	}
}
