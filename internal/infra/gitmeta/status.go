// Package gitmeta reads checkout status from local git metadata using
// go-git. No subprocess and no network: status display stays cheap and
// safe to call while a run is mutating the target (the intermediate
// states it may observe are tolerated, not guarded).
package gitmeta

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/sbitxtools/branchctl/internal/domain"
)

type Source struct{}

func NewSource() *Source {
	return &Source{}
}

// CurrentStatus projects (repository URL, branch) from the target's
// metadata. A target that is not a working tree yields an unknown
// status with no error; only unexpected read failures are reported.
func (s *Source) CurrentStatus(ctx context.Context, path string) (domain.CheckoutStatus, error) {
	if err := ctx.Err(); err != nil {
		return domain.CheckoutStatus{}, err
	}

	repo, err := git.PlainOpen(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return domain.CheckoutStatus{}, nil
		}
		return domain.CheckoutStatus{}, fmt.Errorf("open git repo: %w", err)
	}

	status := domain.CheckoutStatus{Known: true, Branch: "HEAD"}

	ref, err := repo.Head()
	if err == nil {
		if ref.Name().IsBranch() {
			status.Branch = ref.Name().Short()
		}
	} else if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return domain.CheckoutStatus{}, fmt.Errorf("read HEAD: %w", err)
	}

	cfg, err := repo.Config()
	if err != nil {
		return domain.CheckoutStatus{}, fmt.Errorf("read git config: %w", err)
	}
	if origin, ok := cfg.Remotes["origin"]; ok && len(origin.URLs) > 0 {
		status.RepoURL = origin.URLs[0]
		if normalized, err := domain.NormalizeURL(origin.URLs[0]); err == nil {
			status.RepoURL = normalized
		}
	}

	return status, nil
}
