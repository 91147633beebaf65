// Package branches lists the branch names a remote repository
// advertises.
package branches

import (
	"context"

	"github.com/sbitxtools/branchctl/internal/domain"
)

// Lister queries a remote for its branch heads.
type Lister interface {
	ListRemoteBranches(ctx context.Context, url string) ([]string, error)
}

type Service struct {
	lister Lister
}

func NewService(lister Lister) *Service {
	return &Service{lister: lister}
}

// List normalizes raw and returns the remote's branch names, sorted
// lexicographically. An empty result is a valid answer, not an error.
func (s *Service) List(ctx context.Context, raw string) ([]string, error) {
	url, err := domain.NormalizeURL(raw)
	if err != nil {
		return nil, err
	}
	return s.lister.ListRemoteBranches(ctx, url)
}
