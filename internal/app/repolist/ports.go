package repolist

import (
	"context"
	"time"

	"github.com/sbitxtools/branchctl/internal/domain"
)

// ConfigStore persists the repository list.
type ConfigStore interface {
	Load(ctx context.Context) (domain.Config, error)
	Save(ctx context.Context, cfg domain.Config) error
}

type Clock interface {
	Now() time.Time
}
