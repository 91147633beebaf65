// Package repolist manages the saved repository list: adding,
// removing and listing entries, and adopting the URL a working tree
// already points at.
package repolist

import (
	"context"
	"log/slog"

	"github.com/sbitxtools/branchctl/internal/domain"
)

type Service struct {
	store  ConfigStore
	clock  Clock
	logger *slog.Logger
}

func NewService(store ConfigStore, clock Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, clock: clock, logger: logger}
}

// List returns the saved configuration with its repositories.
func (s *Service) List(ctx context.Context) (domain.Config, error) {
	return s.store.Load(ctx)
}

// Add normalizes raw and appends it to the list. Adding a URL that is
// already listed returns ErrRepoExists.
func (s *Service) Add(ctx context.Context, raw string) (domain.Repository, error) {
	repo, err := domain.NewRepository(raw, s.clock.Now())
	if err != nil {
		return domain.Repository{}, err
	}

	cfg, err := s.store.Load(ctx)
	if err != nil {
		return domain.Repository{}, err
	}
	if _, ok := cfg.FindRepository(repo.URL); ok {
		return domain.Repository{}, ErrRepoExists
	}

	cfg.Repositories = append(cfg.Repositories, repo)
	if err := s.store.Save(ctx, cfg); err != nil {
		return domain.Repository{}, err
	}
	return repo, nil
}

// Remove deletes the repository matching raw. Seeded defaults are
// protected and cannot be removed.
func (s *Service) Remove(ctx context.Context, raw string) error {
	url, err := domain.NormalizeURL(raw)
	if err != nil {
		return err
	}

	cfg, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if cfg.IsDefaultURL(url) {
		return ErrDefaultRepoProtected
	}
	if _, ok := cfg.FindRepository(url); !ok {
		return ErrRepoNotFound
	}

	kept := cfg.Repositories[:0:0]
	for _, repo := range cfg.Repositories {
		if repo.URL != url {
			kept = append(kept, repo)
		}
	}
	cfg.Repositories = kept
	return s.store.Save(ctx, cfg)
}

// Adopt ensures url is on the list, adding it silently when missing.
// It is used to pick up the origin an existing working tree already
// points at, so the list reflects reality.
func (s *Service) Adopt(ctx context.Context, url string) error {
	repo, err := domain.NewRepository(url, s.clock.Now())
	if err != nil {
		// An origin in a form we do not recognize is left alone.
		s.logger.Debug("skipping adoption of unrecognized origin", "url", url, "error", err)
		return nil
	}

	cfg, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if _, ok := cfg.FindRepository(repo.URL); ok {
		return nil
	}
	if cfg.IsDefaultURL(repo.URL) {
		return nil
	}

	s.logger.Info("adopting repository from working tree origin", "url", repo.URL)
	cfg.Repositories = append(cfg.Repositories, repo)
	return s.store.Save(ctx, cfg)
}
