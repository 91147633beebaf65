// Package configstore persists the repository list and settings as a
// JSON file. Saves are idempotent full overwrites in canonical
// (sorted-key) form so repeated saves of the same state are
// byte-identical; last-used updates go through a JSON merge patch so
// keys written by other versions of the tool survive.
package configstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sbitxtools/branchctl/internal/domain"
	"github.com/sbitxtools/branchctl/internal/platform"
)

// ErrCorruptConfig reports that the stored file could not be parsed or
// failed schema validation. The file is preserved under a ".backup"
// suffix and defaults are restored; the caller can keep going.
var ErrCorruptConfig = errors.New("config file is corrupted")

const backupSuffix = ".backup"

type Store struct {
	path   string
	clock  platform.Clock
	logger *slog.Logger
	schema *jsonschema.Schema
}

func New(path string, clock platform.Clock, logger *slog.Logger) (*Store, error) {
	if clock == nil {
		clock = platform.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	compiled, err := jsonschema.CompileString("config.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}
	return &Store{path: path, clock: clock, logger: logger, schema: compiled}, nil
}

// Load reads the config file, creating a default one when absent. On
// corruption the broken file is renamed to "<name>.backup", defaults
// are written, and the default config is returned together with an
// error wrapping ErrCorruptConfig.
func (s *Store) Load(ctx context.Context) (domain.Config, error) {
	if err := ctx.Err(); err != nil {
		return domain.Config{}, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.createDefault(ctx)
		}
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := s.decode(raw)
	if err != nil {
		return s.recoverCorrupt(ctx, err)
	}

	// Older files may predate the default_repositories key.
	if len(cfg.DefaultURLs) == 0 {
		cfg.DefaultURLs = []string{domain.DefaultRepoURL}
		if err := s.Save(ctx, cfg); err != nil {
			return domain.Config{}, err
		}
	}

	return cfg, nil
}

func (s *Store) decode(raw []byte) (domain.Config, error) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return domain.Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := s.schema.Validate(value); err != nil {
		return domain.Config{}, fmt.Errorf("validate config: %w", err)
	}

	var cfg domain.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (s *Store) recoverCorrupt(ctx context.Context, cause error) (domain.Config, error) {
	backupPath := s.path + backupSuffix
	if err := os.Rename(s.path, backupPath); err != nil {
		return domain.Config{}, fmt.Errorf("back up corrupt config: %w", err)
	}
	s.logger.Warn("config file corrupted; backed up and restoring defaults",
		"path", s.path,
		"backup", backupPath,
		"cause", cause,
	)

	cfg, err := s.createDefault(ctx)
	if err != nil {
		return domain.Config{}, err
	}
	return cfg, fmt.Errorf("%w (backup saved to %s): %v", ErrCorruptConfig, backupPath, cause)
}

func (s *Store) createDefault(ctx context.Context) (domain.Config, error) {
	cfg := domain.NewDefaultConfig(s.clock.Now())
	if err := s.Save(ctx, cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Save overwrites the whole file with the canonical serialization of
// cfg.
func (s *Store) Save(ctx context.Context, cfg domain.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	canonical, err := canonicalize(raw)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	if err := os.WriteFile(s.path, canonical, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SetLastUsed records the (url, branch) pair of the last successful
// run by merge-patching the stored file, leaving every other key as
// written.
func (s *Store) SetLastUsed(ctx context.Context, url, branch string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		cfg, loadErr := s.Load(ctx)
		if loadErr != nil && !errors.Is(loadErr, ErrCorruptConfig) {
			return loadErr
		}
		cfg.LastUsedURL = url
		cfg.LastUsedBranch = branch
		return s.Save(ctx, cfg)
	}

	patch, err := json.Marshal(map[string]string{
		"last_used_repo":   url,
		"last_used_branch": branch,
	})
	if err != nil {
		return fmt.Errorf("encode last-used patch: %w", err)
	}

	merged, err := jsonpatch.MergePatch(raw, patch)
	if err != nil {
		return fmt.Errorf("apply last-used patch: %w", err)
	}

	canonical, err := canonicalize(merged)
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, canonical, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func canonicalize(raw []byte) ([]byte, error) {
	value := jsontext.Value(append([]byte(nil), raw...))
	if err := value.Canonicalize(); err != nil {
		return nil, fmt.Errorf("canonicalize config: %w", err)
	}
	return append([]byte(value), '\n'), nil
}
