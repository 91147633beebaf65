package branchsdk

import (
	"io"
	"log/slog"

	"github.com/sbitxtools/branchctl/internal/app/paths"
)

// Config configures a Client. Zero values fall back to the standard
// locations and the default build product.
type Config struct {
	// TargetPath is the checkout/build directory. Defaults to the
	// radio's firmware tree.
	TargetPath string

	// ConfigPath is the repository list file.
	ConfigPath string

	// HistoryPath is the run history database. Empty disables run
	// history.
	HistoryPath string

	// Product is the build entry point argument.
	Product string

	// Progress receives raw subprocess output (clone, fetch, build).
	Progress io.Writer

	// Logger receives structured diagnostics. Defaults to the
	// process-wide logger.
	Logger *slog.Logger
}

func normalizeConfig(cfg Config) (Config, error) {
	target, err := paths.NormalizeTargetPath(cfg.TargetPath)
	if err != nil {
		return Config{}, err
	}
	cfg.TargetPath = target

	if cfg.ConfigPath == "" {
		cfg.ConfigPath = paths.DefaultConfigPath()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Progress == nil {
		cfg.Progress = io.Discard
	}
	return cfg, nil
}
