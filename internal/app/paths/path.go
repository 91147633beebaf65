// Package paths normalizes the checkout target path shared by every
// service that touches the target directory.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrTargetPathRequired = errors.New("target path is required")

// DefaultTarget is the fixed checkout/build directory on the radio.
const DefaultTarget = "/home/pi/sbitx"

// NormalizeTargetPath resolves the target to an absolute path,
// substituting the default when empty.
func NormalizeTargetPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultTarget
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve target path: %w", err)
	}

	return absPath, nil
}

// RequireTargetPath is NormalizeTargetPath without the default
// fallback, for call sites where an explicit path is mandatory.
func RequireTargetPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrTargetPathRequired
	}
	return NormalizeTargetPath(path)
}

// DefaultConfigPath is where the repository list lives unless
// overridden. Falls back to the working directory when the home
// directory cannot be resolved.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".branchctl_repositories.json"
	}
	return filepath.Join(home, ".config", "branchctl", "repositories.json")
}

// DefaultHistoryPath is the default location of the run history
// database.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".branchctl_runs.db"
	}
	return filepath.Join(home, ".local", "share", "branchctl", "runs.db")
}
