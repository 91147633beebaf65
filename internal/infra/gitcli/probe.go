package gitcli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sbitxtools/branchctl/internal/domain"
)

// Probe classifies the target path. A missing path is DirAbsent; a
// zero-exit "rev-parse --is-inside-work-tree" is DirVersionControlled;
// any other exit is DirForeign. The returned error is non-nil only
// when git itself could not be invoked (ErrGitUnavailable) or the
// probe timed out, which callers surface as a configuration problem
// rather than a directory classification.
func (g *Git) Probe(ctx context.Context, path string) (domain.DirectoryState, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DirAbsent, nil
		}
		return "", fmt.Errorf("stat target %s: %w", path, err)
	}

	res := g.run(ctx, ProbeTimeout, path, "rev-parse", "--is-inside-work-tree")
	if res.startErr != nil {
		return "", fmt.Errorf("%w: %v", ErrGitUnavailable, res.startErr)
	}
	if res.timedOut {
		return "", fmt.Errorf("timeout while probing %s", path)
	}
	if res.exitCode == 0 {
		return domain.DirVersionControlled, nil
	}
	return domain.DirForeign, nil
}
