package gitcli

import (
	"context"

	"github.com/sbitxtools/branchctl/internal/domain"
)

// SyncSubmodules initializes and updates submodules recursively. The
// firmware build assumes submodule content is present, so this runs
// before every build.
func (g *Git) SyncSubmodules(ctx context.Context, path string) (domain.Outcome, error) {
	res := g.run(ctx, SubmoduleTimeout, path, "submodule", "update", "--init", "--recursive")
	if res.startErr != nil {
		return domain.Outcome{}, &RemoteError{Op: "submodule sync", Target: path, Err: ErrGitUnavailable}
	}
	if res.timedOut {
		return domain.Outcome{}, &RemoteError{Op: "submodule sync", Target: path, Timeout: true}
	}
	if res.exitCode != 0 {
		return domain.Outcome{ExitCode: res.exitCode}, &RemoteError{Op: "submodule sync", Target: path, Stderr: res.stderr}
	}
	return domain.Outcome{Succeeded: true}, nil
}
