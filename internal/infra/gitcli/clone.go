package gitcli

import (
	"context"

	"github.com/sbitxtools/branchctl/internal/domain"
)

// Clone clones url into path. All-or-nothing: any failure is reported
// as a RemoteError and the caller must not treat the target as usable.
func (g *Git) Clone(ctx context.Context, url, path string) (domain.Outcome, error) {
	res := g.run(ctx, CloneTimeout, "", "clone", url, path)
	if res.startErr != nil {
		return domain.Outcome{}, &RemoteError{Op: "clone", Target: url, Err: ErrGitUnavailable}
	}
	if res.timedOut {
		return domain.Outcome{}, &RemoteError{Op: "clone", Target: url, Timeout: true}
	}
	if res.exitCode != 0 {
		return domain.Outcome{ExitCode: res.exitCode}, &RemoteError{Op: "clone", Target: url, Stderr: res.stderr}
	}
	return domain.Outcome{Succeeded: true}, nil
}
