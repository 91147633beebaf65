package gitcli

import (
	"context"
	"fmt"

	"github.com/sbitxtools/branchctl/internal/domain"
)

// RewireRemote points an existing working tree at a new origin URL and
// fetches from it. Three sub-steps with independent timeouts:
// set-url (fatal), prune (non-fatal, reported as a warning on the
// outcome), fetch with pruning (fatal — without it the subsequent
// checkout cannot find the remote-tracking ref).
func (g *Git) RewireRemote(ctx context.Context, url, path string) (domain.Outcome, error) {
	res := g.run(ctx, SetURLTimeout, path, "remote", "set-url", "origin", url)
	if res.startErr != nil {
		return domain.Outcome{}, &RemoteError{Op: "remote rewire", Target: url, Err: ErrGitUnavailable}
	}
	if res.timedOut {
		return domain.Outcome{}, &RemoteError{Op: "remote rewire", Target: url, Timeout: true}
	}
	if res.exitCode != 0 {
		return domain.Outcome{ExitCode: res.exitCode}, &RemoteError{Op: "remote rewire", Target: url, Stderr: res.stderr}
	}

	outcome := domain.Outcome{}

	res = g.run(ctx, PruneTimeout, path, "remote", "prune", "origin")
	if res.timedOut || res.exitCode != 0 || res.startErr != nil {
		// Stale-ref pruning is cleanliness, not correctness.
		msg := fmt.Sprintf("pruning stale remote references failed (exit code %d); continuing", res.exitCode)
		outcome.Warnings = append(outcome.Warnings, msg)
		g.logger.Warn("remote prune failed", "target", path, "exit_code", res.exitCode, "stderr", res.stderr)
	}

	res = g.run(ctx, FetchTimeout, path, "fetch", "origin", "--prune")
	if res.startErr != nil {
		return outcome, &RemoteError{Op: "fetch", Target: url, Err: ErrGitUnavailable}
	}
	if res.timedOut {
		return outcome, &RemoteError{Op: "fetch", Target: url, Timeout: true}
	}
	if res.exitCode != 0 {
		outcome.ExitCode = res.exitCode
		return outcome, &RemoteError{Op: "fetch", Target: url, Stderr: res.stderr}
	}

	outcome.Succeeded = true
	return outcome, nil
}
