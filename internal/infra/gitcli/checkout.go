package gitcli

import (
	"context"

	"github.com/sbitxtools/branchctl/internal/domain"
)

// Checkout creates or force-resets the local branch to exactly match
// origin/<branch>. Divergent local history is discarded, not merged.
func (g *Git) Checkout(ctx context.Context, branch, path string) (domain.Outcome, error) {
	res := g.run(ctx, CheckoutTimeout, path, "checkout", "-B", branch, "origin/"+branch)
	if res.startErr != nil {
		return domain.Outcome{}, &CheckoutError{Branch: branch, Target: path, Err: ErrGitUnavailable}
	}
	if res.timedOut {
		return domain.Outcome{}, &CheckoutError{Branch: branch, Target: path, Timeout: true}
	}
	if res.exitCode != 0 {
		return domain.Outcome{ExitCode: res.exitCode}, &CheckoutError{Branch: branch, Target: path}
	}
	return domain.Outcome{Succeeded: true}, nil
}
