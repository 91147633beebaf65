package gitcli

import (
	"context"
	"sort"
	"strings"
)

const headsPrefix = "refs/heads/"

// ListRemoteBranches lists the branch names of a remote without
// touching local state. The result is sorted lexicographically;
// duplicate refs, should the tool ever emit them, are preserved. A
// remote with no branches yields an empty list, not an error.
func (g *Git) ListRemoteBranches(ctx context.Context, url string) ([]string, error) {
	res := g.run(ctx, ListTimeout, "", "ls-remote", "--heads", url)
	if res.startErr != nil {
		return nil, &RemoteError{Op: "branch listing", Target: url, Err: ErrGitUnavailable}
	}
	if res.timedOut {
		return nil, &RemoteError{Op: "branch listing", Target: url, Timeout: true}
	}
	if res.exitCode != 0 {
		return nil, &RemoteError{Op: "branch listing", Target: url, Stderr: res.stderr}
	}

	return parseBranchRefs(res.stdout), nil
}

// parseBranchRefs extracts branch names from "<hash>\t<ref>" lines,
// keeping only refs under the heads namespace.
func parseBranchRefs(output string) []string {
	branches := []string{}
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		ref := parts[1]
		if !strings.HasPrefix(ref, headsPrefix) {
			continue
		}
		branches = append(branches, strings.TrimPrefix(ref, headsPrefix))
	}
	sort.Strings(branches)
	return branches
}
