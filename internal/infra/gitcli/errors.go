package gitcli

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGitUnavailable means the git binary could not be invoked at all.
// This is distinct from "not a working tree": it is a machine-setup
// problem the operator must fix, and is never silently classified as a
// foreign directory.
var ErrGitUnavailable = errors.New("git binary is not available")

// RemoteError reports a failed or timed-out remote-touching operation
// (listing, clone, rewire sub-step, submodule sync).
type RemoteError struct {
	Op      string
	Target  string
	Stderr  string
	Timeout bool
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("timeout during %s for %s; check your network connection and the repository URL", e.Op, e.Target)
	}
	msg := fmt.Sprintf("%s failed for %s", e.Op, e.Target)
	if detail := strings.TrimSpace(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

func (e *RemoteError) Unwrap() error { return e.Err }

// CheckoutError reports a failed or timed-out branch checkout.
type CheckoutError struct {
	Branch  string
	Target  string
	Timeout bool
	Err     error
}

func (e *CheckoutError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("timeout while checking out branch %q in %s", e.Branch, e.Target)
	}
	return fmt.Sprintf("failed to check out branch %q; make sure the branch exists on the remote", e.Branch)
}

func (e *CheckoutError) Unwrap() error { return e.Err }
