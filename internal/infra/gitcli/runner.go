// Package gitcli wraps the system git binary as discrete,
// timeout-bounded operations. All mutating version-control work goes
// through the external tool; reading local metadata is gitmeta's job.
package gitcli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// Per-operation timeouts, in seconds in the original tool.
const (
	ProbeTimeout     = 10 * time.Second
	ListTimeout      = 30 * time.Second
	CloneTimeout     = 300 * time.Second
	SetURLTimeout    = 10 * time.Second
	PruneTimeout     = 30 * time.Second
	FetchTimeout     = 300 * time.Second
	CheckoutTimeout  = 60 * time.Second
	SubmoduleTimeout = 300 * time.Second
)

// Git shells out to the git binary. Long-running command output is
// teed to progress so an observer can watch clone/fetch activity; git
// writes that stream to stderr.
type Git struct {
	logger   *slog.Logger
	progress io.Writer
}

func New(logger *slog.Logger, progress io.Writer) *Git {
	if logger == nil {
		logger = slog.Default()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Git{logger: logger, progress: progress}
}

// runResult separates the three ways an invocation can end: the
// process ran (exitCode valid), the deadline expired (timedOut), or
// the process never started (startErr, e.g. git not installed).
type runResult struct {
	exitCode int
	stdout   string
	stderr   string
	timedOut bool
	startErr error
}

func (g *Git) run(ctx context.Context, timeout time.Duration, dir string, args ...string) runResult {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(&stderr, g.progress)

	err := cmd.Run()

	res := runResult{
		stdout: stdout.String(),
		stderr: stderr.String(),
	}

	switch {
	case err == nil:
		res.exitCode = 0
	case runCtx.Err() != nil && !errors.Is(runCtx.Err(), context.Canceled):
		res.timedOut = true
		res.exitCode = -1
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.exitCode = exitErr.ExitCode()
		} else {
			res.exitCode = -1
			res.startErr = err
		}
	}

	if res.startErr != nil || res.timedOut || res.exitCode != 0 {
		g.logger.Debug("git command finished",
			"args", args,
			"dir", dir,
			"exit_code", res.exitCode,
			"timed_out", res.timedOut,
			"start_err", res.startErr,
		)
	}

	return res
}
