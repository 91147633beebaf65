// Package buildcli invokes the firmware build entry point: a script
// named "build" at the root of the checkout, run as "./build <product>"
// with the checkout as working directory.
package buildcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/sbitxtools/branchctl/internal/domain"
)

// Timeout bounds one build; beyond it the process is assumed stuck.
const Timeout = 900 * time.Second

// CleanTimeout bounds the optional pre-build "make clean".
const CleanTimeout = 60 * time.Second

// DefaultProduct is the literal argument the entry point expects.
const DefaultProduct = "sbitx"

const entryPointName = "build"

// ErrEntryPointMissing means the build script does not exist at the
// target; a configuration problem, not a build failure.
var ErrEntryPointMissing = errors.New("build entry point not found")

// ErrEntryPointNotFile means the path named "build" exists but is not
// a regular file.
var ErrEntryPointNotFile = errors.New("build entry point is not a regular file")

// InvokeError reports that the build could not run to completion:
// start failure or timeout. Distinct from a build that ran and exited
// non-zero, which is a normal Outcome.
type InvokeError struct {
	Target  string
	Timeout bool
	Err     error
}

func (e *InvokeError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("build timed out in %s; the process may be stuck", e.Target)
	}
	return fmt.Sprintf("failed to run build in %s: %v", e.Target, e.Err)
}

func (e *InvokeError) Unwrap() error { return e.Err }

type Invoker struct {
	logger   *slog.Logger
	progress io.Writer
	product  string
}

func New(logger *slog.Logger, progress io.Writer, product string) *Invoker {
	if logger == nil {
		logger = slog.Default()
	}
	if progress == nil {
		progress = io.Discard
	}
	if product == "" {
		product = DefaultProduct
	}
	return &Invoker{logger: logger, progress: progress, product: product}
}

// CheckPrerequisites verifies the entry point before a run so problems
// surface as configuration errors instead of failing mid-sequence.
func (b *Invoker) CheckPrerequisites(path string) error {
	entry := filepath.Join(path, entryPointName)
	info, err := os.Stat(entry)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w at %s", ErrEntryPointMissing, entry)
		}
		return fmt.Errorf("stat build entry point: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrEntryPointNotFile, entry)
	}
	return nil
}

// Build runs the entry point. A non-zero exit is a normal outcome with
// the exit code preserved; only start failures and timeouts raise an
// InvokeError.
func (b *Invoker) Build(ctx context.Context, path string) (domain.Outcome, error) {
	if err := b.CheckPrerequisites(path); err != nil {
		return domain.Outcome{}, err
	}

	runCtx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "./"+entryPointName, b.product)
	cmd.Dir = path

	var tail bytes.Buffer
	cmd.Stdout = io.MultiWriter(&tail, b.progress)
	cmd.Stderr = io.MultiWriter(&tail, b.progress)

	b.logger.Info("starting build", "target", path, "product", b.product)
	err := cmd.Run()

	if runCtx.Err() != nil && !errors.Is(runCtx.Err(), context.Canceled) {
		return domain.Outcome{}, &InvokeError{Target: path, Timeout: true}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			b.logger.Warn("build finished with non-zero exit", "target", path, "exit_code", code)
			return domain.Outcome{Succeeded: false, ExitCode: code}, nil
		}
		return domain.Outcome{}, &InvokeError{Target: path, Err: err}
	}

	b.logger.Info("build completed", "target", path)
	return domain.Outcome{Succeeded: true}, nil
}

// Clean runs "make clean" in the target. Non-zero exit is reported in
// the outcome but treated as non-fatal by callers.
func (b *Invoker) Clean(ctx context.Context, path string) (domain.Outcome, error) {
	runCtx, cancel := context.WithTimeout(ctx, CleanTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "make", "clean")
	cmd.Dir = path
	cmd.Stdout = b.progress
	cmd.Stderr = b.progress

	err := cmd.Run()

	if runCtx.Err() != nil && !errors.Is(runCtx.Err(), context.Canceled) {
		return domain.Outcome{}, &InvokeError{Target: path, Timeout: true}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return domain.Outcome{Succeeded: false, ExitCode: exitErr.ExitCode()}, nil
		}
		return domain.Outcome{}, &InvokeError{Target: path, Err: err}
	}

	return domain.Outcome{Succeeded: true}, nil
}
