package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sbitxtools/branchctl/internal/app/orchestrate"
	"github.com/sbitxtools/branchctl/internal/app/paths"
	"github.com/sbitxtools/branchctl/internal/app/repolist"
	"github.com/sbitxtools/branchctl/internal/domain"
	"github.com/sbitxtools/branchctl/internal/infra/buildcli"
	"github.com/sbitxtools/branchctl/internal/infra/gitcli"
)

type ErrorKind string

const (
	KindInternal   ErrorKind = "internal"
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindGit        ErrorKind = "git"
	KindBuild      ErrorKind = "build"
)

const (
	ExitInternal = 1
	ExitInvalid  = 2
	ExitNotFound = 3
	ExitConflict = 4
	ExitGit      = 5
	ExitBuild    = 6
)

type ExitError struct {
	Code    int
	Kind    ErrorKind
	Message string
	Err     error
}

func (e ExitError) Error() string {
	return errorMessage(e)
}

func NormalizeError(err error) ExitError {
	if err == nil {
		return ExitError{Code: 0}
	}
	var exitErr ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Code == 0 {
			exitErr.Code = ExitInternal
		}
		return exitErr
	}

	var remoteErr *gitcli.RemoteError
	var checkoutErr *gitcli.CheckoutError
	var invokeErr *buildcli.InvokeError

	switch {
	case errors.Is(err, domain.ErrRepoURLRequired),
		errors.Is(err, domain.ErrInvalidRepoURL),
		errors.Is(err, domain.ErrBranchRequired),
		errors.Is(err, paths.ErrTargetPathRequired),
		errors.Is(err, gitcli.ErrGitUnavailable),
		errors.Is(err, buildcli.ErrEntryPointMissing),
		errors.Is(err, buildcli.ErrEntryPointNotFile):
		return ExitError{Code: ExitInvalid, Kind: KindValidation, Err: err}
	case errors.Is(err, repolist.ErrRepoNotFound):
		return ExitError{Code: ExitNotFound, Kind: KindNotFound, Err: err}
	case errors.Is(err, repolist.ErrRepoExists),
		errors.Is(err, repolist.ErrDefaultRepoProtected),
		errors.Is(err, orchestrate.ErrRunInFlight):
		return ExitError{Code: ExitConflict, Kind: KindConflict, Err: err}
	case errors.As(err, &remoteErr), errors.As(err, &checkoutErr):
		return ExitError{Code: ExitGit, Kind: KindGit, Err: err}
	case errors.As(err, &invokeErr):
		return ExitError{Code: ExitBuild, Kind: KindBuild, Err: err}
	default:
		return ExitError{Code: ExitInternal, Kind: KindInternal, Err: err}
	}
}

// runExitError maps a failed run's classification to an exit error.
func runExitError(res orchestrate.Result) ExitError {
	switch res.Failure {
	case domain.FailConfiguration:
		return ExitError{Code: ExitInvalid, Kind: KindValidation, Message: res.Message}
	case domain.FailGit:
		return ExitError{Code: ExitGit, Kind: KindGit, Message: res.Message}
	case domain.FailBuildRan, domain.FailBuildInvoke:
		return ExitError{Code: ExitBuild, Kind: KindBuild, Message: res.Message}
	default:
		return ExitError{Code: ExitInternal, Kind: KindInternal, Message: res.Message}
	}
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return NormalizeError(err).Code
}

func writeCLIError(w io.Writer, exitErr ExitError, asJSON bool) error {
	if exitErr.Code == 0 {
		return nil
	}
	message := errorMessage(exitErr)
	if asJSON {
		payload := struct {
			Code    int    `json:"code"`
			Kind    string `json:"kind"`
			Message string `json:"message"`
		}{
			Code:    exitErr.Code,
			Kind:    string(exitErr.Kind),
			Message: message,
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}

	ui := newRenderer(w, false)
	prefix := "Error"
	if exitErr.Kind != "" {
		prefix = fmt.Sprintf("Error (%s)", exitErr.Kind)
	}
	prefix = ui.err(prefix)
	_, err := fmt.Fprintf(w, "%s: %s\n", prefix, message)
	return err
}

func errorMessage(exitErr ExitError) string {
	if exitErr.Message != "" {
		return exitErr.Message
	}
	if exitErr.Err != nil {
		return exitErr.Err.Error()
	}
	return "unknown error"
}
