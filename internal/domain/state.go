package domain

import (
	"fmt"
	"strings"
)

// DirectoryState classifies the checkout target at a point in time.
// It is recomputed before and after every run, never persisted.
type DirectoryState string

const (
	// DirAbsent means the target path does not exist.
	DirAbsent DirectoryState = "absent"
	// DirVersionControlled means the target is a git working tree.
	DirVersionControlled DirectoryState = "version-controlled"
	// DirForeign means the target exists but is not a working tree.
	DirForeign DirectoryState = "foreign"
)

// RunState is the orchestrator's position in the checkout+build
// sequence.
type RunState string

const (
	RunIdle             RunState = "idle"
	RunProbing          RunState = "probing"
	RunCloning          RunState = "cloning"
	RunRewiring         RunState = "rewiring"
	RunCheckingOut      RunState = "checking-out"
	RunSyncingSubmodule RunState = "syncing-submodules"
	RunBuilding         RunState = "building"
	RunSucceeded        RunState = "succeeded"
	RunFailed           RunState = "failed"
)

// Terminal reports whether the run has finished.
func (s RunState) Terminal() bool {
	return s == RunSucceeded || s == RunFailed
}

// FailureKind classifies a terminal failure. The kind only selects
// presentation; the message carries the detail.
type FailureKind string

const (
	// FailNone is the zero classification of a successful run.
	FailNone FailureKind = ""
	// FailConfiguration covers caller-fixable problems: foreign target
	// directory, missing build entry point, corrupted config, missing
	// git binary.
	FailConfiguration FailureKind = "configuration"
	// FailGit covers version-control operations that failed or timed
	// out; retryable by the operator.
	FailGit FailureKind = "git"
	// FailBuildRan means the build ran to completion and exited
	// non-zero. The checkout did succeed, so the target holds the new
	// branch.
	FailBuildRan FailureKind = "build-failed"
	// FailBuildInvoke means the build could not run at all or timed out.
	FailBuildInvoke FailureKind = "build-error"
	// FailUnexpected is the catch-all; always surfaced verbatim.
	FailUnexpected FailureKind = "unexpected"
)

func ParseFailureKind(value string) (FailureKind, error) {
	parsed := FailureKind(strings.TrimSpace(value))
	switch parsed {
	case FailNone, FailConfiguration, FailGit, FailBuildRan, FailBuildInvoke, FailUnexpected:
		return parsed, nil
	}
	return "", fmt.Errorf("invalid failure kind: %s", value)
}

// CheckoutStatus is the live "what is checked out right now"
// projection. Known is false when the target is not a working tree or
// its metadata could not be read.
type CheckoutStatus struct {
	Known   bool
	RepoURL string
	Branch  string
}
