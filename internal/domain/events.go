package domain

// EventKind discriminates orchestration events.
type EventKind string

const (
	// EventProgress announces the step about to run.
	EventProgress EventKind = "progress"
	// EventBranches carries a fetched remote branch list.
	EventBranches EventKind = "branches"
	// EventWarning reports a non-fatal problem (e.g. remote prune
	// failure); the run continues.
	EventWarning EventKind = "warning"
	// EventSucceeded is the terminal event of a successful run.
	EventSucceeded EventKind = "succeeded"
	// EventBuildFailed terminates a run whose build ran and exited
	// non-zero. The version-control steps completed, so the target
	// already holds the new branch.
	EventBuildFailed EventKind = "build-failed"
	// EventError terminates a run on any other failure.
	EventError EventKind = "error"
)

// Event is a message from the orchestration worker to its observer.
// Events of one run are delivered in the order they were produced and
// each is consumed exactly once.
type Event struct {
	Kind     EventKind
	Message  string
	Branches []string
	Failure  FailureKind
}

// Terminal reports whether the event ends a run.
func (e Event) Terminal() bool {
	return e.Kind == EventSucceeded || e.Kind == EventBuildFailed || e.Kind == EventError
}
