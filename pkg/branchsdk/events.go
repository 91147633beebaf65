package branchsdk

// EventKind discriminates worker events.
type EventKind string

const (
	EventProgress    EventKind = "progress"
	EventBranches    EventKind = "branches"
	EventWarning     EventKind = "warning"
	EventSucceeded   EventKind = "succeeded"
	EventBuildFailed EventKind = "build-failed"
	EventError       EventKind = "error"
)

// Event is one message from the background worker. Events of one
// operation arrive in order; the last event of a run is terminal.
type Event struct {
	Kind     EventKind
	Message  string
	Branches []string
	// Failure classifies terminal failures: "configuration", "git",
	// "build-failed", "build-error" or "unexpected".
	Failure string
}

// Terminal reports whether the event ends a run.
func (e Event) Terminal() bool {
	return e.Kind == EventSucceeded || e.Kind == EventBuildFailed || e.Kind == EventError
}
