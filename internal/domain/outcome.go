package domain

// Outcome is the result of a single external command invocation. It is
// produced and consumed within one orchestration step, never stored.
// Warnings carry non-fatal sub-step failures (e.g. remote prune).
type Outcome struct {
	Succeeded bool
	ExitCode  int
	Warnings  []string
}
