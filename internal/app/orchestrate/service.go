// Package orchestrate drives the clone-or-rewire, checkout, submodule
// sync and build pipeline for a target working tree, reporting
// progress through an unbounded event queue.
package orchestrate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sbitxtools/branchctl/internal/app/paths"
	"github.com/sbitxtools/branchctl/internal/domain"
)

// Request is one validated run: bring target to branch of repo, then
// build. Clean runs the build system's clean target first.
type Request struct {
	RepoURL string
	Branch  string
	Target  string
	Clean   bool
}

// Result is the terminal summary of a run.
type Result struct {
	RunID      string
	State      domain.RunState
	Failure    domain.FailureKind
	Message    string
	Status     domain.CheckoutStatus
	StartedAt  time.Time
	FinishedAt time.Time
}

type Service struct {
	prober   Prober
	remote   Remote
	switcher Switcher
	builder  Builder
	status   StatusSource
	lastUsed LastUsedRecorder
	history  History
	ids      IDSource
	clock    Clock
	logger   *slog.Logger
	observe  func(domain.RunState)
}

// Deps carries the collaborators of a Service. Status, LastUsed,
// History and Observer are optional; the rest are required.
type Deps struct {
	Prober   Prober
	Remote   Remote
	Switcher Switcher
	Builder  Builder
	Status   StatusSource
	LastUsed LastUsedRecorder
	History  History
	IDs      IDSource
	Clock    Clock
	Logger   *slog.Logger

	// Observer is told every state transition of a run as it happens.
	Observer func(domain.RunState)
}

func NewService(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	observe := deps.Observer
	if observe == nil {
		observe = func(domain.RunState) {}
	}
	return &Service{
		prober:   deps.Prober,
		remote:   deps.Remote,
		switcher: deps.Switcher,
		builder:  deps.Builder,
		status:   deps.Status,
		lastUsed: deps.LastUsed,
		history:  deps.History,
		ids:      deps.IDs,
		clock:    deps.Clock,
		logger:   logger,
		observe:  observe,
	}
}

// Validate normalizes a request and rejects bad input before any work
// starts: the URL must be a recognized GitHub form, the branch must be
// non-empty and the target resolves to an absolute path.
func (s *Service) Validate(req Request) (Request, error) {
	url, err := domain.NormalizeURL(req.RepoURL)
	if err != nil {
		return Request{}, err
	}
	req.RepoURL = url

	req.Branch = strings.TrimSpace(req.Branch)
	if req.Branch == "" {
		return Request{}, domain.ErrBranchRequired
	}

	target, err := paths.NormalizeTargetPath(req.Target)
	if err != nil {
		return Request{}, err
	}
	req.Target = target
	return req, nil
}

// Execute runs the whole pipeline synchronously, emitting events
// through emit as it goes. The returned Result mirrors the terminal
// event. Execute never returns before emitting a terminal event.
func (s *Service) Execute(ctx context.Context, req Request, emit func(domain.Event)) Result {
	startedAt := s.clock.Now()

	runID, err := s.ids.NewID()
	if err != nil {
		s.logger.Warn("run id generation failed", "error", err)
	}

	state, failure, message := s.pipeline(ctx, req, emit)
	s.observe(state)

	res := Result{
		RunID:      runID,
		State:      state,
		Failure:    failure,
		Message:    message,
		StartedAt:  startedAt,
		FinishedAt: s.clock.Now(),
	}

	if state == domain.RunSucceeded && s.lastUsed != nil {
		if err := s.lastUsed.SetLastUsed(ctx, req.RepoURL, req.Branch); err != nil {
			s.logger.Warn("could not record last-used selection", "error", err)
			emit(domain.Event{Kind: domain.EventWarning, Message: "could not record last-used selection: " + err.Error()})
		}
	}

	// Refresh the status projection after the run settled, whatever
	// the outcome: a failed checkout may still have moved the tree.
	if s.status != nil {
		if status, statusErr := s.status.CurrentStatus(ctx, req.Target); statusErr == nil {
			res.Status = status
		} else {
			s.logger.Warn("status refresh failed", "target", req.Target, "error", statusErr)
		}
	}

	if s.history != nil && runID != "" {
		rec := RunRecord{
			ID:         runID,
			RepoURL:    req.RepoURL,
			Branch:     req.Branch,
			State:      res.State,
			Failure:    res.Failure,
			Message:    res.Message,
			StartedAt:  res.StartedAt,
			FinishedAt: res.FinishedAt,
		}
		if err := s.history.Append(ctx, rec); err != nil {
			s.logger.Warn("could not append run record", "error", err)
		}
	}

	emit(terminalEvent(res))
	return res
}

// pipeline performs the ordered steps and returns the terminal state.
// Every failure path returns here; no step runs after a failed one.
func (s *Service) pipeline(ctx context.Context, req Request, emit func(domain.Event)) (domain.RunState, domain.FailureKind, string) {
	progress := func(msg string) {
		emit(domain.Event{Kind: domain.EventProgress, Message: msg})
	}
	warnAll := func(outcome domain.Outcome) {
		for _, w := range outcome.Warnings {
			emit(domain.Event{Kind: domain.EventWarning, Message: w})
		}
	}

	if err := ctx.Err(); err != nil {
		return domain.RunFailed, domain.FailUnexpected, "run cancelled before it started"
	}

	s.observe(domain.RunProbing)
	progress("Checking target directory...")
	dirState, err := s.prober.Probe(ctx, req.Target)
	if err != nil {
		return domain.RunFailed, domain.FailConfiguration, err.Error()
	}

	switch dirState {
	case domain.DirForeign:
		return domain.RunFailed, domain.FailConfiguration, fmt.Sprintf(
			"%s exists but is not a git repository. Back it up and remove it, then try again.", req.Target)
	case domain.DirAbsent:
		s.observe(domain.RunCloning)
		progress(fmt.Sprintf("Cloning %s...", req.RepoURL))
		outcome, err := s.remote.Clone(ctx, req.RepoURL, req.Target)
		if err != nil {
			return domain.RunFailed, domain.FailGit, err.Error()
		}
		warnAll(outcome)
	case domain.DirVersionControlled:
		s.observe(domain.RunRewiring)
		progress("Updating remote and fetching branches...")
		outcome, err := s.remote.RewireRemote(ctx, req.RepoURL, req.Target)
		if err != nil {
			return domain.RunFailed, domain.FailGit, err.Error()
		}
		warnAll(outcome)
	}

	if err := ctx.Err(); err != nil {
		return domain.RunFailed, domain.FailUnexpected, "run cancelled"
	}

	s.observe(domain.RunCheckingOut)
	progress(fmt.Sprintf("Checking out %s...", req.Branch))
	outcome, err := s.switcher.Checkout(ctx, req.Branch, req.Target)
	if err != nil {
		return domain.RunFailed, domain.FailGit, err.Error()
	}
	warnAll(outcome)

	s.observe(domain.RunSyncingSubmodule)
	progress("Updating submodules...")
	outcome, err = s.remote.SyncSubmodules(ctx, req.Target)
	if err != nil {
		return domain.RunFailed, domain.FailGit, err.Error()
	}
	warnAll(outcome)

	if err := ctx.Err(); err != nil {
		return domain.RunFailed, domain.FailUnexpected, "run cancelled"
	}

	if err := s.builder.CheckPrerequisites(req.Target); err != nil {
		return domain.RunFailed, domain.FailConfiguration, err.Error()
	}

	if req.Clean {
		progress("Cleaning previous build artifacts...")
		outcome, err := s.builder.Clean(ctx, req.Target)
		// A failed clean is not fatal; the build decides.
		if err != nil {
			emit(domain.Event{Kind: domain.EventWarning, Message: "clean failed: " + err.Error()})
		} else if !outcome.Succeeded {
			emit(domain.Event{Kind: domain.EventWarning, Message: fmt.Sprintf("clean exited with code %d", outcome.ExitCode)})
		}
	}

	s.observe(domain.RunBuilding)
	progress("Building... this can take several minutes.")
	outcome, err = s.builder.Build(ctx, req.Target)
	if err != nil {
		return domain.RunFailed, domain.FailBuildInvoke, err.Error()
	}
	if !outcome.Succeeded {
		return domain.RunFailed, domain.FailBuildRan, fmt.Sprintf(
			"Build failed with exit code %d. Check the build output for details.", outcome.ExitCode)
	}

	return domain.RunSucceeded, domain.FailNone, "Build completed successfully!"
}

func terminalEvent(res Result) domain.Event {
	switch {
	case res.State == domain.RunSucceeded:
		return domain.Event{Kind: domain.EventSucceeded, Message: res.Message}
	case res.Failure == domain.FailBuildRan:
		return domain.Event{Kind: domain.EventBuildFailed, Message: res.Message, Failure: res.Failure}
	default:
		return domain.Event{Kind: domain.EventError, Message: res.Message, Failure: res.Failure}
	}
}
