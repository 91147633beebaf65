package orchestrate

import (
	"context"
	"fmt"
	"sync"

	"github.com/sbitxtools/branchctl/internal/domain"
)

// Runner serializes operations on a single background worker and fans
// their events into one queue. At most one run or branch fetch is in
// flight at a time; starting another returns ErrRunInFlight rather
// than queueing it.
type Runner struct {
	svc    *Service
	lister BranchLister

	mu     sync.Mutex
	busy   bool
	closed bool
	state  domain.RunState
	queue  *eventQueue
	wg     sync.WaitGroup
}

func NewRunner(svc *Service, lister BranchLister) *Runner {
	r := &Runner{
		svc:    svc,
		lister: lister,
		state:  domain.RunIdle,
		queue:  newEventQueue(),
	}
	prev := svc.observe
	svc.observe = func(state domain.RunState) {
		prev(state)
		r.setState(state)
	}
	return r
}

func (r *Runner) setState(state domain.RunState) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
}

// State returns the position of the current (or most recent) run.
func (r *Runner) State() domain.RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Events returns the queue the worker feeds. Events arrive in the
// order they were emitted; the channel closes after Close.
func (r *Runner) Events() <-chan domain.Event {
	return r.queue.events()
}

// Busy reports whether an operation is currently in flight.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// StartRun validates req and launches the pipeline on the worker.
// Validation errors are returned synchronously without emitting any
// event.
func (r *Runner) StartRun(ctx context.Context, req Request) error {
	validated, err := r.svc.Validate(req)
	if err != nil {
		return err
	}
	return r.start(func() {
		r.svc.Execute(ctx, validated, r.queue.push)
	})
}

// StartBranchFetch lists the remote branches of url on the worker,
// delivering them as a single branches event (or an error event).
func (r *Runner) StartBranchFetch(ctx context.Context, url string) error {
	normalized, err := domain.NormalizeURL(url)
	if err != nil {
		return err
	}
	return r.start(func() {
		r.queue.push(domain.Event{Kind: domain.EventProgress, Message: "Fetching branches..."})
		branches, err := r.lister.ListRemoteBranches(ctx, normalized)
		if err != nil {
			r.queue.push(domain.Event{
				Kind:    domain.EventError,
				Message: err.Error(),
				Failure: domain.FailGit,
			})
			return
		}
		r.queue.push(domain.Event{Kind: domain.EventBranches, Branches: branches})
	})
}

func (r *Runner) start(work func()) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRunnerClosed
	}
	if r.busy {
		r.mu.Unlock()
		return ErrRunInFlight
	}
	r.busy = true
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer func() {
			if p := recover(); p != nil {
				r.queue.push(domain.Event{
					Kind:    domain.EventError,
					Message: fmt.Sprintf("unexpected failure: %v", p),
					Failure: domain.FailUnexpected,
				})
			}
			r.mu.Lock()
			r.busy = false
			r.mu.Unlock()
			r.wg.Done()
		}()
		work()
	}()
	return nil
}

// Close waits for the in-flight operation, if any, and then closes the
// event channel after every pending event has been delivered.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.wg.Wait()
	r.queue.close()
}
