package orchestrate

import (
	"sync"

	"github.com/sbitxtools/branchctl/internal/domain"
)

// eventQueue is an unbounded FIFO between the worker goroutine and the
// consumer of Events(). Producers never block, so a slow consumer can
// never stall a run, and terminal events are never dropped.
type eventQueue struct {
	mu     sync.Mutex
	items  []domain.Event
	closed bool
	signal chan struct{}
	out    chan domain.Event
}

func newEventQueue() *eventQueue {
	q := &eventQueue{
		signal: make(chan struct{}, 1),
		out:    make(chan domain.Event),
	}
	go q.pump()
	return q
}

func (q *eventQueue) events() <-chan domain.Event { return q.out }

func (q *eventQueue) push(ev domain.Event) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// close stops the queue after all already-pushed events have been
// delivered, then closes the output channel.
func (q *eventQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *eventQueue) pump() {
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			closed := q.closed
			q.mu.Unlock()
			if closed {
				close(q.out)
				return
			}
			<-q.signal
			continue
		}
		ev := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()

		q.out <- ev
	}
}
