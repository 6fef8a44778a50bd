package slideshow

import (
	"errors"
	"sync"
	"time"
)

// DefaultTransitionDelay is the fade window between a navigation request
// and the committed index change.
const DefaultTransitionDelay = 300 * time.Millisecond

var ErrNoEvents = errors.New("navigator needs at least one event")

// Timer is the handle returned by a Scheduler. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d without blocking the caller.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallScheduler struct{}

func (wallScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// State is a snapshot of the navigation state.
type State struct {
	Index         int  `json:"index"`
	Total         int  `json:"total"`
	Transitioning bool `json:"transitioning"`
}

// CommitHook runs after the index changed and before Transitioning is
// cleared, with the navigator lock held. Hooks must not call back into the
// Navigator.
type CommitHook func(from, to int)

// Navigator owns the current index. Every navigation is two-phase: the
// request marks the navigator as transitioning and schedules a single-shot
// commit; the commit sets the index, runs the hooks and clears the flag.
// Requests arriving while a commit is pending are dropped.
type Navigator struct {
	mu            sync.Mutex
	total         int
	index         int
	pending       int
	transitioning bool
	closed        bool
	delay         time.Duration
	sched         Scheduler
	timer         Timer
	hooks         []CommitHook
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithDelay sets the transition delay. Negative values mean zero.
func WithDelay(d time.Duration) Option {
	return func(n *Navigator) {
		if d < 0 {
			d = 0
		}
		n.delay = d
	}
}

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(n *Navigator) {
		if s != nil {
			n.sched = s
		}
	}
}

// NewNavigator returns a navigator over total events, positioned at 0.
func NewNavigator(total int, opts ...Option) (*Navigator, error) {
	if total <= 0 {
		return nil, ErrNoEvents
	}
	n := &Navigator{
		total: total,
		delay: DefaultTransitionDelay,
		sched: wallScheduler{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// OnCommit registers a hook run on every committed navigation.
func (n *Navigator) OnCommit(h CommitHook) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hooks = append(n.hooks, h)
}

// State returns the current navigation state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stateLocked()
}

// Do runs fn with the lock held. It is how dependent state (quiz session,
// media) is read and written consistently with the index.
func (n *Navigator) Do(fn func(State)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fn(n.stateLocked())
}

// Next moves to the following event. No-op at the last index.
func (n *Navigator) Next() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.index >= n.total-1 {
		return false
	}
	return n.beginLocked(n.index + 1)
}

// Previous moves to the preceding event. No-op at index 0.
func (n *Navigator) Previous() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.index <= 0 {
		return false
	}
	return n.beginLocked(n.index - 1)
}

// Jump moves to index i. No-op when i is the current index or out of
// bounds.
func (n *Navigator) Jump(i int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if i == n.index || i < 0 || i >= n.total {
		return false
	}
	return n.beginLocked(i)
}

// Home moves to index 0, even when already there.
func (n *Navigator) Home() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.beginLocked(0)
}

// Close cancels a pending transition without committing it. Further
// requests are ignored.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.transitioning = false
}

func (n *Navigator) beginLocked(target int) bool {
	if n.closed || n.transitioning {
		return false
	}
	n.transitioning = true
	n.pending = target
	n.timer = n.sched.AfterFunc(n.delay, n.commit)
	return true
}

func (n *Navigator) commit() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed || !n.transitioning {
		return
	}
	from := n.index
	n.index = n.pending
	for _, h := range n.hooks {
		h(from, n.index)
	}
	n.transitioning = false
	n.timer = nil
}

func (n *Navigator) stateLocked() State {
	return State{
		Index:         n.index,
		Total:         n.total,
		Transitioning: n.transitioning,
	}
}
