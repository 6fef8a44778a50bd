package slideshow

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeScheduler captures scheduled callbacks so tests commit transitions
// by hand.
type fakeScheduler struct {
	mu     sync.Mutex
	queued []*fakeTimer
	delays []time.Duration
}

type fakeTimer struct {
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{f: f}
	s.queued = append(s.queued, t)
	s.delays = append(s.delays, d)
	return t
}

// fire runs every pending callback that was not stopped.
func (s *fakeScheduler) fire() int {
	s.mu.Lock()
	pending := s.queued
	s.queued = nil
	s.mu.Unlock()

	n := 0
	for _, t := range pending {
		if t.stopped {
			continue
		}
		t.fired = true
		t.f()
		n++
	}
	return n
}

func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queued)
}

func newTestNavigator(t *testing.T, total int) (*Navigator, *fakeScheduler) {
	t.Helper()
	sched := &fakeScheduler{}
	n, err := NewNavigator(total, WithScheduler(sched))
	if err != nil {
		t.Fatalf("NewNavigator() error = %v", err)
	}
	return n, sched
}

func TestNewNavigatorRejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := NewNavigator(0); !errors.Is(err, ErrNoEvents) {
		t.Fatalf("NewNavigator(0) error = %v, want %v", err, ErrNoEvents)
	}
}

func TestNextIsTwoPhase(t *testing.T) {
	t.Parallel()

	n, sched := newTestNavigator(t, 3)
	if !n.Next() {
		t.Fatal("Next() = false, want true")
	}
	st := n.State()
	if !st.Transitioning || st.Index != 0 {
		t.Fatalf("pending state = %+v, want transitioning at index 0", st)
	}
	if sched.delays[0] != DefaultTransitionDelay {
		t.Fatalf("delay = %v, want %v", sched.delays[0], DefaultTransitionDelay)
	}

	sched.fire()
	st = n.State()
	if st.Transitioning || st.Index != 1 {
		t.Fatalf("committed state = %+v, want index 1 not transitioning", st)
	}
}

func TestBoundaryNoOps(t *testing.T) {
	t.Parallel()

	n, sched := newTestNavigator(t, 2)
	if n.Previous() {
		t.Fatal("Previous() at 0 = true, want false")
	}
	if st := n.State(); st.Transitioning {
		t.Fatal("Previous() at 0 toggled the transition flag")
	}

	n.Next()
	sched.fire()
	if n.Next() {
		t.Fatal("Next() at last index = true, want false")
	}
	if st := n.State(); st.Transitioning || st.Index != 1 {
		t.Fatalf("state = %+v, want untouched index 1", st)
	}
	if sched.pending() != 0 {
		t.Fatalf("pending timers = %d, want 0", sched.pending())
	}
}

func TestJumpEveryIndex(t *testing.T) {
	t.Parallel()

	const total = 5
	for i := 0; i < total; i++ {
		n, sched := newTestNavigator(t, total)
		if i == 0 {
			if n.Jump(0) {
				t.Fatal("Jump(current) = true, want false")
			}
			continue
		}
		if !n.Jump(i) {
			t.Fatalf("Jump(%d) = false, want true", i)
		}
		sched.fire()
		if got := n.State().Index; got != i {
			t.Fatalf("Index after Jump(%d) = %d", i, got)
		}
	}
}

func TestJumpOutOfBounds(t *testing.T) {
	t.Parallel()

	n, sched := newTestNavigator(t, 3)
	for _, i := range []int{-1, 3, 100} {
		if n.Jump(i) {
			t.Fatalf("Jump(%d) = true, want false", i)
		}
	}
	if sched.pending() != 0 {
		t.Fatalf("pending timers = %d, want 0", sched.pending())
	}
}

func TestHomeAlwaysTransitions(t *testing.T) {
	t.Parallel()

	n, sched := newTestNavigator(t, 3)
	if !n.Home() {
		t.Fatal("Home() at 0 = false, want true")
	}
	sched.fire()

	n.Jump(2)
	sched.fire()
	n.Home()
	sched.fire()
	if got := n.State().Index; got != 0 {
		t.Fatalf("Index after Home() = %d, want 0", got)
	}
}

func TestOverlappingRequestsAreDropped(t *testing.T) {
	t.Parallel()

	n, sched := newTestNavigator(t, 5)
	if !n.Next() {
		t.Fatal("first Next() = false")
	}
	if n.Next() || n.Jump(4) || n.Home() {
		t.Fatal("request during pending transition was accepted")
	}
	if fired := sched.fire(); fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	if got := n.State().Index; got != 1 {
		t.Fatalf("Index = %d, want 1", got)
	}
}

func TestCommitHooksRunBeforeFlagClears(t *testing.T) {
	t.Parallel()

	n, sched := newTestNavigator(t, 3)
	var calls [][2]int
	n.OnCommit(func(from, to int) {
		calls = append(calls, [2]int{from, to})
		// Lock is held; inspect state directly.
		if !n.transitioning || n.index != to {
			t.Errorf("hook saw transitioning=%v index=%d", n.transitioning, n.index)
		}
	})

	n.Jump(2)
	sched.fire()
	n.Previous()
	sched.fire()

	want := [][2]int{{0, 2}, {2, 1}}
	if len(calls) != len(want) {
		t.Fatalf("hook calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("hook calls = %v, want %v", calls, want)
		}
	}
}

func TestCloseCancelsPendingTransition(t *testing.T) {
	t.Parallel()

	n, sched := newTestNavigator(t, 3)
	n.Next()
	n.Close()
	sched.fire()

	st := n.State()
	if st.Index != 0 || st.Transitioning {
		t.Fatalf("state after Close() = %+v, want index 0 idle", st)
	}
	if n.Next() {
		t.Fatal("Next() after Close() = true, want false")
	}
}

func TestWallSchedulerCommits(t *testing.T) {
	t.Parallel()

	n, err := NewNavigator(2, WithDelay(time.Millisecond))
	if err != nil {
		t.Fatalf("NewNavigator() error = %v", err)
	}
	done := make(chan struct{})
	n.OnCommit(func(_, _ int) { close(done) })

	n.Next()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("transition never committed")
	}
	if got := n.State().Index; got != 1 {
		t.Fatalf("Index = %d, want 1", got)
	}
}
