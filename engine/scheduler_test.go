package engine

import (
	"sync"
	"time"
)

// fakeScheduler only fires timers when told to
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	mu      *sync.Mutex
	after   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	live := !t.stopped && !t.fired
	t.stopped = true
	return live
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{mu: &s.mu, after: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// fire runs every live timer set for d and returns how many ran
func (s *fakeScheduler) fire(d time.Duration) int {
	s.mu.Lock()
	due := []*fakeTimer{}
	for _, t := range s.timers {
		if t.after == d && !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

// pending counts live timers set for d
func (s *fakeScheduler) pending(d time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if t.after == d && !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
