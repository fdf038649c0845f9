package app_test

import (
	"sync"
	"time"

	"little-genius/internal/app"
)

// manualScheduler fires callbacks only when the test says so.
type manualScheduler struct {
	mu       sync.Mutex
	deferred []*manualTimer
	periodic []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
	mu      *sync.Mutex
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) app.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{f: f, mu: &s.mu}
	s.deferred = append(s.deferred, t)
	return t
}

func (s *manualScheduler) Every(_ time.Duration, f func()) app.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{f: f, mu: &s.mu}
	s.periodic = append(s.periodic, t)
	return t
}

// advance runs every pending deferred callback, stopped ones included when force is set.
func (s *manualScheduler) advance(force bool) int {
	s.mu.Lock()
	pending := s.deferred
	s.deferred = nil
	var run []func()
	for _, t := range pending {
		if force || !t.stopped {
			run = append(run, t.f)
		}
	}
	s.mu.Unlock()
	for _, f := range run {
		f()
	}
	return len(run)
}

// tick fires every periodic callback once, stopped ones included when force is set.
func (s *manualScheduler) tick(force bool) {
	s.mu.Lock()
	var run []func()
	for _, t := range s.periodic {
		if force || !t.stopped {
			run = append(run, t.f)
		}
	}
	s.mu.Unlock()
	for _, f := range run {
		f()
	}
}

func (s *manualScheduler) activeTickers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.periodic {
		if !t.stopped {
			n++
		}
	}
	return n
}
