package timing

import (
	"sort"
	"time"
)

type scheduled struct {
	due time.Duration
	seq int
	fn  func()
}

// ManualScheduler fires callbacks only when Advance moves its virtual time
// past their due time. It is meant for tests and headless drivers that own
// the whole loop.
type ManualScheduler struct {
	elapsed time.Duration
	seq     int
	pending []scheduled
	clock   *ManualClock
}

// NewManualScheduler creates a scheduler. If clock is not nil it is advanced
// in step with the scheduler so callbacks observe the time they fire at.
func NewManualScheduler(clock *ManualClock) *ManualScheduler {
	return &ManualScheduler{
		clock: clock,
	}
}

func (s *ManualScheduler) After(d time.Duration, fn func()) {
	s.seq++
	s.pending = append(s.pending, scheduled{
		due: s.elapsed + d,
		seq: s.seq,
		fn:  fn,
	})
}

// Advance moves virtual time forward by d and runs every callback that is
// due, earliest first. Callbacks scheduled while advancing are run too if they
// fall inside the window. It returns the number of callbacks run.
func (s *ManualScheduler) Advance(d time.Duration) int {
	target := s.elapsed + d
	ran := 0
	for {
		next, ok := s.popDue(target)
		if !ok {
			break
		}
		s.moveTo(next.due)
		next.fn()
		ran++
	}
	s.moveTo(target)
	return ran
}

// RunAll advances until nothing is pending.
func (s *ManualScheduler) RunAll() int {
	ran := 0
	for len(s.pending) > 0 {
		s.sortPending()
		ran += s.Advance(s.pending[0].due - s.elapsed)
	}
	return ran
}

// Pending returns the number of callbacks that have not fired yet.
func (s *ManualScheduler) Pending() int {
	return len(s.pending)
}

// Elapsed returns the virtual time advanced so far.
func (s *ManualScheduler) Elapsed() time.Duration {
	return s.elapsed
}

func (s *ManualScheduler) popDue(target time.Duration) (scheduled, bool) {
	if len(s.pending) == 0 {
		return scheduled{}, false
	}
	s.sortPending()
	if s.pending[0].due > target {
		return scheduled{}, false
	}
	next := s.pending[0]
	s.pending = s.pending[1:]
	return next, true
}

func (s *ManualScheduler) sortPending() {
	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].due == s.pending[j].due {
			return s.pending[i].seq < s.pending[j].seq
		}
		return s.pending[i].due < s.pending[j].due
	})
}

func (s *ManualScheduler) moveTo(t time.Duration) {
	if t <= s.elapsed {
		return
	}
	if s.clock != nil {
		s.clock.Advance(t - s.elapsed)
	}
	s.elapsed = t
}
