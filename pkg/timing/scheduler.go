package timing

import (
	"errors"
	"time"

	"github.com/cbodonnell/coinflip/pkg/log"
	"github.com/cbodonnell/coinflip/pkg/queue"
)

const (
	// enqueueRetryDelay is how long a fired timer waits before retrying
	// delivery onto a full loop queue.
	enqueueRetryDelay = 10 * time.Millisecond
)

// LoopScheduler delivers delayed callbacks onto a single consumer loop.
//
// Timers fire on their own goroutines and only hand the callback to the
// queue. The callback itself runs when the owning loop calls RunPending,
// so it never races with anything else the loop does.
type LoopScheduler struct {
	queue     queue.Queue
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// NewLoopScheduler creates a scheduler delivering callbacks through q.
func NewLoopScheduler(q queue.Queue) *LoopScheduler {
	return &LoopScheduler{
		queue:     q,
		afterFunc: time.AfterFunc,
	}
}

// After schedules fn to be run by the loop once d has elapsed.
func (s *LoopScheduler) After(d time.Duration, fn func()) {
	s.afterFunc(d, func() {
		s.deliver(fn)
	})
}

func (s *LoopScheduler) deliver(fn func()) {
	err := s.queue.Enqueue(fn)
	if err == nil {
		return
	}
	if errors.Is(err, queue.ErrQueueFull) {
		log.Warn("Scheduler queue is full, retrying delivery in %s", enqueueRetryDelay)
		s.afterFunc(enqueueRetryDelay, func() {
			s.deliver(fn)
		})
		return
	}
	log.Error("Failed to deliver scheduled callback: %v", err)
}

// RunPending runs every callback that is due, in the order the timers fired.
// It must be called from the loop that owns the scheduled work.
func (s *LoopScheduler) RunPending() int {
	pending, err := s.queue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read scheduled callbacks: %v", err)
		return 0
	}

	ran := 0
	for _, item := range pending {
		fn, ok := item.(func())
		if !ok {
			log.Error("Unexpected item on scheduler queue: %T", item)
			continue
		}
		fn()
		ran++
	}
	return ran
}

// Pending returns the number of callbacks waiting for the loop.
func (s *LoopScheduler) Pending() int {
	return s.queue.Size()
}
