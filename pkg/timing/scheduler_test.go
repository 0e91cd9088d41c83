package timing

import (
	"testing"
	"time"

	"github.com/cbodonnell/coinflip/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimers struct {
	delays []time.Duration
	fns    []func()
}

func (f *fakeTimers) afterFunc(d time.Duration, fn func()) *time.Timer {
	f.delays = append(f.delays, d)
	f.fns = append(f.fns, fn)
	return nil
}

func (f *fakeTimers) fire(i int) {
	f.fns[i]()
}

func TestLoopScheduler_RunsOnlyAfterTimerFires(t *testing.T) {
	timers := &fakeTimers{}
	s := NewLoopScheduler(queue.NewInMemoryQueue(8))
	s.afterFunc = timers.afterFunc

	ran := false
	s.After(2*time.Second, func() { ran = true })

	require.Len(t, timers.delays, 1)
	assert.Equal(t, 2*time.Second, timers.delays[0])
	assert.Equal(t, 0, s.RunPending())
	assert.False(t, ran)

	timers.fire(0)
	assert.Equal(t, 1, s.Pending())
	assert.False(t, ran, "callback must wait for the loop")

	assert.Equal(t, 1, s.RunPending())
	assert.True(t, ran)
	assert.Equal(t, 0, s.Pending())
}

func TestLoopScheduler_FIFO(t *testing.T) {
	timers := &fakeTimers{}
	s := NewLoopScheduler(queue.NewInMemoryQueue(8))
	s.afterFunc = timers.afterFunc

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		s.After(time.Second, func() { order = append(order, i) })
	}
	for i := range timers.fns {
		timers.fire(i)
	}

	assert.Equal(t, 3, s.RunPending())
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestLoopScheduler_RetriesWhenQueueIsFull(t *testing.T) {
	timers := &fakeTimers{}
	q := queue.NewInMemoryQueue(1)
	s := NewLoopScheduler(q)
	s.afterFunc = timers.afterFunc

	require.NoError(t, q.Enqueue(func() {}))

	ran := false
	s.After(time.Second, func() { ran = true })
	timers.fire(0)

	require.Len(t, timers.delays, 2, "a retry timer should be armed")
	assert.Equal(t, enqueueRetryDelay, timers.delays[1])

	assert.Equal(t, 1, s.RunPending())
	assert.False(t, ran)

	timers.fire(1)
	assert.Equal(t, 1, s.RunPending())
	assert.True(t, ran)
}

func TestLoopScheduler_RealTimer(t *testing.T) {
	s := NewLoopScheduler(queue.NewInMemoryQueue(8))
	done := make(chan struct{})
	s.After(5*time.Millisecond, func() { close(done) })

	require.Eventually(t, func() bool {
		return s.RunPending() == 1
	}, time.Second, time.Millisecond)

	select {
	case <-done:
	default:
		t.Fatal("callback did not run")
	}
}

func TestManualScheduler_Advance(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)
	s := NewManualScheduler(clock)

	var fired []time.Time
	s.After(2*time.Second, func() { fired = append(fired, clock.Now()) })
	s.After(time.Second, func() { fired = append(fired, clock.Now()) })

	assert.Equal(t, 0, s.Advance(999*time.Millisecond))
	assert.Equal(t, 1, s.Advance(time.Millisecond))
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, 1, s.Advance(5*time.Second))

	require.Len(t, fired, 2)
	assert.Equal(t, start.Add(time.Second), fired[0])
	assert.Equal(t, start.Add(2*time.Second), fired[1])
	assert.Equal(t, start.Add(6*time.Second), clock.Now())
	assert.Equal(t, 6*time.Second, s.Elapsed())
}

func TestManualScheduler_SameDueKeepsOrder(t *testing.T) {
	s := NewManualScheduler(nil)
	var order []string
	s.After(time.Second, func() { order = append(order, "a") })
	s.After(time.Second, func() { order = append(order, "b") })

	assert.Equal(t, 2, s.RunAll())
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestManualScheduler_ChainedCallbacks(t *testing.T) {
	s := NewManualScheduler(nil)
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			s.After(time.Second, tick)
		}
	}
	s.After(time.Second, tick)

	assert.Equal(t, 3, s.RunAll())
	assert.Equal(t, 3*time.Second, s.Elapsed())
	assert.Equal(t, 0, s.Pending())
}
