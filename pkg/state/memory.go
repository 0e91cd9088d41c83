package state

import (
	"context"
	"sync"

	"github.com/cbodonnell/coinflip/pkg/flip"
)

type InMemoryStateManager struct {
	lock     sync.RWMutex
	snapshot flip.Snapshot
}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{
		snapshot: flip.Snapshot{
			History: []flip.Record{},
		},
	}
}

func (m *InMemoryStateManager) Get(ctx context.Context) (flip.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return flip.Snapshot{}, err
	}

	m.lock.RLock()
	defer m.lock.RUnlock()
	return copySnapshot(m.snapshot), nil
}

func (m *InMemoryStateManager) Set(ctx context.Context, snapshot flip.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	m.snapshot = copySnapshot(snapshot)
	return nil
}

func copySnapshot(s flip.Snapshot) flip.Snapshot {
	c := s
	c.History = make([]flip.Record, len(s.History))
	copy(c.History, s.History)
	if s.LastOutcome != nil {
		o := *s.LastOutcome
		c.LastOutcome = &o
	}
	return c
}
