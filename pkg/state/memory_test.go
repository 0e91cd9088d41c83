package state

import (
	"context"
	"testing"

	"github.com/cbodonnell/coinflip/pkg/flip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStateManager_Initial(t *testing.T) {
	m := NewInMemoryStateManager()
	got, err := m.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(0), got.Total)
	assert.NotNil(t, got.History)
	assert.Empty(t, got.History)
	assert.Nil(t, got.LastOutcome)
}

func TestInMemoryStateManager_SetCopies(t *testing.T) {
	m := NewInMemoryStateManager()
	ctx := context.Background()

	outcome := flip.OutcomeHeads
	snapshot := flip.Snapshot{
		Tally:       flip.Tally{Heads: 1},
		Total:       1,
		History:     []flip.Record{{Sequence: 1, Outcome: flip.OutcomeHeads, Timestamp: "10:00:00"}},
		LastOutcome: &outcome,
	}
	require.NoError(t, m.Set(ctx, snapshot))

	// mutating the caller's values must not leak into the stored snapshot
	snapshot.History[0].Sequence = 99
	outcome = flip.OutcomeTails

	got, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.History[0].Sequence)
	require.NotNil(t, got.LastOutcome)
	assert.Equal(t, flip.OutcomeHeads, *got.LastOutcome)

	// nor may mutating a returned copy
	got.History[0].Sequence = 42
	again, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), again.History[0].Sequence)
}

func TestInMemoryStateManager_CanceledContext(t *testing.T) {
	m := NewInMemoryStateManager()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, m.Set(ctx, flip.Snapshot{}), context.Canceled)
}
