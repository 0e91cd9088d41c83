package flip_test

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	mocks "github.com/cbodonnell/coinflip/mocks/github.com/cbodonnell/coinflip/pkg/flip"
	"github.com/cbodonnell/coinflip/pkg/flip"
	"github.com/cbodonnell/coinflip/pkg/timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type testEngine struct {
	engine    *flip.Engine
	random    *mocks.RandomSource
	presenter *mocks.Presenter
	scheduler *timing.ManualScheduler
	clock     *timing.ManualClock
}

func newTestEngine(t *testing.T) *testEngine {
	clock := timing.NewManualClock(testStart)
	te := &testEngine{
		random:    mocks.NewRandomSource(t),
		presenter: mocks.NewPresenter(t),
		scheduler: timing.NewManualScheduler(clock),
		clock:     clock,
	}
	te.engine = flip.NewEngine(flip.NewEngineOptions{
		Random:    te.random,
		Presenter: te.presenter,
		Clock:     clock,
		Scheduler: te.scheduler,
	})
	return te
}

// allowRendering accepts any presenter call.
func (te *testEngine) allowRendering() {
	te.presenter.On("ShowFlipping", mock.Anything).Return().Maybe()
	te.presenter.On("ShowResult", mock.Anything).Return().Maybe()
	te.presenter.On("ClearResult").Return().Maybe()
	te.presenter.On("RenderTally", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	te.presenter.On("RenderHistory", mock.Anything).Return().Maybe()
	te.presenter.On("RenderEmptyHistory").Return().Maybe()
}

func (te *testEngine) flip(sample float64) {
	te.random.On("Next").Return(sample).Once()
	te.engine.RequestFlip()
	te.scheduler.Advance(flip.DefaultFlipDelay)
}

func calledMethods(m *mock.Mock) []string {
	var names []string
	for _, c := range m.Calls {
		names = append(names, c.Method)
	}
	return names
}

func TestOutcomeFromSample(t *testing.T) {
	tests := []struct {
		name   string
		sample float64
		want   flip.Outcome
	}{
		{"zero", 0, flip.OutcomeHeads},
		{"just below half", 0.4999999, flip.OutcomeHeads},
		{"half", 0.5, flip.OutcomeTails},
		{"almost one", 0.9999999, flip.OutcomeTails},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flip.OutcomeFromSample(tt.sample))
		})
	}
}

func TestEngine_Init(t *testing.T) {
	te := newTestEngine(t)
	te.presenter.On("RenderTally", uint(0), uint(0), uint(0)).Return().Once()
	te.presenter.On("RenderEmptyHistory").Return().Once()

	te.engine.Init()

	assert.Equal(t, []string{"RenderTally", "RenderEmptyHistory"}, calledMethods(&te.presenter.Mock))
}

func TestEngine_FirstFlipHeads(t *testing.T) {
	te := newTestEngine(t)
	te.random.On("Next").Return(0.3).Once()
	te.presenter.On("ShowFlipping", flip.OutcomeHeads).Return().Once()

	te.engine.RequestFlip()

	assert.True(t, te.engine.Busy())
	assert.Equal(t, 1, te.scheduler.Pending())

	// nothing lands before the animation is over
	te.scheduler.Advance(flip.DefaultFlipDelay - time.Millisecond)
	assert.True(t, te.engine.Busy())
	assert.Equal(t, uint(0), te.engine.State().Total)

	want := []flip.Record{{Sequence: 1, Outcome: flip.OutcomeHeads, Timestamp: "09:00:02"}}
	te.presenter.On("ShowResult", flip.OutcomeHeads).Return().Once()
	te.presenter.On("RenderTally", uint(1), uint(0), uint(1)).Return().Once()
	te.presenter.On("RenderHistory", want).Return().Once()

	te.scheduler.Advance(time.Millisecond)

	state := te.engine.State()
	assert.False(t, state.FlipInProgress)
	assert.Equal(t, flip.Tally{Heads: 1, Tails: 0}, state.Tally)
	assert.Equal(t, want, state.History)
	require.NotNil(t, state.LastOutcome)
	assert.Equal(t, flip.OutcomeHeads, *state.LastOutcome)
	assert.Equal(t,
		[]string{"ShowFlipping", "ShowResult", "RenderTally", "RenderHistory"},
		calledMethods(&te.presenter.Mock),
	)
}

func TestEngine_StateHidesLastOutcomeWhileFlipping(t *testing.T) {
	te := newTestEngine(t)
	te.allowRendering()
	te.flip(0.2)

	state := te.engine.State()
	require.NotNil(t, state.LastOutcome)
	assert.Equal(t, flip.OutcomeHeads, *state.LastOutcome)

	te.random.On("Next").Return(0.8).Once()
	te.engine.RequestFlip()

	state = te.engine.State()
	assert.True(t, state.FlipInProgress)
	assert.Nil(t, state.LastOutcome)
	assert.Len(t, state.History, 1)

	te.scheduler.Advance(flip.DefaultFlipDelay)

	state = te.engine.State()
	assert.False(t, state.FlipInProgress)
	require.NotNil(t, state.LastOutcome)
	assert.Equal(t, flip.OutcomeTails, *state.LastOutcome)
}

func TestEngine_SecondFlipTails(t *testing.T) {
	te := newTestEngine(t)
	te.allowRendering()

	te.flip(0.3)
	te.flip(0.7)

	state := te.engine.State()
	assert.Equal(t, flip.Tally{Heads: 1, Tails: 1}, state.Tally)
	assert.Equal(t, uint(2), state.Total)
	require.Len(t, state.History, 2)
	assert.Equal(t, uint(2), state.History[0].Sequence)
	assert.Equal(t, flip.OutcomeTails, state.History[0].Outcome)
	assert.Equal(t, uint(1), state.History[1].Sequence)
	assert.Equal(t, flip.OutcomeHeads, state.History[1].Outcome)
	te.presenter.AssertCalled(t, "ShowFlipping", flip.OutcomeTails)
	te.presenter.AssertCalled(t, "RenderTally", uint(1), uint(1), uint(2))
}

func TestEngine_RequestFlipWhileFlippingIsIgnored(t *testing.T) {
	random := mocks.NewRandomSource(t)
	presenter := mocks.NewPresenter(t)
	scheduler := mocks.NewScheduler(t)

	engine := flip.NewEngine(flip.NewEngineOptions{
		Random:    random,
		Presenter: presenter,
		Clock:     timing.NewManualClock(testStart),
		Scheduler: scheduler,
	})

	random.On("Next").Return(0.9).Once()
	presenter.On("ShowFlipping", flip.OutcomeTails).Return().Once()
	scheduler.On("After", flip.DefaultFlipDelay, mock.AnythingOfType("func()")).Return().Once()

	engine.RequestFlip()
	before := engine.State()

	engine.RequestFlip()
	engine.RequestFlip()

	assert.Equal(t, before, engine.State())
	assert.True(t, engine.Busy())
	scheduler.AssertNumberOfCalls(t, "After", 1)
	random.AssertNumberOfCalls(t, "Next", 1)
}

func TestEngine_DoubleRequestCompletesOnce(t *testing.T) {
	te := newTestEngine(t)
	te.allowRendering()
	te.random.On("Next").Return(0.2).Once()

	te.engine.RequestFlip()
	te.scheduler.Advance(time.Second)
	te.engine.RequestFlip()

	assert.Equal(t, 1, te.scheduler.RunAll())
	assert.Equal(t, uint(1), te.engine.State().Total)
	te.presenter.AssertNumberOfCalls(t, "ShowResult", 1)
}

func TestEngine_ResetWhileFlippingIsIgnored(t *testing.T) {
	te := newTestEngine(t)
	te.allowRendering()
	te.flip(0.1)

	te.random.On("Next").Return(0.6).Once()
	te.engine.RequestFlip()
	before := te.engine.State()

	te.engine.Reset()

	assert.Equal(t, before, te.engine.State())
	te.presenter.AssertNotCalled(t, "ClearResult")

	// the in-flight completion still lands on the untouched state
	te.scheduler.RunAll()
	state := te.engine.State()
	assert.Equal(t, flip.Tally{Heads: 1, Tails: 1}, state.Tally)
	assert.Equal(t, uint(2), state.History[0].Sequence)
}

func TestEngine_ResetWhenIdle(t *testing.T) {
	te := newTestEngine(t)
	te.allowRendering()
	te.flip(0.3)
	te.flip(0.7)
	require.Equal(t, flip.Tally{Heads: 1, Tails: 1}, te.engine.State().Tally)

	te.presenter.Calls = nil
	te.engine.Reset()

	state := te.engine.State()
	assert.Equal(t, flip.Tally{}, state.Tally)
	assert.Empty(t, state.History)
	assert.Nil(t, state.LastOutcome)
	assert.False(t, state.FlipInProgress)
	assert.Equal(t,
		[]string{"ClearResult", "RenderTally", "RenderEmptyHistory"},
		calledMethods(&te.presenter.Mock),
	)
	te.presenter.AssertCalled(t, "RenderTally", uint(0), uint(0), uint(0))
}

func TestEngine_SequenceRestartsAfterReset(t *testing.T) {
	te := newTestEngine(t)
	te.allowRendering()
	te.flip(0.1)
	te.flip(0.2)
	te.flip(0.8)
	te.engine.Reset()
	te.flip(0.9)

	state := te.engine.State()
	require.Len(t, state.History, 1)
	assert.Equal(t, uint(1), state.History[0].Sequence)
	assert.Equal(t, flip.OutcomeTails, state.History[0].Outcome)
}

func TestEngine_TimestampAtCompletion(t *testing.T) {
	te := newTestEngine(t)
	te.allowRendering()
	te.clock.Set(time.Date(2024, 6, 1, 23, 59, 59, 0, time.UTC))

	te.flip(0.4)

	state := te.engine.State()
	require.Len(t, state.History, 1)
	assert.Equal(t, "00:00:01", state.History[0].Timestamp)
}

func TestEngine_CustomDelay(t *testing.T) {
	clock := timing.NewManualClock(testStart)
	scheduler := timing.NewManualScheduler(clock)
	random := mocks.NewRandomSource(t)
	presenter := mocks.NewPresenter(t)
	te := &testEngine{random: random, presenter: presenter, scheduler: scheduler, clock: clock}
	te.allowRendering()
	te.engine = flip.NewEngine(flip.NewEngineOptions{
		Random:    random,
		Presenter: presenter,
		Clock:     clock,
		Scheduler: scheduler,
		FlipDelay: 500 * time.Millisecond,
	})

	random.On("Next").Return(0.5).Once()
	te.engine.RequestFlip()

	assert.Equal(t, 1, scheduler.Advance(500*time.Millisecond))
	assert.Equal(t, "09:00:00", te.engine.State().History[0].Timestamp)
}

func TestEngine_Invariants(t *testing.T) {
	te := newTestEngine(t)
	te.allowRendering()
	rng := rand.New(rand.NewSource(42))
	te.random.On("Next").Return(func() float64 { return rng.Float64() })

	completed := uint(0)
	for i := 0; i < 500; i++ {
		switch op := rng.Intn(4); op {
		case 0, 1:
			wasBusy := te.engine.Busy()
			before := te.engine.State()
			pending := te.scheduler.Pending()
			te.engine.RequestFlip()
			if wasBusy {
				assert.Equal(t, before, te.engine.State())
				assert.Equal(t, pending, te.scheduler.Pending())
			} else {
				assert.Equal(t, 1, te.scheduler.Pending())
			}
		case 2:
			completed += uint(te.scheduler.Advance(time.Duration(rng.Intn(3000)) * time.Millisecond))
		case 3:
			wasBusy := te.engine.Busy()
			before := te.engine.State()
			te.engine.Reset()
			if wasBusy {
				assert.Equal(t, before, te.engine.State())
			} else {
				completed = 0
			}
		}

		state := te.engine.State()
		assert.LessOrEqual(t, te.scheduler.Pending(), 1)
		assert.Equal(t, state.FlipInProgress, te.scheduler.Pending() == 1)
		assert.Equal(t, completed, state.Tally.Total())
		assert.Equal(t, int(state.Tally.Total()), len(state.History))
		for j, record := range state.History {
			// newest first, numbered from 1 in creation order
			assert.Equal(t, uint(len(state.History)-j), record.Sequence)
		}
	}
}

func TestSnapshot_JSON(t *testing.T) {
	te := newTestEngine(t)
	te.allowRendering()
	te.flip(0.7)

	b, err := json.Marshal(te.engine.State())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"tally": {"heads": 0, "tails": 1},
		"total": 1,
		"history": [{"sequence": 1, "outcome": "tails", "timestamp": "09:00:02"}],
		"flipInProgress": false,
		"lastOutcome": "tails"
	}`, string(b))

	var decoded flip.Snapshot
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, te.engine.State(), decoded)
}
