package flip

import (
	"time"

	"github.com/cbodonnell/coinflip/pkg/log"
)

const (
	// DefaultFlipDelay matches the duration of the coin spin animation.
	DefaultFlipDelay = 2 * time.Second
	// TimestampLayout is the zero-padded 24-hour layout used on the timeline.
	TimestampLayout = "15:04:05"
)

// FormatTimestamp formats t the way it is shown on the timeline.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// RandomSource produces uniformly distributed samples in [0, 1).
type RandomSource interface {
	Next() float64
}

// Clock supplies the completion time of a flip.
type Clock interface {
	Now() time.Time
}

// Scheduler runs fn once after d has elapsed.
// Implementations must deliver fn on the goroutine that owns the engine.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Presenter is the rendering target the engine writes to.
type Presenter interface {
	// ShowFlipping enters the transient flipping state: the trigger is
	// disabled, the result banner hidden and the spin keyed by outcome started.
	ShowFlipping(outcome Outcome)
	// ShowResult shows the result banner for outcome.
	ShowResult(outcome Outcome)
	// ClearResult hides the result banner and puts the coin back at rest.
	ClearResult()
	RenderTally(heads, tails, total uint)
	// RenderHistory renders the timeline, newest first.
	RenderHistory(records []Record)
	// RenderEmptyHistory renders the placeholder shown when there are no flips.
	RenderEmptyHistory()
}

// Engine owns the state of one coin flip widget.
//
// Engine is not safe for concurrent use. All calls, including the scheduled
// completion, must happen on a single goroutine.
type Engine struct {
	random    RandomSource
	presenter Presenter
	clock     Clock
	scheduler Scheduler
	delay     time.Duration

	state SessionState
}

// NewEngineOptions contains options for creating a new Engine.
type NewEngineOptions struct {
	Random    RandomSource
	Presenter Presenter
	Clock     Clock
	Scheduler Scheduler
	// FlipDelay is the time between an accepted request and its completion.
	// Zero means DefaultFlipDelay.
	FlipDelay time.Duration
}

func NewEngine(opts NewEngineOptions) *Engine {
	delay := opts.FlipDelay
	if delay <= 0 {
		delay = DefaultFlipDelay
	}

	return &Engine{
		random:    opts.Random,
		presenter: opts.Presenter,
		clock:     opts.Clock,
		scheduler: opts.Scheduler,
		delay:     delay,
	}
}

// Init renders the initial empty state.
func (e *Engine) Init() {
	e.render()
}

// RequestFlip starts a flip unless one is already in flight, in which case
// the request is silently dropped.
func (e *Engine) RequestFlip() {
	if e.state.FlipInProgress {
		log.Trace("Flip requested while flipping, ignoring")
		return
	}
	e.state.FlipInProgress = true

	outcome := OutcomeFromSample(e.random.Next())
	e.presenter.ShowFlipping(outcome)

	log.Debug("Flip accepted, landing in %s", e.delay)
	e.scheduler.After(e.delay, func() {
		e.completeFlip(outcome)
	})
}

// completeFlip applies the outcome of the flip in flight.
func (e *Engine) completeFlip(outcome Outcome) {
	e.state.Tally.add(outcome)
	record := Record{
		Sequence:  e.state.Tally.Total(),
		Outcome:   outcome,
		Timestamp: FormatTimestamp(e.clock.Now()),
	}
	e.state.History.prepend(record)
	e.state.FlipInProgress = false

	log.Debug("Flip #%d landed %s", record.Sequence, outcome)

	e.presenter.ShowResult(outcome)
	e.render()
}

// Reset clears the tally and the timeline. It is ignored while a flip is in
// flight.
func (e *Engine) Reset() {
	if e.state.FlipInProgress {
		log.Trace("Reset requested while flipping, ignoring")
		return
	}
	e.state = SessionState{}

	log.Debug("Session reset")

	e.presenter.ClearResult()
	e.render()
}

func (e *Engine) render() {
	t := e.state.Tally
	e.presenter.RenderTally(t.Heads, t.Tails, t.Total())
	if e.state.History.Len() == 0 {
		e.presenter.RenderEmptyHistory()
		return
	}
	e.presenter.RenderHistory(e.state.History.Records())
}

// Busy reports whether a flip is in flight.
func (e *Engine) Busy() bool {
	return e.state.FlipInProgress
}

// State returns a copy of the current session state.
func (e *Engine) State() Snapshot {
	return e.state.snapshot()
}
