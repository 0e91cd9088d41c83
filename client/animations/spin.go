package animations

import (
	"math"
	"time"

	"github.com/cbodonnell/coinflip/pkg/flip"
)

const (
	// MinHalfTurns is the least number of half turns a spin makes.
	MinHalfTurns = 8
	// DefaultTPS is assumed when the game loop reports no tick rate.
	DefaultTPS = 60
)

// FrameStep is how far an animation advances in one tick at tps ticks per
// second.
func FrameStep(tps int) time.Duration {
	if tps <= 0 {
		tps = DefaultTPS
	}
	return time.Second / time.Duration(tps)
}

// Spin animates a coin turning over a horizontal axis and settling on a
// chosen face.
type Spin struct {
	from      flip.Outcome
	to        flip.Outcome
	halfTurns int
	duration  time.Duration
	elapsed   time.Duration
	active    bool
}

// NewSpin returns a spin resting on heads.
func NewSpin() *Spin {
	return &Spin{
		from: flip.OutcomeHeads,
		to:   flip.OutcomeHeads,
	}
}

// Start spins from the face currently shown to outcome over duration.
func (s *Spin) Start(outcome flip.Outcome, duration time.Duration) {
	s.from = s.Face()
	s.to = outcome
	s.halfTurns = MinHalfTurns
	if s.from != s.to {
		s.halfTurns++
	}
	s.duration = duration
	s.elapsed = 0
	s.active = duration > 0
}

// Land stops the spin and shows outcome.
func (s *Spin) Land(outcome flip.Outcome) {
	s.from = outcome
	s.to = outcome
	s.active = false
}

// Reset puts the coin back at rest on heads.
func (s *Spin) Reset() {
	s.Land(flip.OutcomeHeads)
}

// Step advances the spin by dt.
func (s *Spin) Step(dt time.Duration) {
	if !s.active {
		return
	}
	s.elapsed += dt
	if s.elapsed >= s.duration {
		s.elapsed = s.duration
		s.active = false
		s.from = s.to
	}
}

func (s *Spin) Active() bool {
	return s.active
}

// Progress returns how far the spin has run, in [0, 1].
func (s *Spin) Progress() float64 {
	if !s.active || s.duration <= 0 {
		return 1
	}
	return float64(s.elapsed) / float64(s.duration)
}

// ScaleY returns the vertical scale of the coin, 1 when face-on and 0 when
// edge-on.
func (s *Spin) ScaleY() float64 {
	if !s.active {
		return 1
	}
	return math.Abs(math.Cos(s.Progress() * float64(s.halfTurns) * math.Pi))
}

// Face returns the face currently turned towards the viewer.
func (s *Spin) Face() flip.Outcome {
	if !s.active {
		return s.from
	}
	turned := int(math.Floor(s.Progress()*float64(s.halfTurns) + 0.5))
	if turned%2 == 0 {
		return s.from
	}
	return other(s.from)
}

func other(o flip.Outcome) flip.Outcome {
	if o == flip.OutcomeHeads {
		return flip.OutcomeTails
	}
	return flip.OutcomeHeads
}
