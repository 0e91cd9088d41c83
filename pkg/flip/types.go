package flip

import "fmt"

// Outcome is the face a flip lands on.
type Outcome uint8

const (
	OutcomeHeads Outcome = iota
	OutcomeTails
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHeads:
		return "heads"
	case OutcomeTails:
		return "tails"
	}
	return "unknown"
}

// Label returns the banner text shown when a flip lands.
func (o Outcome) Label() string {
	switch o {
	case OutcomeHeads:
		return "HEADS!"
	case OutcomeTails:
		return "TAILS!"
	}
	return ""
}

// ParseOutcome parses the lower-case outcome name produced by String.
func ParseOutcome(s string) (Outcome, bool) {
	switch s {
	case "heads":
		return OutcomeHeads, true
	case "tails":
		return OutcomeTails, true
	}
	return 0, false
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	parsed, ok := ParseOutcome(string(b))
	if !ok {
		return fmt.Errorf("unknown outcome: %s", b)
	}
	*o = parsed
	return nil
}

// OutcomeFromSample maps a sample in [0, 1) to an outcome.
// Samples strictly below one half are heads.
func OutcomeFromSample(sample float64) Outcome {
	if sample < 0.5 {
		return OutcomeHeads
	}
	return OutcomeTails
}

// Record is one completed flip as it appears on the timeline.
type Record struct {
	// Sequence is the 1-based number of the flip since the last reset.
	Sequence uint `json:"sequence"`
	// Outcome is the face the coin landed on.
	Outcome Outcome `json:"outcome"`
	// Timestamp is the completion time formatted as HH:MM:SS.
	Timestamp string `json:"timestamp"`
}

// Tally holds the running totals of each outcome.
type Tally struct {
	Heads uint `json:"heads"`
	Tails uint `json:"tails"`
}

func (t Tally) Total() uint {
	return t.Heads + t.Tails
}

func (t *Tally) add(o Outcome) {
	switch o {
	case OutcomeHeads:
		t.Heads++
	case OutcomeTails:
		t.Tails++
	}
}

// History is the timeline of completed flips, newest first.
type History struct {
	records []Record
}

// Records returns a copy of the timeline, newest first.
func (h *History) Records() []Record {
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

func (h *History) Len() int {
	return len(h.records)
}

// Latest returns the most recently inserted record.
func (h *History) Latest() (Record, bool) {
	if len(h.records) == 0 {
		return Record{}, false
	}
	return h.records[0], true
}

func (h *History) prepend(r Record) {
	h.records = append(h.records, Record{})
	copy(h.records[1:], h.records)
	h.records[0] = r
}

// SessionState is everything the engine owns for one widget session.
type SessionState struct {
	Tally          Tally
	History        History
	FlipInProgress bool
}

// Snapshot is an immutable copy of a SessionState that can be handed to
// readers on other goroutines.
type Snapshot struct {
	Tally          Tally    `json:"tally"`
	Total          uint     `json:"total"`
	History        []Record `json:"history"`
	FlipInProgress bool     `json:"flipInProgress"`
	// LastOutcome is the outcome shown on the result banner. Nil while a flip
	// is in progress or before the first one lands.
	LastOutcome *Outcome `json:"lastOutcome,omitempty"`
}

func (s *SessionState) snapshot() Snapshot {
	snap := Snapshot{
		Tally:          s.Tally,
		Total:          s.Tally.Total(),
		History:        s.History.Records(),
		FlipInProgress: s.FlipInProgress,
	}
	if latest, ok := s.History.Latest(); ok && !s.FlipInProgress {
		o := latest.Outcome
		snap.LastOutcome = &o
	}
	return snap
}
