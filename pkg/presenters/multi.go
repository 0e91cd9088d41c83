package presenters

import "github.com/cbodonnell/coinflip/pkg/flip"

// Multi forwards every call to each presenter in order.
type Multi []flip.Presenter

var _ flip.Presenter = Multi{}

func (m Multi) ShowFlipping(outcome flip.Outcome) {
	for _, p := range m {
		p.ShowFlipping(outcome)
	}
}

func (m Multi) ShowResult(outcome flip.Outcome) {
	for _, p := range m {
		p.ShowResult(outcome)
	}
}

func (m Multi) ClearResult() {
	for _, p := range m {
		p.ClearResult()
	}
}

func (m Multi) RenderTally(heads, tails, total uint) {
	for _, p := range m {
		p.RenderTally(heads, tails, total)
	}
}

func (m Multi) RenderHistory(records []flip.Record) {
	for _, p := range m {
		p.RenderHistory(records)
	}
}

func (m Multi) RenderEmptyHistory() {
	for _, p := range m {
		p.RenderEmptyHistory()
	}
}
