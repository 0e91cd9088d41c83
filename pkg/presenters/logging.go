package presenters

import (
	"github.com/cbodonnell/coinflip/pkg/flip"
	"github.com/cbodonnell/coinflip/pkg/log"
)

// Logging writes each view update to a logger. It is what the headless
// server renders to when nothing else is attached.
type Logging struct {
	logger *log.Logger
}

var _ flip.Presenter = &Logging{}

func NewLogging(logger *log.Logger) *Logging {
	return &Logging{
		logger: logger.WithField("component", "presenter"),
	}
}

func (p *Logging) ShowFlipping(outcome flip.Outcome) {
	p.logger.Debug("Coin is spinning")
}

func (p *Logging) ShowResult(outcome flip.Outcome) {
	p.logger.Info("%s", outcome.Label())
}

func (p *Logging) ClearResult() {
	p.logger.Debug("Result cleared")
}

func (p *Logging) RenderTally(heads, tails, total uint) {
	p.logger.Info("%s", FormatTally(heads, tails, total))
}

func (p *Logging) RenderHistory(records []flip.Record) {
	if len(records) == 0 {
		return
	}
	p.logger.Debug("%s (%d on the timeline)", FormatRecord(records[0]), len(records))
}

func (p *Logging) RenderEmptyHistory() {
	p.logger.Debug(EmptyHistoryText)
}
