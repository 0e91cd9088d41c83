package presenters

import (
	"github.com/cbodonnell/coinflip/pkg/flip"
	"github.com/cbodonnell/coinflip/pkg/log"
	"github.com/cbodonnell/coinflip/pkg/messages"
	"github.com/cbodonnell/coinflip/pkg/repositories/models"
)

// Events turns view updates into wire messages for connected clients and
// journal entries for the flip journal.
//
// Sends never block the engine loop. When a channel is full the event is
// dropped and a warning is logged.
type Events struct {
	sessionID   string
	clock       flip.Clock
	messageChan chan<- *messages.Message
	journalChan chan<- models.JournalEntry

	landed  bool
	cleared bool
}

var _ flip.Presenter = &Events{}

type NewEventsOptions struct {
	SessionID string
	Clock     flip.Clock
	// MessageChan receives broadcast messages. Optional.
	MessageChan chan<- *messages.Message
	// JournalChan receives completed flips and resets. Optional.
	JournalChan chan<- models.JournalEntry
}

func NewEvents(opts NewEventsOptions) *Events {
	return &Events{
		sessionID:   opts.SessionID,
		clock:       opts.Clock,
		messageChan: opts.MessageChan,
		journalChan: opts.JournalChan,
	}
}

func (p *Events) ShowFlipping(outcome flip.Outcome) {
	p.broadcast(messages.MessageTypeServerFlipStarted, &messages.ServerFlipStarted{Outcome: outcome})
}

func (p *Events) ShowResult(outcome flip.Outcome) {
	p.landed = true
	p.broadcast(messages.MessageTypeServerFlipResult, &messages.ServerFlipResult{Outcome: outcome})
}

func (p *Events) ClearResult() {
	p.cleared = true
	p.broadcast(messages.MessageTypeServerClearResult, nil)
}

func (p *Events) RenderTally(heads, tails, total uint) {
	p.broadcast(messages.MessageTypeServerTally, &messages.ServerTally{
		Heads: heads,
		Tails: tails,
		Total: total,
	})
}

func (p *Events) RenderHistory(records []flip.Record) {
	p.broadcast(messages.MessageTypeServerHistory, &messages.ServerHistory{Records: records})

	if p.landed && len(records) > 0 {
		latest := records[0]
		p.journal(models.JournalEntry{
			Kind:     models.JournalEntryKindFlip,
			Sequence: latest.Sequence,
			Outcome:  latest.Outcome.String(),
			Time:     latest.Timestamp,
		})
	}
	p.landed = false
}

func (p *Events) RenderEmptyHistory() {
	p.broadcast(messages.MessageTypeServerHistory, &messages.ServerHistory{Records: []flip.Record{}})

	if p.cleared {
		p.journal(models.JournalEntry{
			Kind: models.JournalEntryKindReset,
		})
	}
	p.cleared = false
}

func (p *Events) broadcast(messageType messages.MessageType, payload interface{}) {
	if p.messageChan == nil {
		return
	}
	msg, err := messages.NewMessage(p.sessionID, messageType, p.clock.Now().UnixMilli(), payload)
	if err != nil {
		log.Error("Failed to create %s message: %v", messageType, err)
		return
	}
	select {
	case p.messageChan <- msg:
	default:
		log.Warn("Broadcast channel is full, dropping %s message", messageType)
	}
}

func (p *Events) journal(entry models.JournalEntry) {
	if p.journalChan == nil {
		return
	}
	entry.SessionID = p.sessionID
	entry.CreatedAt = p.clock.Now()
	select {
	case p.journalChan <- entry:
	default:
		log.Warn("Journal channel is full, dropping %s entry", entry.Kind)
	}
}
