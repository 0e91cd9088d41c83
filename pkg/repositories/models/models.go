package models

import "time"

type JournalEntryKind string

const (
	JournalEntryKindFlip  JournalEntryKind = "flip"
	JournalEntryKindReset JournalEntryKind = "reset"
)

// JournalEntry is one line of the flip journal.
type JournalEntry struct {
	Kind      JournalEntryKind `json:"kind"`
	SessionID string           `json:"session_id"`
	CreatedAt time.Time        `json:"created_at"`
	// Flip fields are empty for resets.
	Sequence uint   `json:"sequence,omitempty"`
	Outcome  string `json:"outcome,omitempty"`
	Time     string `json:"time,omitempty"`
}

// Flip is a completed flip as stored in the journal.
type Flip struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Sequence  uint      `json:"sequence"`
	Outcome   string    `json:"outcome"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"created_at"`
}
