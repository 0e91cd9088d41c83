package repositories

import (
	"context"

	"github.com/cbodonnell/coinflip/pkg/repositories/models"
)

// Repository stores the flip journal: an append-only audit trail of
// completed flips and resets. Nothing in it is ever loaded back into a
// running session.
type Repository interface {
	Close(ctx context.Context) error
	SaveFlip(ctx context.Context, entry models.JournalEntry) error
	SaveReset(ctx context.Context, entry models.JournalEntry) error
	// ListFlips returns the most recent flips of a session, newest first.
	ListFlips(ctx context.Context, sessionID string, limit int) ([]models.Flip, error)
	// LatestFlip returns the newest flip of a session, or ErrNotFound.
	LatestFlip(ctx context.Context, sessionID string) (models.Flip, error)
	// CountResets returns how many times a session was reset.
	CountResets(ctx context.Context, sessionID string) (int, error)
}

type ErrNotFound struct {
}

func (e *ErrNotFound) Error() string {
	return "not found"
}

func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}

const (
	// DefaultListLimit is used when a non-positive limit is requested.
	DefaultListLimit = 50
	// MaxListLimit caps how many flips a single list call returns.
	MaxListLimit = 1000
)

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
