package state

import (
	"context"

	"github.com/cbodonnell/coinflip/pkg/flip"
)

// StateManager provides shared read access to the latest published
// session snapshot. Implementations must be thread-safe.
type StateManager interface {
	// Get returns a copy of the latest snapshot.
	Get(ctx context.Context) (flip.Snapshot, error)
	// Set publishes a new snapshot.
	Set(ctx context.Context, snapshot flip.Snapshot) error
}
