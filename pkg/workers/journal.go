package workers

import (
	"context"

	"github.com/cbodonnell/coinflip/pkg/log"
	"github.com/cbodonnell/coinflip/pkg/repositories"
	"github.com/cbodonnell/coinflip/pkg/repositories/models"
)

// JournalWorker writes journal entries produced by the session loop to the
// repository so the loop never waits on the database.
type JournalWorker struct {
	repository  repositories.Repository
	journalChan <-chan models.JournalEntry
}

type NewJournalWorkerOptions struct {
	Repository  repositories.Repository
	JournalChan <-chan models.JournalEntry
}

func NewJournalWorker(opts NewJournalWorkerOptions) *JournalWorker {
	return &JournalWorker{
		repository:  opts.Repository,
		journalChan: opts.JournalChan,
	}
}

// Start blocks until ctx is done. Entries still buffered at that point are
// written before it returns.
func (w *JournalWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case entry := <-w.journalChan:
			w.save(ctx, entry)
		}
	}
}

func (w *JournalWorker) drain() {
	for {
		select {
		case entry := <-w.journalChan:
			w.save(context.Background(), entry)
		default:
			return
		}
	}
}

func (w *JournalWorker) save(ctx context.Context, entry models.JournalEntry) {
	var err error
	switch entry.Kind {
	case models.JournalEntryKindFlip:
		err = w.repository.SaveFlip(ctx, entry)
	case models.JournalEntryKindReset:
		err = w.repository.SaveReset(ctx, entry)
	default:
		log.Error("Unknown journal entry kind: %s", entry.Kind)
		return
	}
	if err != nil {
		log.Error("Failed to save %s journal entry: %v", entry.Kind, err)
	}
}
