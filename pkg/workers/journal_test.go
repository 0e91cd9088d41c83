package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	mocks "github.com/cbodonnell/coinflip/mocks/github.com/cbodonnell/coinflip/pkg/repositories"
	"github.com/cbodonnell/coinflip/pkg/repositories/models"
	"github.com/stretchr/testify/mock"
)

func TestJournalWorker_SavesEntries(t *testing.T) {
	repository := mocks.NewRepository(t)
	journalChan := make(chan models.JournalEntry, 4)

	flipEntry := models.JournalEntry{Kind: models.JournalEntryKindFlip, SessionID: "s", Sequence: 1, Outcome: "heads", Time: "10:00:00"}
	resetEntry := models.JournalEntry{Kind: models.JournalEntryKindReset, SessionID: "s"}

	saved := make(chan struct{}, 2)
	repository.On("SaveFlip", mock.Anything, flipEntry).Return(nil).Once().Run(func(mock.Arguments) { saved <- struct{}{} })
	repository.On("SaveReset", mock.Anything, resetEntry).Return(errors.New("disk full")).Once().Run(func(mock.Arguments) { saved <- struct{}{} })

	w := NewJournalWorker(NewJournalWorkerOptions{
		Repository:  repository,
		JournalChan: journalChan,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	journalChan <- flipEntry
	journalChan <- resetEntry
	for i := 0; i < 2; i++ {
		select {
		case <-saved:
		case <-time.After(time.Second):
			t.Fatal("journal entry was not saved")
		}
	}

	cancel()
	<-done
}

func TestJournalWorker_DrainsOnShutdown(t *testing.T) {
	repository := mocks.NewRepository(t)
	journalChan := make(chan models.JournalEntry, 4)
	entry := models.JournalEntry{Kind: models.JournalEntryKindFlip, SessionID: "s", Sequence: 3, Outcome: "tails"}
	repository.On("SaveFlip", mock.Anything, entry).Return(nil).Twice()

	journalChan <- entry
	journalChan <- entry
	journalChan <- models.JournalEntry{Kind: "bogus"}

	w := NewJournalWorker(NewJournalWorkerOptions{
		Repository:  repository,
		JournalChan: journalChan,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)
}
