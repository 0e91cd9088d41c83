package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/cbodonnell/coinflip/pkg/log"
	"github.com/cbodonnell/coinflip/pkg/queue"
	"github.com/cbodonnell/coinflip/pkg/repositories"
	"github.com/cbodonnell/coinflip/pkg/repositories/models"
	"github.com/cbodonnell/coinflip/pkg/state"
)

// Commander accepts user actions for the session loop.
type Commander interface {
	RequestFlip() error
	RequestReset() error
}

// JournalResponse is the body returned by the journal endpoint.
type JournalResponse struct {
	SessionID string        `json:"session_id"`
	Resets    int           `json:"resets"`
	Flips     []models.Flip `json:"flips"`
}

func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}

func HandleGetState(stateManager state.StateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := stateManager.Get(r.Context())
		if err != nil {
			log.Error("failed to get session state: %v", err)
			http.Error(w, "Failed to get session state", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	}
}

func HandleGetHistory(stateManager state.StateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := stateManager.Get(r.Context())
		if err != nil {
			log.Error("failed to get session state: %v", err)
			http.Error(w, "Failed to get session state", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, snapshot.History)
	}
}

// HandleFlip queues a flip. A flip requested while another is in flight is
// accepted here and dropped by the session.
func HandleFlip(commander Commander) http.HandlerFunc {
	return handleCommand("flip", commander.RequestFlip)
}

// HandleReset queues a reset. A reset requested while flipping is accepted
// here and dropped by the session.
func HandleReset(commander Commander) http.HandlerFunc {
	return handleCommand("reset", commander.RequestReset)
}

func handleCommand(name string, submit func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := submit(); err != nil {
			if errors.Is(err, queue.ErrQueueFull) {
				http.Error(w, "Too many pending commands", http.StatusServiceUnavailable)
				return
			}
			log.Error("failed to submit %s command: %v", name, err)
			http.Error(w, "Failed to submit command", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func HandleGetJournal(repository repositories.Repository, sessionID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		flips, err := repository.ListFlips(r.Context(), sessionID, limit)
		if err != nil {
			log.Error("failed to list flips: %v", err)
			http.Error(w, "Failed to list flips", http.StatusInternalServerError)
			return
		}
		resets, err := repository.CountResets(r.Context(), sessionID)
		if err != nil {
			log.Error("failed to count resets: %v", err)
			http.Error(w, "Failed to count resets", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, JournalResponse{
			SessionID: sessionID,
			Resets:    resets,
			Flips:     flips,
		})
	}
}

// HandleGetLatestFlip serves the newest journaled flip, or 404 before the
// first one lands.
func HandleGetLatestFlip(repository repositories.Repository, sessionID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		latest, err := repository.LatestFlip(r.Context(), sessionID)
		if repositories.IsNotFound(err) {
			http.Error(w, "No flips journaled", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("failed to get latest flip: %v", err)
			http.Error(w, "Failed to get latest flip", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, latest)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}
