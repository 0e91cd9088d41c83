package session

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/coinflip/pkg/flip"
	"github.com/cbodonnell/coinflip/pkg/log"
	"github.com/cbodonnell/coinflip/pkg/queue"
	"github.com/cbodonnell/coinflip/pkg/state"
	"github.com/google/uuid"
)

const (
	// DefaultTickInterval is how often the session loop runs.
	DefaultTickInterval = 50 * time.Millisecond
)

type CommandType int

const (
	CommandFlip CommandType = iota
	CommandReset
)

func (c CommandType) String() string {
	switch c {
	case CommandFlip:
		return "flip"
	case CommandReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Command is a user action waiting to be applied on the session loop.
type Command struct {
	Type CommandType
}

// PendingRunner runs callbacks that became due since the last call.
type PendingRunner interface {
	RunPending() int
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Manager owns a flip engine and drives it from a single goroutine.
// Other goroutines interact with it only through Submit and the published
// snapshots.
type Manager struct {
	sessionID    string
	engine       *flip.Engine
	scheduler    PendingRunner
	commandQueue queue.Queue
	stateManager state.StateManager
	tickInterval time.Duration
}

// NewManagerOptions contains options for creating a new Manager.
type NewManagerOptions struct {
	SessionID    string
	Engine       *flip.Engine
	Scheduler    PendingRunner
	CommandQueue queue.Queue
	StateManager state.StateManager
	TickInterval time.Duration
}

func NewManager(opts NewManagerOptions) *Manager {
	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}

	return &Manager{
		sessionID:    opts.SessionID,
		engine:       opts.Engine,
		scheduler:    opts.Scheduler,
		commandQueue: opts.CommandQueue,
		stateManager: opts.StateManager,
		tickInterval: tickInterval,
	}
}

func (m *Manager) SessionID() string {
	return m.sessionID
}

// Submit queues a command for the session loop. It never blocks.
func (m *Manager) Submit(cmd Command) error {
	if err := m.commandQueue.Enqueue(cmd); err != nil {
		return fmt.Errorf("failed to enqueue %s command: %w", cmd.Type, err)
	}
	return nil
}

// RequestFlip queues a flip request.
func (m *Manager) RequestFlip() error {
	return m.Submit(Command{Type: CommandFlip})
}

// RequestReset queues a reset request.
func (m *Manager) RequestReset() error {
	return m.Submit(Command{Type: CommandReset})
}

// Start renders the initial state and runs the session loop until ctx is
// done.
func (m *Manager) Start(ctx context.Context) error {
	m.engine.Init()
	if err := m.publish(ctx); err != nil {
		return fmt.Errorf("failed to publish initial state: %v", err)
	}

	log.Info("Session %s started", m.sessionID)

	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Session %s stopped", m.sessionID)
			return nil
		case <-ticker.C:
			if err := m.tick(ctx); err != nil {
				log.Error("Failed to run session tick: %v", err)
			}
		}
	}
}

// tick runs one iteration of the session loop.
func (m *Manager) tick(ctx context.Context) error {
	changed := m.processCommands()
	if m.scheduler.RunPending() > 0 {
		changed = true
	}
	if !changed {
		return nil
	}
	return m.publish(ctx)
}

// processCommands applies every queued command in arrival order.
func (m *Manager) processCommands() bool {
	pending, err := m.commandQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read session commands: %v", err)
		return false
	}

	for _, item := range pending {
		cmd, ok := item.(Command)
		if !ok {
			log.Error("Unexpected item on command queue: %T", item)
			continue
		}
		switch cmd.Type {
		case CommandFlip:
			m.engine.RequestFlip()
		case CommandReset:
			m.engine.Reset()
		default:
			log.Warn("Unknown session command: %d", cmd.Type)
		}
	}
	return len(pending) > 0
}

func (m *Manager) publish(ctx context.Context) error {
	if err := m.stateManager.Set(ctx, m.engine.State()); err != nil {
		return fmt.Errorf("failed to set session state: %v", err)
	}
	return nil
}
