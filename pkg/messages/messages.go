package messages

import (
	"encoding/json"
	"fmt"

	"github.com/cbodonnell/coinflip/pkg/flip"
)

type MessageType byte

const (
	MessageTypeClientPing MessageType = iota + 1
	MessageTypeServerPong
	MessageTypeServerSnapshot
	MessageTypeServerFlipStarted
	MessageTypeServerFlipResult
	MessageTypeServerClearResult
	MessageTypeServerTally
	MessageTypeServerHistory
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeClientPing:
		return "ping"
	case MessageTypeServerPong:
		return "pong"
	case MessageTypeServerSnapshot:
		return "snapshot"
	case MessageTypeServerFlipStarted:
		return "flip_started"
	case MessageTypeServerFlipResult:
		return "flip_result"
	case MessageTypeServerClearResult:
		return "clear_result"
	case MessageTypeServerTally:
		return "tally"
	case MessageTypeServerHistory:
		return "history"
	}
	return "unknown"
}

// Message is the envelope for everything sent over the wire.
type Message struct {
	SessionID string          `json:"sessionID"`
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewMessage wraps payload in a Message of the given type.
func NewMessage(sessionID string, messageType MessageType, timestamp int64, payload interface{}) (*Message, error) {
	var b []byte
	if payload != nil {
		var err error
		b, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %v", messageType, err)
		}
	}
	return &Message{
		SessionID: sessionID,
		Type:      messageType,
		Timestamp: timestamp,
		Payload:   b,
	}, nil
}

// ServerSnapshot carries the full widget state, sent when a client connects.
type ServerSnapshot struct {
	Snapshot flip.Snapshot `json:"snapshot"`
}

// ServerFlipStarted tells clients to start spinning the coin.
type ServerFlipStarted struct {
	Outcome flip.Outcome `json:"outcome"`
}

// ServerFlipResult tells clients to show the result banner.
type ServerFlipResult struct {
	Outcome flip.Outcome `json:"outcome"`
}

// ServerTally carries the counters.
type ServerTally struct {
	Heads uint `json:"heads"`
	Tails uint `json:"tails"`
	Total uint `json:"total"`
}

// ServerHistory carries the timeline, newest first. An empty list means the
// placeholder should be shown.
type ServerHistory struct {
	Records []flip.Record `json:"records"`
}
