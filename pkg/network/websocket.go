package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cbodonnell/coinflip/pkg/flip"
	"github.com/cbodonnell/coinflip/pkg/log"
	"github.com/cbodonnell/coinflip/pkg/messages"
	"github.com/cbodonnell/coinflip/pkg/state"
	"nhooyr.io/websocket"
)

const (
	// WriteTimeout bounds how long a single write to a client may take.
	WriteTimeout = 5 * time.Second
	// ReadLimit is the largest message accepted from a client.
	ReadLimit = 4096
)

// WSServer accepts spectator connections that mirror the widget.
type WSServer struct {
	sessionID     string
	clientManager *ClientManager
	stateManager  state.StateManager
}

type NewWSServerOptions struct {
	SessionID     string
	ClientManager *ClientManager
	StateManager  state.StateManager
}

// NewWSServer creates a new WebSocket server.
func NewWSServer(opts NewWSServerOptions) *WSServer {
	return &WSServer{
		sessionID:     opts.SessionID,
		clientManager: opts.ClientManager,
		stateManager:  opts.StateManager,
	}
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (s *WSServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Error("Failed to upgrade to WebSocket: %v", err)
		return
	}
	conn.SetReadLimit(ReadLimit)

	// The snapshot goes out before the client joins the broadcast set so a
	// spectator never sees a delta ahead of its baseline.
	if err := s.sendSnapshot(r.Context(), conn); err != nil {
		log.Error("Failed to send snapshot to %s: %v", r.RemoteAddr, err)
		conn.Close(websocket.StatusInternalError, "failed to send snapshot")
		return
	}

	client := s.clientManager.ConnectClient(conn, r.RemoteAddr)
	log.Debug("New WebSocket connection %s from %s", client.ID, r.RemoteAddr)

	s.handleWSConnection(r.Context(), client)
}

// handleWSConnection answers pings until the client goes away.
func (s *WSServer) handleWSConnection(ctx context.Context, client *Client) {
	defer func() {
		s.clientManager.DisconnectClient(client.ID)
		client.WSConn.Close(websocket.StatusNormalClosure, "")
		log.Debug("WebSocket connection %s closed", client.ID)
	}()

	for {
		msg, err := ReadMessageFromWS(ctx, client.WSConn)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && !errors.Is(err, context.Canceled) {
				log.Error("Error reading WebSocket message from %s: %v", client.ID, err)
			}
			return
		}

		switch msg.Type {
		case messages.MessageTypeClientPing:
			pong, err := messages.NewMessage(s.sessionID, messages.MessageTypeServerPong, time.Now().UnixMilli(), nil)
			if err != nil {
				log.Error("Failed to create pong: %v", err)
				continue
			}
			if err := WriteMessageToWS(ctx, client.WSConn, pong); err != nil {
				log.Error("Failed to send pong to %s: %v", client.ID, err)
				return
			}
		default:
			log.Warn("Ignoring %s message from spectator %s", msg.Type, client.ID)
		}
	}
}

func (s *WSServer) sendSnapshot(ctx context.Context, conn *websocket.Conn) error {
	snapshot, err := s.stateManager.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get state: %v", err)
	}
	msg, err := messages.NewMessage(s.sessionID, messages.MessageTypeServerSnapshot, time.Now().UnixMilli(), &messages.ServerSnapshot{
		Snapshot: snapshot,
	})
	if err != nil {
		return err
	}
	return WriteMessageToWS(ctx, conn, msg)
}

// WriteMessageToWS writes a Message to a WebSocket connection.
func WriteMessageToWS(ctx context.Context, conn *websocket.Conn, msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	return WriteBytesToWS(ctx, conn, b)
}

// WriteBytesToWS writes an already serialized message to a WebSocket
// connection.
func WriteBytesToWS(ctx context.Context, conn *websocket.Conn, b []byte) error {
	ctx, cancel := context.WithTimeout(ctx, WriteTimeout)
	defer cancel()

	if err := conn.Write(ctx, websocket.MessageBinary, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}

// ReadMessageFromWS reads a Message from a WebSocket connection.
func ReadMessageFromWS(ctx context.Context, conn *websocket.Conn) (*messages.Message, error) {
	_, b, err := conn.Read(ctx)
	if err != nil {
		return nil, err
	}

	msg, err := messages.DeserializeMessage(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return msg, nil
}

// SnapshotFromMessage decodes the payload of a snapshot message.
func SnapshotFromMessage(msg *messages.Message) (flip.Snapshot, error) {
	if msg.Type != messages.MessageTypeServerSnapshot {
		return flip.Snapshot{}, fmt.Errorf("unexpected message type %s", msg.Type)
	}
	payload := &messages.ServerSnapshot{}
	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		return flip.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %v", err)
	}
	return payload.Snapshot, nil
}
