package network

import (
	"sync"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

const (
	// ClientEventChannelSize represents the size of the client event channel
	ClientEventChannelSize = 1024
)

// Client represents a connected spectator.
type Client struct {
	ID     uuid.UUID
	WSConn *websocket.Conn
	Addr   string
}

// ClientEvent represents something that happened to a client.
type ClientEvent struct {
	ClientID uuid.UUID
	Type     ClientEventType
}

// ClientEventType represents the type of a client event
type ClientEventType int

const (
	ClientEventTypeConnect ClientEventType = iota
	ClientEventTypeDisconnect
)

func (t ClientEventType) String() string {
	switch t {
	case ClientEventTypeConnect:
		return "connect"
	case ClientEventTypeDisconnect:
		return "disconnect"
	}
	return "unknown"
}

// ClientManager tracks connected clients.
type ClientManager struct {
	clients         map[uuid.UUID]*Client
	clientsLock     sync.RWMutex
	clientEventChan chan ClientEvent
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:         make(map[uuid.UUID]*Client),
		clientEventChan: make(chan ClientEvent, ClientEventChannelSize),
	}
}

// GetClientEventChan returns a one-way channel for receiving client events
func (cm *ClientManager) GetClientEventChan() <-chan ClientEvent {
	return cm.clientEventChan
}

// ConnectClient registers conn and returns the new client.
func (cm *ClientManager) ConnectClient(conn *websocket.Conn, addr string) *Client {
	client := &Client{
		ID:     uuid.New(),
		WSConn: conn,
		Addr:   addr,
	}

	cm.clientsLock.Lock()
	cm.clients[client.ID] = client
	cm.clientsLock.Unlock()

	cm.emit(ClientEvent{ClientID: client.ID, Type: ClientEventTypeConnect})
	return client
}

// DisconnectClient forgets the client with the given ID.
func (cm *ClientManager) DisconnectClient(clientID uuid.UUID) {
	cm.clientsLock.Lock()
	_, ok := cm.clients[clientID]
	delete(cm.clients, clientID)
	cm.clientsLock.Unlock()

	if ok {
		cm.emit(ClientEvent{ClientID: clientID, Type: ClientEventTypeDisconnect})
	}
}

// GetClients returns a slice with a copy of all connected clients.
func (cm *ClientManager) GetClients() []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()

	clients := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		c := *client
		clients = append(clients, &c)
	}
	return clients
}

// Count returns the number of connected clients.
func (cm *ClientManager) Count() int {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	return len(cm.clients)
}

func (cm *ClientManager) emit(event ClientEvent) {
	select {
	case cm.clientEventChan <- event:
	default:
	}
}
