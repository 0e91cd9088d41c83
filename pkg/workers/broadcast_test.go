package workers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cbodonnell/coinflip/pkg/messages"
	"github.com/cbodonnell/coinflip/pkg/network"
	"github.com/cbodonnell/coinflip/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

func newSpectator(t *testing.T, ctx context.Context, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })

	snapshot, err := network.ReadMessageFromWS(ctx, conn)
	require.NoError(t, err)
	require.Equal(t, messages.MessageTypeServerSnapshot, snapshot.Type)
	return conn
}

func TestBroadcastWorker_WritesToEveryClient(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clientManager := network.NewClientManager()
	srv := httptest.NewServer(network.NewWSServer(network.NewWSServerOptions{
		SessionID:     "session-1",
		ClientManager: clientManager,
		StateManager:  state.NewInMemoryStateManager(),
	}))
	t.Cleanup(srv.Close)

	first := newSpectator(t, ctx, srv)
	second := newSpectator(t, ctx, srv)
	require.Eventually(t, func() bool { return clientManager.Count() == 2 }, time.Second, 10*time.Millisecond)

	messageChan := make(chan *messages.Message, 1)
	worker := NewBroadcastWorker(NewBroadcastWorkerOptions{
		ClientManager: clientManager,
		MessageChan:   messageChan,
	})
	workerCtx, stopWorker := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		worker.Start(workerCtx)
		close(done)
	}()

	msg, err := messages.NewMessage("session-1", messages.MessageTypeServerTally, time.Now().UnixMilli(), &messages.ServerTally{
		Heads: 2,
		Tails: 1,
		Total: 3,
	})
	require.NoError(t, err)
	messageChan <- msg

	for _, conn := range []*websocket.Conn{first, second} {
		got, err := network.ReadMessageFromWS(ctx, conn)
		require.NoError(t, err)
		assert.Equal(t, messages.MessageTypeServerTally, got.Type)
		assert.Equal(t, "session-1", got.SessionID)

		var tally messages.ServerTally
		require.NoError(t, json.Unmarshal(got.Payload, &tally))
		assert.Equal(t, messages.ServerTally{Heads: 2, Tails: 1, Total: 3}, tally)
	}

	stopWorker()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("worker did not stop")
	}
}

func TestBroadcastWorker_NoClientsSkipsSerialization(t *testing.T) {
	worker := NewBroadcastWorker(NewBroadcastWorkerOptions{
		ClientManager: network.NewClientManager(),
	})

	// serializing a nil message panics, so this only passes if broadcast
	// returns before touching it
	assert.NotPanics(t, func() {
		worker.broadcast(context.Background(), nil)
	})
}
