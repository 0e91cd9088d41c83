package workers

import (
	"context"

	"github.com/cbodonnell/coinflip/pkg/log"
	"github.com/cbodonnell/coinflip/pkg/messages"
	"github.com/cbodonnell/coinflip/pkg/network"
)

// BroadcastWorker serializes view updates once and writes them to every
// connected client.
type BroadcastWorker struct {
	clientManager *network.ClientManager
	messageChan   <-chan *messages.Message
}

type NewBroadcastWorkerOptions struct {
	ClientManager *network.ClientManager
	MessageChan   <-chan *messages.Message
}

func NewBroadcastWorker(opts NewBroadcastWorkerOptions) *BroadcastWorker {
	return &BroadcastWorker{
		clientManager: opts.ClientManager,
		messageChan:   opts.MessageChan,
	}
}

// Start blocks until ctx is done.
func (w *BroadcastWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.messageChan:
			w.broadcast(ctx, msg)
		}
	}
}

func (w *BroadcastWorker) broadcast(ctx context.Context, msg *messages.Message) {
	clients := w.clientManager.GetClients()
	if len(clients) == 0 {
		return
	}

	b, err := messages.SerializeMessage(msg)
	if err != nil {
		log.Error("Failed to serialize %s message: %v", msg.Type, err)
		return
	}

	log.Trace("Broadcasting %s to %d clients", msg.Type, len(clients))
	for _, client := range clients {
		if err := network.WriteBytesToWS(ctx, client.WSConn, b); err != nil {
			log.Error("Failed to write %s message to client %s: %v", msg.Type, client.ID, err)
			continue
		}
	}
}
