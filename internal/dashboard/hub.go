package dashboard

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/webhook"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans orchestrator events out to connected dashboard clients. All
// connection state is owned by the Run loop; Publish never blocks the
// request path.
type Hub struct {
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	events     chan webhook.Event
	done       chan struct{}
	log        *zap.Logger
}

// NewHub creates a hub. Run must be started for clients to receive events.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		events:     make(chan webhook.Event, 64),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the connection set and is the only writer to client
// connections. Returns when ctx is cancelled, closing every client.
func (h *Hub) Run(ctx context.Context) {
	conns := make(map[*websocket.Conn]bool)
	defer func() {
		close(h.done)
		for conn := range conns {
			conn.Close()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case conn := <-h.register:
			conns[conn] = true
		case conn := <-h.unregister:
			if conns[conn] {
				delete(conns, conn)
				conn.Close()
			}
		case evt := <-h.events:
			for conn := range conns {
				if err := conn.WriteJSON(evt); err != nil {
					h.log.Debug("dropping live feed client", zap.Error(err))
					delete(conns, conn)
					conn.Close()
				}
			}
		}
	}
}

// Publish queues an event for broadcast. Events are dropped when the
// buffer is full rather than stalling the webhook.
func (h *Hub) Publish(evt webhook.Event) {
	select {
	case h.events <- evt:
	default:
	}
}

// HandleWS upgrades the request and registers the client for the live
// feed. The feed is write-only; inbound frames are drained and discarded.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				select {
				case h.unregister <- conn:
				case <-h.done:
				}
				return
			}
		}
	}()
}
