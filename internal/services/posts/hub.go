package posts

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"devlink/internal/logger"

	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Subscriber represents a connection that can receive post events
type Subscriber struct {
	UserID bson.ObjectID
	Ch     chan PostEvent
	Done   chan struct{}
}

// ConnInfo holds connection metadata
type ConnInfo struct {
	ID          ulid.ULID
	ConnectedAt time.Time
	Subscriber  *Subscriber
}

// Hub manages WebSocket connections and broadcasts post events.
// The feed is public: every connection receives every event.
type Hub struct {
	mu         sync.RWMutex
	conns      map[ulid.ULID]ConnInfo
	bufferSize int
	dropped    uint64
}

// NewHub creates a new event hub with configurable buffer size
func NewHub(bufferSize int) *Hub {
	return &Hub{
		conns:      make(map[ulid.ULID]ConnInfo),
		bufferSize: bufferSize,
	}
}

// Subscribe adds a new subscriber to the hub
func (h *Hub) Subscribe(connULID ulid.ULID, userID bson.ObjectID) (*Subscriber, func()) {
	log := logger.L()
	if log != nil && log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("subscribing connection", "conn_id", connULID.String(), "user_id", userID.Hex())
	}

	sub := &Subscriber{
		UserID: userID,
		Ch:     make(chan PostEvent, h.bufferSize),
		Done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.conns[connULID] = ConnInfo{
		ID:          connULID,
		ConnectedAt: time.Now(),
		Subscriber:  sub,
	}
	h.mu.Unlock()

	cancel := func() {
		h.Unsubscribe(connULID)
	}
	return sub, cancel
}

// Unsubscribe removes a subscriber from the hub
func (h *Hub) Unsubscribe(connULID ulid.ULID) {
	log := logger.L()
	if log != nil && log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("unsubscribing connection", "conn_id", connULID.String())
	}

	h.mu.Lock()
	connInfo, exists := h.conns[connULID]
	if exists {
		delete(h.conns, connULID)
	}
	h.mu.Unlock()

	if exists {
		close(connInfo.Subscriber.Ch)
		close(connInfo.Subscriber.Done)
	}
}

// Broadcast delivers ev to every subscriber
func (h *Hub) Broadcast(_ context.Context, ev PostEvent) {
	if ev.Post == nil {
		return
	}

	log := logger.L()
	if log != nil && log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("broadcasting event", "post_id", ev.Post.ID.Hex(), "event_type", ev.Type)
	}

	h.mu.RLock()
	for _, connInfo := range h.conns {
		sendOrDrop(connInfo.Subscriber.Ch, ev, func() {
			atomic.AddUint64(&h.dropped, 1)
			if log != nil {
				log.Warn("outbox full, dropping event", "conn_id", connInfo.ID.String(), "event_type", ev.Type)
			}
		})
	}
	h.mu.RUnlock()
}

// GetSubscriberCount returns the current number of subscribers (for testing)
func (h *Hub) GetSubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// sendOrDrop is the only place that can decide to drop an event.
func sendOrDrop(ch chan PostEvent, ev PostEvent, onDrop func()) {
	select {
	case ch <- ev: // hot path, no nesting
	default:
		onDrop()
	}
}

// Stats returns current counters for observability / tests.
func (h *Hub) Stats() (subscribers int, dropped uint64) {
	return h.GetSubscriberCount(), atomic.LoadUint64(&h.dropped)
}
