package notification

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Websocket timing.
const (
	// writeWait is the deadline for a single outbound write.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before it is
	// considered dead.
	pongWait = 60 * time.Second

	// pingPeriod is the keepalive interval; it must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBuffer is the per-connection outbound queue. A subscriber that
	// falls this far behind starts losing notifications rather than
	// blocking publishers.
	sendBuffer = 16

	// maxInboundSize caps inbound frames; subscribers are not expected to
	// send anything beyond control frames.
	maxInboundSize = 512
)

// Hub fans stored notifications out to live websocket subscribers. A user
// may hold several connections at once; each gets every publish.
type Hub struct {
	logger zerolog.Logger

	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
}

// subscriber is one websocket connection's outbound queue.
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a new notification hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:      logger.With().Str("component", "notification_hub").Logger(),
		subscribers: make(map[string]map[*subscriber]struct{}),
	}
}

// Publish sends a notification to every live connection of the user.
// It never blocks: subscribers with a full queue skip this notification.
func (h *Hub) Publish(userID string, n *Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.logger.Error().Err(err).Str("notification_id", n.ID).Msg("Failed to marshal notification")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers[userID] {
		select {
		case sub.send <- payload:
		default:
			h.logger.Warn().Str("user_id", userID).Msg("Dropping notification for slow subscriber")
		}
	}
}

// SubscriberCount returns the number of live connections across all users.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}

// Serve pumps notifications to an upgraded connection until it closes.
// It blocks for the lifetime of the connection and always cleans up the
// subscription on return.
func (h *Hub) Serve(userID string, conn *websocket.Conn) {
	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.add(userID, sub)
	defer h.remove(userID, sub)

	go sub.writePump()
	sub.readPump()
}

// add registers a subscriber for a user.
func (h *Hub) add(userID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[*subscriber]struct{})
	}
	h.subscribers[userID][sub] = struct{}{}
}

// remove unregisters a subscriber and shuts down its write pump.
func (h *Hub) remove(userID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subscribers[userID]; ok {
		if _, registered := subs[sub]; registered {
			delete(subs, sub)
			close(sub.send)
		}
		if len(subs) == 0 {
			delete(h.subscribers, userID)
		}
	}
}

// readPump consumes inbound frames until the connection errors. Subscribers
// only send control frames; data frames are discarded.
func (s *subscriber) readPump() {
	defer s.conn.Close()

	s.conn.SetReadLimit(maxInboundSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump writes queued notifications and keepalive pings until the send
// channel closes or a write fails.
func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
