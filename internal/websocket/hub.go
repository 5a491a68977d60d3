package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"backend/internal/reference"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The tracking channel is public; the reference number is the capability.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Tracking event names pushed to subscribers.
const (
	EventSnapshot = "snapshot"
	EventUpdated  = "updated"
	EventNotFound = "not_found"
	EventError    = "error"
)

// Envelope is the wire format for every tracking push.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// SnapshotFunc loads the current tracking payload for a reference. found is
// false when no submission exists at that key, which is a distinct outcome
// from a load error.
type SnapshotFunc func(ctx context.Context, ref string) (payload interface{}, found bool, err error)

// Client is one subscriber, bound to a single reference for its lifetime.
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	Reference string
	Send      chan []byte
}

type publication struct {
	reference string
	message   []byte
}

// Hub routes submission updates to the clients subscribed to each reference.
// A client subscribes to exactly one key; updates for other keys are never
// delivered to it.
type Hub struct {
	rooms      map[string]map[*Client]bool
	publish    chan publication
	register   chan *Client
	unregister chan *Client
	logger     *zap.Logger
	mu         sync.Mutex
}

// NewHub initializes a tracking hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		publish:    make(chan publication, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Publish pushes an updated tracking payload to every subscriber of ref.
// Updates for a given key are delivered in the order they are published.
func (h *Hub) Publish(ref string, event string, data interface{}) {
	message, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		h.logger.Error("tracking event marshal failed", zap.String("reference", ref), zap.Error(err))
		return
	}
	h.publish <- publication{reference: ref, message: message}
}

// deliver sends a message to a single client if it is still registered.
// The hub closes Send when it unregisters a client, so the membership
// check and the send must happen under the same lock that guards the
// close; sending into Send from outside this method is not safe.
func (h *Hub) deliver(client *Client, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[client.Reference][client]; !ok {
		return
	}
	select {
	case client.Send <- message:
	default:
	}
}

// Run starts the dispatch loop for subscription events.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			room := h.rooms[client.Reference]
			if room == nil {
				room = make(map[*Client]bool)
				h.rooms[client.Reference] = room
			}
			room[client] = true
			h.mu.Unlock()
			h.logger.Debug("tracking subscriber connected", zap.String("reference", client.Reference))
		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.Reference]; ok {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.Send)
					if len(room) == 0 {
						delete(h.rooms, client.Reference)
					}
					h.logger.Debug("tracking subscriber disconnected", zap.String("reference", client.Reference))
				}
			}
			h.mu.Unlock()
		case pub := <-h.publish:
			h.mu.Lock()
			for client := range h.rooms[pub.reference] {
				select {
				case client.Send <- pub.message:
				default:
					close(client.Send)
					delete(h.rooms[pub.reference], client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// writePump drains the Send channel onto the connection.
func (c *Client) writePump() {
	defer func() {
		_ = c.Conn.Close()
	}()
	for message := range c.Send {
		w, err := c.Conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		_, _ = w.Write(message)

		// Fast track writing queued messages
		n := len(c.Send)
		for i := 0; i < n; i++ {
			_, _ = w.Write([]byte{'\n'})
			_, _ = w.Write(<-c.Send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump keeps the connection alive and unsubscribes on teardown, so a
// navigated-away client never leaves a live listener behind.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		_ = c.Conn.Close()
	}()
	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Debug("tracking read error", zap.Error(err))
			}
			break
		}
	}
}

// ServeTracking upgrades the request to a tracking subscription for the
// reference in the query string. The current record (or a not-found signal)
// is delivered immediately, then every subsequent change until the client
// disconnects.
func ServeTracking(hub *Hub, c *gin.Context, snapshot SnapshotFunc) {
	ref := c.Query("reference")
	if !reference.IsValid(ref) {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.logger.Warn("tracking upgrade failed", zap.Error(err))
		return
	}
	client := &Client{Hub: hub, Conn: conn, Reference: ref, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	go client.readPump()

	// Initial delivery. Registration happens first so a concurrent update
	// is never lost, at worst delivered before the snapshot. The client may
	// already be gone by the time the snapshot loads; deliver checks
	// registration before touching Send.
	payload, found, err := snapshot(c.Request.Context(), ref)
	event := EventSnapshot
	switch {
	case err != nil:
		event, payload = EventError, nil
	case !found:
		event, payload = EventNotFound, nil
	}
	if message, marshalErr := json.Marshal(Envelope{Event: event, Data: payload}); marshalErr == nil {
		hub.deliver(client, message)
	}
}
