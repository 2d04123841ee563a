package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	pkglogger "github.com/recipeinbox/backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const redisPubSubChannel = "recipeinbox:events"

// Event is a real-time event sent to a user's live connections.
// Type follows the "<domain>:<event>" convention, e.g. "messages:new".
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub manages WebSocket clients and broadcasts events to them by user id
type Hub struct {
	// Registered clients grouped by user ID
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *targetedEvent

	mu          sync.RWMutex
	instanceID  string
	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

type targetedEvent struct {
	UserID string `json:"user_id"`
	Data   []byte `json:"-"`
}

type redisMessage struct {
	Origin string          `json:"origin"`
	UserID string          `json:"user_id"`
	Event  json.RawMessage `json:"event"`
}

// NewHub creates a new Hub. redisClient may be nil for a single instance.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *targetedEvent, 256),
		instanceID:  uuid.New().String(),
		redisClient: redisClient,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[msg.UserID] {
				select {
				case client.send <- msg.Data:
				default:
					// slow consumer; drop it rather than stall every other user
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; ok {
		delete(clients, client)
		close(client.send)
		if len(clients) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

// Publish sends an event to every live connection of userID, on this instance and,
// through Redis, on every other instance.
func (h *Hub) Publish(ctx context.Context, userID, eventType string, payload interface{}) error {
	data, err := json.Marshal(&Event{Type: eventType, Payload: payload})
	if err != nil {
		return err
	}

	if err := h.deliverLocal(ctx, userID, data); err != nil {
		return err
	}

	if h.redisClient != nil {
		msg, err := json.Marshal(&redisMessage{Origin: h.instanceID, UserID: userID, Event: data})
		if err != nil {
			return err
		}
		return h.redisClient.Publish(ctx, redisPubSubChannel, msg).Err()
	}
	return nil
}

func (h *Hub) deliverLocal(ctx context.Context, userID string, data []byte) error {
	select {
	case h.broadcast <- &targetedEvent{UserID: userID, Data: data}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.ctx.Done():
		return h.ctx.Err()
	}
}

// ConnectionCount returns the number of live connections for userID
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// TotalConnections returns the number of live connections on this instance
func (h *Hub) TotalConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, conns := range h.clients {
		n += len(conns)
	}
	return n
}

// subscribeRedis relays events published by other instances to local clients
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var rm redisMessage
			if err := json.Unmarshal([]byte(msg.Payload), &rm); err != nil {
				pkglogger.GetLogger().Warn().Err(err).Msg("ws: dropping malformed relay message")
				continue
			}
			if rm.Origin == h.instanceID {
				continue
			}
			// local only; re-publishing would loop between instances
			_ = h.deliverLocal(h.ctx, rm.UserID, rm.Event)
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
