package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"lexi-drafting-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// FeedChannel is the key activity feed clients register under.
	FeedChannel = "activity"

	clusterChannel = "lexi_events"
)

// Envelope is the frame written to clients.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterMessage struct {
	Origin  string          `json:"origin"`
	Target  string          `json:"target"`
	Message json.RawMessage `json:"message"`
}

type Hub struct {
	// Registered clients by channel key (a conversation id or FeedChannel)
	clients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// Optional, relays frames between instances
	rdb    redis.UniversalClient
	origin string

	logger logger.ILogger
}

func NewHub(rdb redis.UniversalClient, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*Client]struct{}),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
	}
}

// Run serves registrations until ctx ends, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.Key] == nil {
				h.clients[client.Key] = make(map[*Client]struct{})
			}
			h.clients[client.Key][client] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("HUB", "Client registered", map[string]interface{}{"key": client.Key})

		case client := <-h.unregister:
			h.remove(client)

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for key, set := range h.clients {
				for c := range set {
					close(c.Send)
				}
				delete(h.clients, key)
			}
			h.mu.Unlock()
			return
		}
	}
}

// join and leave give up once Run has returned.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.Key]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.Send)
	if len(set) == 0 {
		delete(h.clients, client.Key)
	}
	h.logger.Debug("HUB", "Client unregistered", map[string]interface{}{"key": client.Key})
}

// Clients reports how many clients are registered under key.
func (h *Hub) Clients(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[key])
}

// Broadcast sends a frame to every activity feed client.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	h.Send(FeedChannel, messageType, data)
}

// Send delivers a frame to the clients of key here and, through Redis, on
// other instances.
func (h *Hub) Send(key, messageType string, data interface{}) {
	frame, err := json.Marshal(Envelope{Type: messageType, Data: data})
	if err != nil {
		h.logger.Error("HUB", "Failed to encode frame", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliver(key, frame)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{Origin: h.origin, Target: key, Message: frame})
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("HUB", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// Reply sends frame to one client if it is still registered.
func (h *Hub) Reply(c *Client, frame []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[c.Key][c]; !ok {
		return false
	}
	select {
	case c.Send <- frame:
		return true
	default:
		return false
	}
}

// deliver never blocks: a client with a full buffer misses the frame.
func (h *Hub) deliver(key string, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[key] {
		select {
		case client.Send <- frame:
		default:
			h.logger.Warn("HUB", "Client send buffer full, dropping frame", map[string]interface{}{"key": key})
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("HUB", "Redis message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.origin {
				continue
			}
			h.deliver(payload.Target, payload.Message)
		}
	}
}
