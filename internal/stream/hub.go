package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans post lifecycle events out to websocket clients, keyed by the
// owning user. Redis pub/sub bridges events across instances; a nil
// client keeps the hub local-only.
type Hub struct {
	id      string
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

// wireMsg is the redis pub/sub envelope. The origin id lets an instance
// drop its own publishes, which it already delivered locally.
type wireMsg struct {
	Origin  string `json:"origin"`
	Payload []byte `json:"payload"`
}

type Client struct {
	OwnerID string
	Send    chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(ownerID string) *Client {
	client := &Client{
		OwnerID: ownerID,
		Send:    make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[ownerID] == nil {
		h.clients[ownerID] = map[*Client]struct{}{}
	}
	h.clients[ownerID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ownerClients, ok := h.clients[client.OwnerID]; ok {
		delete(ownerClients, client)
		if len(ownerClients) == 0 {
			delete(h.clients, client.OwnerID)
		}
	}
	close(client.Send)
}

func (h *Hub) Broadcast(ownerID string, payload []byte) {
	h.deliver(ownerID, payload)

	if h.redis != nil {
		wire, _ := json.Marshal(wireMsg{Origin: h.id, Payload: payload})
		err := h.redis.Publish(context.Background(), redisChannel(ownerID), wire).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) deliver(ownerID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[ownerID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "posts:*:events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var wire wireMsg
		if err := json.Unmarshal([]byte(msg.Payload), &wire); err != nil {
			continue
		}
		if wire.Origin == h.id {
			continue
		}
		h.deliver(ownerIDFromChannel(msg.Channel), wire.Payload)
	}
}

func redisChannel(ownerID string) string {
	return "posts:" + ownerID + ":events"
}

func ownerIDFromChannel(ch string) string {
	// posts:{owner}:events
	const prefix = "posts:"
	const suffix = ":events"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
