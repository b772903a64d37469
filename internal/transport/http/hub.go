package http

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans messages out to every connected client. Sends are fire-and-forget:
// a client whose buffer is full misses the message rather than blocking the
// round engine.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Broadcast marshals the envelope once and queues it on every client.
func (h *Hub) Broadcast(msgType string, payload any) {
	data, err := json.Marshal(outboundMessage{Type: msgType, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("type", msgType).Msg("marshal broadcast")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			log.Debug().Str("client", client.id).Str("type", msgType).Msg("send buffer full, dropping message")
		}
	}
}

func (h *Hub) sendTo(client *Client, msgType string, payload any) {
	data, err := json.Marshal(outboundMessage{Type: msgType, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("type", msgType).Msg("marshal message")
		return
	}
	select {
	case client.send <- data:
	default:
		log.Debug().Str("client", client.id).Str("type", msgType).Msg("send buffer full, dropping message")
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}
