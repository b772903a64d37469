package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"pegasus-trivia-service/internal/app"
	"pegasus-trivia-service/internal/domain"
)

// Client is one websocket connection with its outbound queue.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

type WSHandler struct {
	hub      *Hub
	registry *app.Registry
	game     *app.Game
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *Hub, registry *app.Registry, game *app.Game) *WSHandler {
	return &WSHandler{
		hub:      hub,
		registry: registry,
		game:     game,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the connection and routes inbound messages to the
// registry and the round engine. Malformed messages are dropped without an
// error response; the protocol has no client-facing error channel.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade failed")
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.hub.add(client)
	log.Info().Str("client", client.id).Msg("client connected")

	go client.writePump()

	defer func() {
		// Removing from the hub before closing send keeps a concurrent
		// broadcast from hitting the closed channel.
		h.hub.remove(client)
		close(client.send)
		h.registry.Unregister(client.id)
		conn.Close()
		log.Info().Str("client", client.id).Msg("client disconnected")
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case domain.MsgJoin:
			var name string
			if err := json.Unmarshal(inbound.Payload, &name); err != nil {
				log.Debug().Str("client", client.id).Msg("dropping malformed join")
				continue
			}
			h.registry.Register(client.id, name)
			// Initial snapshot is the only message sent to a single client.
			h.hub.sendTo(client, domain.MsgWorldState, domain.WorldState{
				Players:   h.registry.Players(),
				Timestamp: time.Now().UnixMilli(),
			})
			h.hub.sendTo(client, domain.MsgCurrentScores, h.game.Scores())

		case domain.MsgSubmitAnswer:
			var option int
			if err := json.Unmarshal(inbound.Payload, &option); err != nil {
				log.Debug().Str("client", client.id).Msg("dropping malformed answer")
				continue
			}
			h.game.Submit(client.id, option)

		case domain.MsgStartGame:
			// Admin gating is a client-side URL flag only; the server
			// honors any start but a redundant one is a no-op.
			h.game.Start(r.Context())

		case domain.MsgMove:
			var move domain.MovePayload
			if err := json.Unmarshal(inbound.Payload, &move); err != nil {
				log.Debug().Str("client", client.id).Msg("dropping malformed move")
				continue
			}
			h.registry.Move(client.id, move.X, move.Y)

		default:
			log.Debug().Str("client", client.id).Str("type", inbound.Type).Msg("dropping unknown message")
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Debug().Err(err).Str("client", c.id).Msg("ws write error")
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
