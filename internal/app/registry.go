package app

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"pegasus-trivia-service/internal/domain"
)

// Broadcaster fans a message out to every connected client. Implemented by
// the websocket hub; tests record the calls instead.
type Broadcaster interface {
	Broadcast(msgType string, payload any)
}

const (
	fieldWidth  = 800
	fieldHeight = 500
)

// Registry tracks connected players keyed by connection identity.
type Registry struct {
	broadcaster Broadcaster

	mu      sync.Mutex
	order   []string
	players map[string]*domain.Player
	rnd     *rand.Rand
}

func NewRegistry(b Broadcaster) *Registry {
	return &Registry{
		broadcaster: b,
		players:     make(map[string]*domain.Player),
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Register creates a player for the connection. Blank names get a generated
// default with a random numeral suffix; collisions are tolerated. Triggers
// a full player-list broadcast.
func (r *Registry) Register(connID, requestedName string) domain.Player {
	r.mu.Lock()
	name := strings.TrimSpace(requestedName)
	if name == "" {
		name = fmt.Sprintf("Player%d", r.rnd.Intn(1000))
	}
	player := &domain.Player{
		ID:    connID,
		Name:  name,
		Color: fmt.Sprintf("#%06x", r.rnd.Intn(0x1000000)),
		X:     r.rnd.Intn(fieldWidth) + 20,
		Y:     r.rnd.Intn(fieldHeight) + 20,
	}
	if _, ok := r.players[connID]; !ok {
		r.order = append(r.order, connID)
	}
	r.players[connID] = player
	list := r.listLocked()
	r.mu.Unlock()

	r.broadcaster.Broadcast(domain.MsgPlayers, list)
	return *player
}

// Unregister removes the player if present. Unknown connections are a
// normal no-op; the list broadcast only fires when something was removed.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	if _, ok := r.players[connID]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.players, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	list := r.listLocked()
	r.mu.Unlock()

	r.broadcaster.Broadcast(domain.MsgPlayers, list)
}

// Get is a pure lookup; absent connections are expected (stray messages
// after disconnect).
func (r *Registry) Get(connID string) (domain.Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.players[connID]
	if !ok {
		return domain.Player{}, false
	}
	return *player, true
}

// Move updates a player's avatar position, clamped to the field, and
// broadcasts the world state. Unknown connections are ignored.
func (r *Registry) Move(connID string, x, y int) {
	r.mu.Lock()
	player, ok := r.players[connID]
	if !ok {
		r.mu.Unlock()
		return
	}
	player.X = clamp(x, 0, fieldWidth)
	player.Y = clamp(y, 0, fieldHeight)
	state := domain.WorldState{
		Players:   r.listLocked(),
		Timestamp: time.Now().UnixMilli(),
	}
	r.mu.Unlock()

	r.broadcaster.Broadcast(domain.MsgWorldState, state)
}

// Players returns the current list in join order.
func (r *Registry) Players() []domain.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked()
}

func (r *Registry) listLocked() []domain.Player {
	list := make([]domain.Player, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, *r.players[id])
	}
	return list
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
