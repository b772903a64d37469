package app_test

import (
	"regexp"
	"strings"
	"testing"

	"pegasus-trivia-service/internal/app"
	"pegasus-trivia-service/internal/domain"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestRegisterKeepsRequestedName(t *testing.T) {
	rec := &recordingBroadcaster{}
	registry := app.NewRegistry(rec)

	player := registry.Register("conn-1", "Alice")
	if player.Name != "Alice" {
		t.Fatalf("expected Alice, got %q", player.Name)
	}
	if !colorPattern.MatchString(player.Color) {
		t.Fatalf("unexpected color format: %q", player.Color)
	}
	if player.X < 20 || player.Y < 20 {
		t.Fatalf("spawn outside field: %+v", player)
	}
	if got := len(rec.typed(domain.MsgPlayers)); got != 1 {
		t.Fatalf("expected 1 player-list broadcast, got %d", got)
	}
}

func TestRegisterGeneratesDefaultName(t *testing.T) {
	rec := &recordingBroadcaster{}
	registry := app.NewRegistry(rec)

	player := registry.Register("conn-1", "   ")
	if !strings.HasPrefix(player.Name, "Player") {
		t.Fatalf("expected generated name, got %q", player.Name)
	}
	if len(player.Name) == len("Player") {
		t.Fatalf("expected numeral suffix, got %q", player.Name)
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	rec := &recordingBroadcaster{}
	registry := app.NewRegistry(rec)

	registry.Register("conn-1", "Alice")
	registry.Unregister("conn-1")
	registry.Unregister("conn-1")
	registry.Unregister("never-joined")

	if _, ok := registry.Get("conn-1"); ok {
		t.Fatalf("expected player removed")
	}
	// One broadcast for the register, one for the first unregister only.
	if got := len(rec.typed(domain.MsgPlayers)); got != 2 {
		t.Fatalf("expected 2 player-list broadcasts, got %d", got)
	}
}

func TestGetAbsentConnection(t *testing.T) {
	registry := app.NewRegistry(&recordingBroadcaster{})
	if _, ok := registry.Get("ghost"); ok {
		t.Fatalf("expected absent lookup to return false")
	}
}

func TestMoveClampsToField(t *testing.T) {
	rec := &recordingBroadcaster{}
	registry := app.NewRegistry(rec)
	registry.Register("conn-1", "Alice")

	registry.Move("conn-1", 9999, -50)

	player, ok := registry.Get("conn-1")
	if !ok {
		t.Fatalf("player missing")
	}
	if player.X != 800 || player.Y != 0 {
		t.Fatalf("expected clamped position (800,0), got (%d,%d)", player.X, player.Y)
	}
	states := rec.typed(domain.MsgWorldState)
	if len(states) != 1 {
		t.Fatalf("expected 1 world-state broadcast, got %d", len(states))
	}

	// Moves from unknown connections are dropped.
	registry.Move("ghost", 1, 1)
	if got := len(rec.typed(domain.MsgWorldState)); got != 1 {
		t.Fatalf("ghost move broadcast world state: %d", got)
	}
}

func TestPlayersKeepsJoinOrder(t *testing.T) {
	registry := app.NewRegistry(&recordingBroadcaster{})
	registry.Register("conn-1", "Alice")
	registry.Register("conn-2", "Bob")
	registry.Register("conn-3", "Cara")
	registry.Unregister("conn-2")

	players := registry.Players()
	if len(players) != 2 || players[0].Name != "Alice" || players[1].Name != "Cara" {
		t.Fatalf("unexpected order: %+v", players)
	}
}
