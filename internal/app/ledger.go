package app

import (
	"sort"
	"sync"

	"pegasus-trivia-service/internal/domain"
)

// Ledger maps player identity to accumulated score. Entries are created on
// first increment and ordered by first-scored time so snapshot ties break
// deterministically.
type Ledger struct {
	mu     sync.Mutex
	order  []string
	scores map[string]int
}

func NewLedger() *Ledger {
	return &Ledger{scores: make(map[string]int)}
}

// Increment adds amount to the player's score, creating the entry at zero
// first. Negative amounts are ignored; scores never go below zero.
func (l *Ledger) Increment(playerID string, amount int) {
	if amount < 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.scores[playerID]; !ok {
		l.order = append(l.order, playerID)
	}
	l.scores[playerID] += amount
}

// Clear drops every entry.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = nil
	l.scores = make(map[string]int)
}

// Snapshot returns entries sorted by score descending; ties keep
// first-scored order.
func (l *Ledger) Snapshot() []domain.ScoreEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := make([]domain.ScoreEntry, 0, len(l.order))
	for _, id := range l.order {
		entries = append(entries, domain.ScoreEntry{ID: id, Score: l.scores[id]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}
