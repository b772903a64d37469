package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pegasus-trivia-service/internal/domain"
)

// QuestionRepository loads question banks (from cache/backing store).
type QuestionRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.QuestionBank, error)
}

// State is the round engine's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRoundActive
	StateGrace
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRoundActive:
		return "round_active"
	case StateGrace:
		return "grace"
	case StateGameOver:
		return "game_over"
	}
	return "unknown"
}

// GameConfig tunes round timing. Zero values fall back to the defaults:
// 10s rounds, 1s countdown ticks, 5s grace between rounds.
type GameConfig struct {
	BankID        string
	RoundDuration time.Duration
	TickInterval  time.Duration
	GraceDelay    time.Duration
}

func (c GameConfig) withDefaults() GameConfig {
	if c.BankID == "" {
		c.BankID = "default"
	}
	if c.RoundDuration <= 0 {
		c.RoundDuration = 10 * time.Second
	}
	if c.TickInterval <= 0 {
		c.TickInterval = time.Second
	}
	if c.GraceDelay <= 0 {
		c.GraceDelay = 5 * time.Second
	}
	return c
}

type submission struct {
	playerID string
	option   int
}

// Game drives the trivia round lifecycle: it pulls questions from the bank,
// runs the countdown, collects answers, scores them at expiry and advances
// until the bank is exhausted. All mutation happens under one mutex, so
// handler and timer callbacks never interleave mid-transition.
type Game struct {
	banks       QuestionRepository
	ledger      *Ledger
	broadcaster Broadcaster
	sched       Scheduler
	cfg         GameConfig

	mu            sync.Mutex
	state         State
	bank          domain.QuestionBank
	questionIndex int
	remaining     int
	epoch         uint64
	submissions   []submission
	answered      map[string]struct{}
	cancelTick    func()
	cancelExpiry  func()
	cancelGrace   func()
}

func NewGame(banks QuestionRepository, ledger *Ledger, b Broadcaster, sched Scheduler, cfg GameConfig) *Game {
	return &Game{
		banks:         banks,
		ledger:        ledger,
		broadcaster:   b,
		sched:         sched,
		cfg:           cfg.withDefaults(),
		questionIndex: -1,
	}
}

// State returns the engine's current lifecycle state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Scores returns the current score snapshot, used for the per-client
// snapshot sent on join.
func (g *Game) Scores() []domain.ScoreEntry {
	return g.ledger.Snapshot()
}

// Start begins a new game cycle. A start while a game is in flight is
// ignored; from Idle or GameOver it resets the ledger and question index
// before the first question is broadcast.
func (g *Game) Start(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateRoundActive || g.state == StateGrace {
		log.Debug().Stringer("state", g.state).Msg("ignoring redundant start")
		return
	}

	bank, err := g.banks.GetBank(ctx, g.cfg.BankID)
	if err != nil {
		log.Error().Err(err).Str("bank", g.cfg.BankID).Msg("cannot start game: bank load failed")
		return
	}
	if len(bank.Questions) == 0 {
		log.Error().Err(domain.ErrBankEmpty).Str("bank", g.cfg.BankID).Msg("cannot start game")
		return
	}

	g.bank = bank
	g.ledger.Clear()
	g.questionIndex = -1
	log.Info().Str("bank", bank.ID).Int("questions", len(bank.Questions)).Msg("game started")
	g.advanceLocked()
}

// Submit records a player's answer for the active round. Submissions while
// no round is active, repeat submissions and out-of-range option indexes
// are all dropped silently.
func (g *Game) Submit(playerID string, option int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateRoundActive {
		return
	}
	question := g.bank.Questions[g.questionIndex]
	if option < 0 || option >= len(question.Options) {
		log.Debug().Str("player", playerID).Int("option", option).Msg("dropping out-of-range answer")
		return
	}
	if _, ok := g.answered[playerID]; ok {
		return
	}
	g.answered[playerID] = struct{}{}
	g.submissions = append(g.submissions, submission{playerID: playerID, option: option})
}

// advanceLocked moves to the next question, or ends the game when the bank
// is exhausted. Pending timers from the previous round are cancelled first
// so a stale callback can never fire into the new round.
func (g *Game) advanceLocked() {
	g.cancelTimersLocked()
	g.epoch++
	g.questionIndex++

	if g.questionIndex >= len(g.bank.Questions) {
		final := g.ledger.Snapshot()
		g.state = StateGameOver
		g.questionIndex = -1
		g.ledger.Clear()
		log.Info().Int("players_scored", len(final)).Msg("game over")
		g.broadcaster.Broadcast(domain.MsgGameOver, final)
		return
	}

	question := g.bank.Questions[g.questionIndex]
	g.state = StateRoundActive
	g.remaining = int(g.cfg.RoundDuration / time.Second)
	g.submissions = g.submissions[:0]
	g.answered = make(map[string]struct{})

	g.broadcaster.Broadcast(domain.MsgNewQuestion, domain.QuestionPrompt{
		Question: question.Prompt,
		Options:  question.Options,
		Index:    g.questionIndex,
		Total:    len(g.bank.Questions),
	})

	epoch := g.epoch
	g.cancelTick = g.sched.Every(g.cfg.TickInterval, func() { g.tick(epoch) })
	g.cancelExpiry = g.sched.After(g.cfg.RoundDuration, func() { g.expire(epoch) })
}

// tick broadcasts the shared countdown. It is cosmetic: the expiry timer,
// not the tick count, closes the round.
func (g *Game) tick(epoch uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if epoch != g.epoch || g.state != StateRoundActive {
		return
	}
	if g.remaining <= 0 {
		return
	}
	g.remaining--
	g.broadcaster.Broadcast(domain.MsgTimerUpdate, g.remaining)
}

// expire closes the submission window, scores the round in arrival order
// and enters the grace window before the next question.
func (g *Game) expire(epoch uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if epoch != g.epoch || g.state != StateRoundActive {
		return
	}

	// Every submitter gets a ledger entry so the leaderboard shows zeros;
	// only correct options score.
	question := g.bank.Questions[g.questionIndex]
	for _, sub := range g.submissions {
		amount := 0
		if sub.option == question.Answer {
			amount = 1
		}
		g.ledger.Increment(sub.playerID, amount)
	}
	g.state = StateGrace
	if g.cancelTick != nil {
		g.cancelTick()
		g.cancelTick = nil
	}

	log.Info().Int("question", g.questionIndex).Int("submissions", len(g.submissions)).Msg("round ended")
	g.broadcaster.Broadcast(domain.MsgRoundEnd, domain.RoundResult{
		Answer: question.Answer,
		Scores: g.ledger.Snapshot(),
	})

	g.cancelGrace = g.sched.After(g.cfg.GraceDelay, func() { g.graceElapsed(epoch) })
}

func (g *Game) graceElapsed(epoch uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if epoch != g.epoch || g.state != StateGrace {
		return
	}
	g.advanceLocked()
}

func (g *Game) cancelTimersLocked() {
	for _, cancel := range []func(){g.cancelTick, g.cancelExpiry, g.cancelGrace} {
		if cancel != nil {
			cancel()
		}
	}
	g.cancelTick, g.cancelExpiry, g.cancelGrace = nil, nil, nil
}
