package app_test

import (
	"testing"

	"pegasus-trivia-service/internal/app"
	"pegasus-trivia-service/internal/domain"
)

func TestLedgerSnapshotSortsDescending(t *testing.T) {
	ledger := app.NewLedger()
	ledger.Increment("playerA", 1)
	ledger.Increment("playerB", 3)
	ledger.Increment("playerC", 2)

	assertScores(t, ledger.Snapshot(), []domain.ScoreEntry{
		{ID: "playerB", Score: 3},
		{ID: "playerC", Score: 2},
		{ID: "playerA", Score: 1},
	})
}

func TestLedgerTiesKeepFirstScoredOrder(t *testing.T) {
	ledger := app.NewLedger()
	ledger.Increment("playerB", 1)
	ledger.Increment("playerA", 1)
	ledger.Increment("playerC", 1)

	assertScores(t, ledger.Snapshot(), []domain.ScoreEntry{
		{ID: "playerB", Score: 1},
		{ID: "playerA", Score: 1},
		{ID: "playerC", Score: 1},
	})
}

func TestLedgerZeroIncrementCreatesEntry(t *testing.T) {
	ledger := app.NewLedger()
	ledger.Increment("playerA", 0)

	got := ledger.Snapshot()
	if len(got) != 1 || got[0].Score != 0 {
		t.Fatalf("expected zero entry, got %+v", got)
	}
}

func TestLedgerRejectsNegativeAmounts(t *testing.T) {
	ledger := app.NewLedger()
	ledger.Increment("playerA", 2)
	ledger.Increment("playerA", -5)

	got := ledger.Snapshot()
	if len(got) != 1 || got[0].Score != 2 {
		t.Fatalf("expected score to stay at 2, got %+v", got)
	}
}

func TestLedgerClear(t *testing.T) {
	ledger := app.NewLedger()
	ledger.Increment("playerA", 1)
	ledger.Clear()

	if got := ledger.Snapshot(); len(got) != 0 {
		t.Fatalf("expected empty ledger, got %+v", got)
	}
}
