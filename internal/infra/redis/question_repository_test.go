package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"pegasus-trivia-service/internal/domain"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	loader := &countingLoader{bank: sampleBank()}
	repo := NewQuestionRepository(client, loader, time.Minute)

	bank, err := repo.GetBank(context.Background(), "default")
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if len(bank.Questions) != 1 || bank.Questions[0].Answer != 1 {
		t.Fatalf("unexpected bank: %+v", bank)
	}
	if !mr.Exists("trivia:bank:default") {
		t.Fatalf("expected bank cached in redis")
	}

	if _, err := repo.GetBank(context.Background(), "default"); err != nil {
		t.Fatalf("get bank 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected redis cache hit, loader calls %d", loader.calls)
	}
}

func TestQuestionRepositoryPropagatesLoaderError(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := NewQuestionRepository(client, &failingLoader{}, time.Minute)

	if _, err := repo.GetBank(context.Background(), "missing"); err != domain.ErrBankNotFound {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
}

type countingLoader struct {
	bank  domain.QuestionBank
	calls int
}

func (l *countingLoader) LoadBank(_ context.Context, _ string) (domain.QuestionBank, error) {
	l.calls++
	return l.bank, nil
}

type failingLoader struct{}

func (l *failingLoader) LoadBank(_ context.Context, _ string) (domain.QuestionBank, error) {
	return domain.QuestionBank{}, domain.ErrBankNotFound
}

func sampleBank() domain.QuestionBank {
	return domain.QuestionBank{
		ID: "default",
		Questions: []domain.Question{
			{
				Prompt:  "What is 2 + 2?",
				Options: []string{"3", "4", "5", "6"},
				Answer:  1,
			},
		},
	}
}
