package quiz

import (
	"context"
	"sync"

	"github.com/quizbr/quizbot/models"
)

// ScoreStore is the slice of the persistence layer the ledger writes to.
type ScoreStore interface {
	AppendScore(ctx context.Context, entry models.ScoreEntry) error
	Scores(ctx context.Context) ([]models.ScoreEntry, error)
}

// Ledger serializes all score mutations through one mutex so two answer
// events landing together cannot interleave a read-modify-persist on the
// backing store.
type Ledger struct {
	mu    sync.Mutex
	store ScoreStore
}

func NewLedger(store ScoreStore) *Ledger {
	return &Ledger{store: store}
}

// Append records one awarded answer.
func (l *Ledger) Append(ctx context.Context, entry models.ScoreEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.AppendScore(ctx, entry)
}

// Entries returns every stored score entry; order is irrelevant to
// ranking.
func (l *Ledger) Entries(ctx context.Context) ([]models.ScoreEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Scores(ctx)
}
