package quiz

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/quizbr/quizbot/models"
)

// PollStore is the slice of the persistence layer the registry mirrors
// itself to.
type PollStore interface {
	SavePoll(ctx context.Context, rec models.PollRecord) error
	Polls(ctx context.Context) ([]models.PollRecord, error)
}

// Registry maps a Telegram poll ID to its grading metadata. Records are
// immutable once registered and never deleted, matching Telegram's own
// poll immutability: late answer events and deferred comments both look
// up here.
type Registry struct {
	mu     sync.RWMutex
	polls  map[string]models.PollRecord
	mirror PollStore
	logger *zap.Logger
}

// NewRegistry creates a registry. mirror may be nil for an in-memory-only
// registry.
func NewRegistry(mirror PollStore, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		polls:  make(map[string]models.PollRecord),
		mirror: mirror,
		logger: logger,
	}
}

// Restore loads mirrored poll records, typically at startup so polls that
// were open across a restart can still be graded.
func (r *Registry) Restore(ctx context.Context) error {
	if r.mirror == nil {
		return nil
	}
	recs, err := r.mirror.Polls(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore polls: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range recs {
		r.polls[rec.PollID] = rec
	}
	r.logger.Info("restored poll records", zap.Int("count", len(recs)))
	return nil
}

// Register stores grading metadata for a freshly created poll.
func (r *Registry) Register(ctx context.Context, rec models.PollRecord) error {
	r.mu.Lock()
	if _, exists := r.polls[rec.PollID]; exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicatePoll, rec.PollID)
	}
	r.polls[rec.PollID] = rec
	r.mu.Unlock()

	if r.mirror != nil {
		// Mirror failures degrade crash survival, not correctness.
		if err := r.mirror.SavePoll(ctx, rec); err != nil {
			r.logger.Warn("failed to mirror poll record",
				zap.String("poll_id", rec.PollID), zap.Error(err))
		}
	}
	return nil
}

// Lookup returns the grading metadata for a poll ID.
func (r *Registry) Lookup(pollID string) (models.PollRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.polls[pollID]
	if !ok {
		return models.PollRecord{}, fmt.Errorf("%w: %s", ErrPollNotFound, pollID)
	}
	return rec, nil
}
