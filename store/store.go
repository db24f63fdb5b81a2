// Package store persists the bot's state: awarded scores, the set of
// auto-dispatched question IDs, and a mirror of poll grading metadata so
// open polls survive a restart. Persistence is best-effort, not
// transactional; the interfaces are small enough that sqlite, Redis and a
// plain in-memory map all implement them.
package store

import (
	"context"

	"github.com/quizbr/quizbot/models"
)

// Store is the persistence boundary used by the ledger, the scheduler and
// the poll registry.
type Store interface {
	// AppendScore adds one score entry; entries are never mutated or
	// removed.
	AppendScore(ctx context.Context, entry models.ScoreEntry) error
	// Scores returns every stored entry, in no particular order.
	Scores(ctx context.Context) ([]models.ScoreEntry, error)

	// MarkSent records that the scheduler dispatched a question ID.
	MarkSent(ctx context.Context, questionID string) error
	// SentIDs returns the full dedupe set.
	SentIDs(ctx context.Context) (map[string]struct{}, error)

	// SavePoll mirrors poll grading metadata for crash survival.
	SavePoll(ctx context.Context, rec models.PollRecord) error
	// Polls returns every mirrored poll record.
	Polls(ctx context.Context) ([]models.PollRecord, error)

	Close() error
}
