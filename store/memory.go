package store

import (
	"context"
	"sync"

	"github.com/quizbr/quizbot/models"
)

// Memory is an in-memory Store, useful for tests and storage-less runs.
// Nothing survives a restart.
type Memory struct {
	mu     sync.RWMutex
	scores []models.ScoreEntry
	sent   map[string]struct{}
	polls  map[string]models.PollRecord
}

func NewMemory() *Memory {
	return &Memory{
		sent:  make(map[string]struct{}),
		polls: make(map[string]models.PollRecord),
	}
}

func (m *Memory) AppendScore(_ context.Context, entry models.ScoreEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(m.scores, entry)
	return nil
}

func (m *Memory) Scores(_ context.Context) ([]models.ScoreEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.ScoreEntry, len(m.scores))
	copy(out, m.scores)
	return out, nil
}

func (m *Memory) MarkSent(_ context.Context, questionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[questionID] = struct{}{}
	return nil
}

func (m *Memory) SentIDs(_ context.Context) (map[string]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]struct{}, len(m.sent))
	for id := range m.sent {
		out[id] = struct{}{}
	}
	return out, nil
}

func (m *Memory) SavePoll(_ context.Context, rec models.PollRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls[rec.PollID] = rec
	return nil
}

func (m *Memory) Polls(_ context.Context) ([]models.PollRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.PollRecord, 0, len(m.polls))
	for _, rec := range m.polls {
		out = append(out, rec)
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
