package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/quizbr/quizbot/feed"
	"github.com/quizbr/quizbot/models"
	"github.com/quizbr/quizbot/quiz"
)

// fakeSender records everything the engine tries to send.
type fakeSender struct {
	mu       sync.Mutex
	actions  []string // ordering across all kinds: "message", "photo", "poll"
	messages []string
	photos   []string
	polls    []quiz.PollAction
	nextPoll int
	failPoll bool
	status   string
}

func (f *fakeSender) SendMessage(_ models.Destination, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, "message")
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeSender) SendPhoto(_ models.Destination, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, "photo")
	f.photos = append(f.photos, url)
	return nil
}

func (f *fakeSender) SendPoll(_ models.Destination, poll quiz.PollAction) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPoll {
		return "", fmt.Errorf("poll send refused")
	}
	f.actions = append(f.actions, "poll")
	f.polls = append(f.polls, poll)
	f.nextPoll++
	return fmt.Sprintf("poll-%d", f.nextPoll), nil
}

func (f *fakeSender) MemberStatus(_, _ int64) (string, error) {
	if f.status == "" {
		return "member", nil
	}
	return f.status, nil
}

func (f *fakeSender) sentMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.messages))
	copy(out, f.messages)
	return out
}

func (f *fakeSender) sentPolls() []quiz.PollAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]quiz.PollAction, len(f.polls))
	copy(out, f.polls)
	return out
}

// fakeSource serves a fixed question set.
type fakeSource struct {
	records []models.QuestionRecord
	err     error
}

func (f *fakeSource) FetchAll(_ context.Context) ([]models.QuestionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeSource) FindByID(ctx context.Context, id string) (models.QuestionRecord, error) {
	records, err := f.FetchAll(ctx)
	if err != nil {
		return models.QuestionRecord{}, err
	}
	for _, q := range records {
		if q.ID == id {
			return q, nil
		}
	}
	return models.QuestionRecord{}, feed.ErrQuestionNotFound
}

var _ Sender = (*fakeSender)(nil)
var _ feed.Source = (*fakeSource)(nil)
