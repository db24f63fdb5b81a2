package bot

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quizbr/quizbot/models"
	"github.com/quizbr/quizbot/quiz"
)

// Dispatcher turns one question into its planned sequence of messages,
// registers the resulting poll, and arranges the deferred comment.
type Dispatcher struct {
	sender   Sender
	registry *quiz.Registry
	// pause between consecutive messages of one plan, so Telegram
	// delivers them in order. Dispatch runs on its own goroutine, so the
	// pause never stalls answer handling.
	pause  time.Duration
	clock  func() time.Time
	logger *zap.Logger

	mu       sync.Mutex
	comments map[string]*time.Timer // deferred comment task per poll ID
}

func NewDispatcher(sender Sender, registry *quiz.Registry, pause time.Duration, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		sender:   sender,
		registry: registry,
		pause:    pause,
		clock:    time.Now,
		logger:   logger,
		comments: make(map[string]*time.Timer),
	}
}

// Dispatch sends the plan for q to dest and returns the new poll ID.
// If any step fails the dispatch is abandoned: no registration, and
// messages already sent stay in the chat. That partial output is an
// accepted inconsistency; there is no rollback.
func (d *Dispatcher) Dispatch(ctx context.Context, q models.QuestionRecord, dest models.Destination) (string, error) {
	plan, err := quiz.Plan(q)
	if err != nil {
		return "", err
	}

	if plan.Statement != "" {
		if err := d.sender.SendMessage(dest, plan.Statement); err != nil {
			return "", err
		}
		d.sleep()
	}
	if plan.ImageURL != "" {
		if err := d.sender.SendPhoto(dest, plan.ImageURL); err != nil {
			return "", err
		}
		d.sleep()
	}
	if plan.OptionsText != "" {
		if err := d.sender.SendMessage(dest, plan.OptionsText); err != nil {
			return "", err
		}
		d.sleep()
	}

	pollID, err := d.sender.SendPoll(dest, plan.Poll)
	if err != nil {
		return "", err
	}

	rec := models.PollRecord{
		PollID:       pollID,
		CorrectIndex: plan.Poll.CorrectIndex,
		Weight:       q.Weight,
		Comment:      q.Comment,
		Dest:         dest,
		CreatedAt:    d.clock(),
	}
	if err := d.registry.Register(ctx, rec); err != nil {
		// Duplicate registration is a bug signal; the poll is live in the
		// chat either way, so log loudly and carry on.
		d.logger.Error("failed to register poll",
			zap.String("question_id", q.ID), zap.String("poll_id", pollID), zap.Error(err))
		return pollID, nil
	}

	if q.TimeLimitSec > 0 && q.Comment != "" {
		d.scheduleComment(pollID, time.Duration(q.TimeLimitSec)*time.Second)
	}

	d.logger.Info("question dispatched",
		zap.String("question_id", q.ID), zap.String("poll_id", pollID))
	return pollID, nil
}

// scheduleComment arranges a one-shot task that posts the explanatory
// comment once the poll closes. The task is lost if the process restarts
// before it fires.
func (d *Dispatcher) scheduleComment(pollID string, after time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if prev, ok := d.comments[pollID]; ok {
		prev.Stop()
	}
	d.comments[pollID] = time.AfterFunc(after, func() {
		d.mu.Lock()
		delete(d.comments, pollID)
		d.mu.Unlock()

		rec, err := d.registry.Lookup(pollID)
		if err != nil {
			d.logger.Warn("deferred comment for unknown poll", zap.String("poll_id", pollID))
			return
		}
		if rec.Comment == "" {
			return
		}
		if err := d.sender.SendMessage(rec.Dest, rec.Comment); err != nil {
			d.logger.Warn("failed to send deferred comment",
				zap.String("poll_id", pollID), zap.Error(err))
		}
	})
}

func (d *Dispatcher) sleep() {
	if d.pause > 0 {
		time.Sleep(d.pause)
	}
}
