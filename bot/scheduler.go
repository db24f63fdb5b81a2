package bot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quizbr/quizbot/feed"
	"github.com/quizbr/quizbot/models"
)

// SentStore persists the scheduler's dedupe set.
type SentStore interface {
	MarkSent(ctx context.Context, questionID string) error
	SentIDs(ctx context.Context) (map[string]struct{}, error)
}

// Scheduler re-reads the feed on a fixed period and dispatches every
// time-gated question whose scheduled moment has arrived, at most once
// per question ID across the process lifetime. Manual /quiz dispatches
// bypass this set entirely.
type Scheduler struct {
	feed       feed.Source
	dispatcher *Dispatcher
	store      SentStore
	dest       models.Destination
	interval   time.Duration
	loc        *time.Location
	clock      func() time.Time
	logger     *zap.Logger

	sent map[string]struct{}
}

func NewScheduler(src feed.Source, dispatcher *Dispatcher, store SentStore,
	dest models.Destination, interval time.Duration, loc *time.Location, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		feed:       src,
		dispatcher: dispatcher,
		store:      store,
		dest:       dest,
		interval:   interval,
		loc:        loc,
		clock:      time.Now,
		logger:     logger,
		sent:       make(map[string]struct{}),
	}
}

// Run loads the persisted dedupe set and ticks until ctx is canceled.
// Ticks run sequentially on this goroutine, so a tick always sees every
// identifier the previous one marked.
func (s *Scheduler) Run(ctx context.Context) error {
	ids, err := s.store.SentIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sent set: %w", err)
	}
	s.sent = ids
	s.logger.Info("scheduler started",
		zap.Duration("interval", s.interval), zap.Int("already_sent", len(ids)))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick scans the feed once. A feed fetch failure skips the whole tick; a
// malformed record skips that record only.
func (s *Scheduler) tick(ctx context.Context) {
	records, err := s.feed.FetchAll(ctx)
	if err != nil {
		s.logger.Warn("feed fetch failed, retrying next tick", zap.Error(err))
		return
	}

	now := s.clock().In(s.loc)
	for _, q := range records {
		if _, done := s.sent[q.ID]; done {
			continue
		}
		if !q.Scheduled() {
			continue
		}

		due, err := parseSchedule(q.ScheduledDate, q.ScheduledTime, s.loc)
		if err != nil {
			s.logger.Warn("skipping question with malformed schedule",
				zap.String("question_id", q.ID), zap.Error(err))
			continue
		}
		if now.Before(due) {
			continue
		}

		if _, err := s.dispatcher.Dispatch(ctx, q, s.dest); err != nil {
			s.logger.Error("scheduled dispatch failed",
				zap.String("question_id", q.ID), zap.Error(err))
		}
		// Mark sent before touching the next record; the scheduler
		// invokes the dispatcher at most once per identifier, even for a
		// failed dispatch.
		s.sent[q.ID] = struct{}{}
		if err := s.store.MarkSent(ctx, q.ID); err != nil {
			s.logger.Error("failed to persist sent set",
				zap.String("question_id", q.ID), zap.Error(err))
		}
	}
}

var (
	dateLayouts = []string{"2006-01-02", "02/01/2006"}
	timeLayouts = []string{"15:04:05", "15:04"}
)

// parseSchedule combines the feed's date and time-of-day columns in the
// configured location. Time is accepted with or without seconds.
func parseSchedule(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	for _, dl := range dateLayouts {
		for _, tl := range timeLayouts {
			t, err := time.ParseInLocation(dl+" "+tl, dateStr+" "+timeStr, loc)
			if err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unparseable schedule %q %q", dateStr, timeStr)
}
