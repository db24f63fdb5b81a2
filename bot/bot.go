package bot

import (
	"context"
	"fmt"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/quizbr/quizbot/config"
	"github.com/quizbr/quizbot/feed"
	"github.com/quizbr/quizbot/models"
	"github.com/quizbr/quizbot/quiz"
	"github.com/quizbr/quizbot/store"
)

// Bot owns the Telegram update loop and every engine component.
type Bot struct {
	api           *tgbotapi.BotAPI
	sender        Sender
	feed          feed.Source
	registry      *quiz.Registry
	ledger        *quiz.Ledger
	dispatcher    *Dispatcher
	scheduler     *Scheduler
	dest          models.Destination
	commandChatID int64
	rankingLimit  int
	loc           *time.Location
	clock         func() time.Time
	logger        *zap.Logger
}

// New creates a new bot instance with all components wired to st.
func New(cfg *config.Config, st store.Store, logger *zap.Logger) (*Bot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	api.Debug = os.Getenv("DEBUG") == "true"

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	sender := NewTelegramSender(api, logger)
	src := feed.NewClient(cfg.FeedURL, config.Duration(cfg.FeedCacheTTL, 30*time.Second), logger)
	registry := quiz.NewRegistry(st, logger)
	ledger := quiz.NewLedger(st)
	dest := models.Destination{ChatID: cfg.GroupChatID, ThreadID: cfg.GroupThreadID}

	dispatcher := NewDispatcher(sender, registry,
		config.Duration(cfg.MessagePause, 500*time.Millisecond), logger)
	scheduler := NewScheduler(src, dispatcher, st, dest,
		config.Duration(cfg.SchedulerInterval, time.Minute), loc, logger)

	return &Bot{
		api:           api,
		sender:        sender,
		feed:          src,
		registry:      registry,
		ledger:        ledger,
		dispatcher:    dispatcher,
		scheduler:     scheduler,
		dest:          dest,
		commandChatID: cfg.CommandChatID,
		rankingLimit:  cfg.RankingLimit,
		loc:           loc,
		clock:         time.Now,
		logger:        logger,
	}, nil
}

// Start restores persisted poll metadata, launches the scheduler and
// consumes updates until ctx is canceled.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.registry.Restore(ctx); err != nil {
		return err
	}

	go func() {
		if err := b.scheduler.Run(ctx); err != nil && ctx.Err() == nil {
			b.logger.Error("scheduler stopped", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	// poll_answer is not delivered unless asked for explicitly.
	u.AllowedUpdates = []string{"message", "poll_answer"}

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			switch {
			case update.PollAnswer != nil:
				b.handlePollAnswer(ctx, update.PollAnswer)
			case update.Message != nil:
				b.handleMessage(ctx, update.Message)
			}
		}
	}
}
