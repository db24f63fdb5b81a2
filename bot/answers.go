package bot

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/quizbr/quizbot/models"
	"github.com/quizbr/quizbot/quiz"
)

// handlePollAnswer resolves an answer event against the registry and
// awards the poll's weight when the selected option is the correct one.
// Telegram guarantees one answer per user per poll; no dedupe here.
func (b *Bot) handlePollAnswer(ctx context.Context, answer *tgbotapi.PollAnswer) {
	rec, err := b.registry.Lookup(answer.PollID)
	if err != nil {
		if errors.Is(err, quiz.ErrPollNotFound) {
			// Not one of ours; the bot can see polls it did not create.
			b.logger.Debug("ignoring answer for unknown poll",
				zap.String("poll_id", answer.PollID))
			return
		}
		b.logger.Error("poll lookup failed", zap.String("poll_id", answer.PollID), zap.Error(err))
		return
	}

	// An empty option list is a retracted vote.
	if len(answer.OptionIDs) == 0 {
		return
	}
	if answer.OptionIDs[0] != rec.CorrectIndex {
		return
	}

	entry := models.ScoreEntry{
		UserID:   answer.User.ID,
		UserName: displayName(&answer.User),
		Date:     b.clock().In(b.loc).Format(models.DateFormat),
		Points:   rec.Weight,
	}
	if err := b.ledger.Append(ctx, entry); err != nil {
		b.logger.Error("failed to record score",
			zap.Int64("user_id", entry.UserID), zap.String("poll_id", answer.PollID), zap.Error(err))
		return
	}
	b.logger.Info("answer scored",
		zap.Int64("user_id", entry.UserID),
		zap.String("poll_id", answer.PollID),
		zap.Int("points", entry.Points))
}

func displayName(u *tgbotapi.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return u.UserName
}
