package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/quizbr/quizbot/models"
	"github.com/quizbr/quizbot/quiz"
)

const (
	cmdQuiz    = "quiz"
	cmdRanking = "ranking"
	cmdHelp    = "help"
)

var medals = []string{"\U0001F947", "\U0001F948", "\U0001F949"} // gold, silver, bronze

// handleMessage routes operator commands. Commands are accepted only in
// the configured command chat and only from group administrators.
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Chat.ID != b.commandChatID || !message.IsCommand() {
		return
	}

	ok, err := b.isAdmin(message.From.ID)
	if err != nil {
		b.logger.Warn("membership lookup failed",
			zap.Int64("user_id", message.From.ID), zap.Error(err))
		return
	}
	if !ok {
		b.reply(message.Chat.ID, "This command is restricted to group administrators.")
		return
	}

	switch message.Command() {
	case cmdQuiz:
		// Dispatching pauses between messages; keep the update loop free.
		go b.handleQuizCommand(ctx, message.CommandArguments())
	case cmdRanking:
		b.handleRankingCommand(ctx, message.CommandArguments())
	case cmdHelp:
		b.handleHelpCommand(message.Chat.ID)
	default:
		b.reply(message.Chat.ID, "Unknown command. Use /quiz <id>, /ranking <window> or /help.")
	}
}

func (b *Bot) isAdmin(userID int64) (bool, error) {
	status, err := b.sender.MemberStatus(b.dest.ChatID, userID)
	if err != nil {
		return false, err
	}
	return status == "creator" || status == "administrator", nil
}

// handleQuizCommand dispatches the listed question IDs immediately,
// independent of the scheduler's dedupe set. Unknown IDs get a short
// reply; the rest of the batch continues.
func (b *Bot) handleQuizCommand(ctx context.Context, args string) {
	ids := expandIDs(strings.Fields(args))
	if len(ids) == 0 {
		b.reply(b.commandChatID, "Usage: /quiz <id> [id ...] or /quiz <from>-<to>")
		return
	}

	for _, id := range ids {
		q, err := b.feed.FindByID(ctx, id)
		if err != nil {
			b.reply(b.commandChatID, fmt.Sprintf("Question %q not found in the feed.", id))
			continue
		}
		if _, err := b.dispatcher.Dispatch(ctx, q, b.dest); err != nil {
			b.logger.Error("manual dispatch failed", zap.String("question_id", id), zap.Error(err))
			b.reply(b.commandChatID, fmt.Sprintf("Failed to dispatch question %q.", id))
		}
	}
}

// expandIDs flattens tokens into question IDs, expanding numeric ranges
// like "3-7".
func expandIDs(tokens []string) []string {
	var ids []string
	for _, tok := range tokens {
		from, to, ok := parseRange(tok)
		if !ok {
			ids = append(ids, tok)
			continue
		}
		for n := from; n <= to; n++ {
			ids = append(ids, strconv.Itoa(n))
		}
	}
	return ids
}

func parseRange(tok string) (from, to int, ok bool) {
	parts := strings.SplitN(tok, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	from, err1 := strconv.Atoi(parts[0])
	to, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || from > to {
		return 0, 0, false
	}
	return from, to, true
}

func (b *Bot) handleRankingCommand(ctx context.Context, args string) {
	windowArg := strings.TrimSpace(args)
	if windowArg == "" {
		windowArg = string(models.WindowDaily)
	}
	window, err := models.ParseWindow(windowArg)
	if err != nil {
		b.reply(b.commandChatID, fmt.Sprintf("Unknown window %q. Use daily, weekly or monthly.", windowArg))
		return
	}

	entries, err := b.ledger.Entries(ctx)
	if err != nil {
		b.logger.Error("failed to read score ledger", zap.Error(err))
		b.reply(b.commandChatID, "Sorry, the ranking is unavailable right now.")
		return
	}

	standings := quiz.Rank(entries, window, b.clock().In(b.loc))
	if len(standings) == 0 {
		b.reply(b.commandChatID, fmt.Sprintf("No scores recorded for the %s ranking yet.", window))
		return
	}
	if len(standings) > b.rankingLimit {
		standings = standings[:b.rankingLimit]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\U0001F3C6 Ranking (%s):\n\n", window)
	for i, s := range standings {
		prefix := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			prefix = medals[i]
		}
		name := s.UserName
		if name == "" {
			name = fmt.Sprintf("user %d", s.UserID)
		}
		fmt.Fprintf(&sb, "%s %s: %d\n", prefix, name, s.Total)
	}
	b.reply(b.commandChatID, sb.String())
}

func (b *Bot) handleHelpCommand(chatID int64) {
	b.reply(chatID, `Quiz bot commands:

/quiz <id> [id ...] - dispatch questions by ID right away
/quiz <from>-<to> - dispatch a numeric ID range
/ranking <daily|weekly|monthly> - show the leaderboard
/help - this message

Scheduled questions from the feed are dispatched automatically.`)
}

func (b *Bot) reply(chatID int64, text string) {
	if err := b.sender.SendMessage(models.Destination{ChatID: chatID}, text); err != nil {
		b.logger.Warn("failed to send reply", zap.Error(err))
	}
}
