// Package bot wires the quiz engine to Telegram: the long-poll update
// loop, the dispatcher that executes message plans, the scheduler that
// auto-dispatches time-gated questions, the admin command surface and the
// poll-answer capture.
package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/quizbr/quizbot/models"
	"github.com/quizbr/quizbot/quiz"
)

// Sender is the outbound surface of the chat platform. Narrowing it to
// what the engine needs keeps the dispatcher and the command handlers
// testable without a live bot API.
type Sender interface {
	SendMessage(dest models.Destination, text string) error
	SendPhoto(dest models.Destination, imageURL string) error
	// SendPoll creates a quiz poll and returns the poll ID Telegram
	// assigned to it.
	SendPoll(dest models.Destination, poll quiz.PollAction) (string, error)
	// MemberStatus returns the chat-member status ("creator",
	// "administrator", "member", ...) of a user in a chat.
	MemberStatus(chatID, userID int64) (string, error)
}

// TelegramSender implements Sender on the Telegram Bot API.
type TelegramSender struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

func NewTelegramSender(api *tgbotapi.BotAPI, logger *zap.Logger) *TelegramSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TelegramSender{api: api, logger: logger}
}

// applyThread targets a forum topic by replying to its root message;
// tgbotapi v5 predates the dedicated message_thread_id field.
func applyThread(base *tgbotapi.BaseChat, dest models.Destination) {
	if dest.ThreadID != 0 {
		base.ReplyToMessageID = dest.ThreadID
	}
}

func (s *TelegramSender) SendMessage(dest models.Destination, text string) error {
	msg := tgbotapi.NewMessage(dest.ChatID, text)
	applyThread(&msg.BaseChat, dest)
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (s *TelegramSender) SendPhoto(dest models.Destination, imageURL string) error {
	photo := tgbotapi.NewPhoto(dest.ChatID, tgbotapi.FileURL(imageURL))
	applyThread(&photo.BaseChat, dest)
	if _, err := s.api.Send(photo); err != nil {
		return fmt.Errorf("failed to send photo: %w", err)
	}
	return nil
}

func (s *TelegramSender) SendPoll(dest models.Destination, poll quiz.PollAction) (string, error) {
	cfg := tgbotapi.NewPoll(dest.ChatID, poll.Question, poll.Options...)
	cfg.Type = "quiz"
	cfg.CorrectOptionID = int64(poll.CorrectIndex)
	cfg.IsAnonymous = false
	if poll.OpenPeriodSec > 0 {
		cfg.OpenPeriod = poll.OpenPeriodSec
	}
	applyThread(&cfg.BaseChat, dest)

	sent, err := s.api.Send(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to send poll: %w", err)
	}
	if sent.Poll == nil {
		return "", fmt.Errorf("poll message has no poll payload")
	}
	return sent.Poll.ID, nil
}

func (s *TelegramSender) MemberStatus(chatID, userID int64) (string, error) {
	member, err := s.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to look up chat member: %w", err)
	}
	return member.Status, nil
}
