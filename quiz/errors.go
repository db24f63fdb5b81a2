package quiz

import "errors"

var (
	// ErrDuplicatePoll means Register was called twice for one poll ID.
	// That indicates a dispatcher bug, not a recoverable condition.
	ErrDuplicatePoll = errors.New("poll already registered")
	// ErrPollNotFound means the poll was not created by this bot.
	ErrPollNotFound = errors.New("poll not registered")
)
