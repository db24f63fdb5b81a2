package models

import "time"

// Destination identifies where messages and polls go. ThreadID is the
// root message of a forum topic; zero targets the main channel.
type Destination struct {
	ChatID   int64
	ThreadID int
}

// PollRecord is the grading metadata kept for every poll the bot creates,
// keyed by the poll ID Telegram assigns. Records are never updated or
// deleted; late answer events and deferred comments still need them.
type PollRecord struct {
	PollID       string
	CorrectIndex int
	Weight       int
	Comment      string
	Dest         Destination
	CreatedAt    time.Time
}

// ScoreEntry is one awarded answer. Entries are append-only; a
// participant's total for a window is the filtered sum.
type ScoreEntry struct {
	UserID   int64
	UserName string
	Date     string // "2006-01-02"
	Points   int
}

// DateFormat is the stamp used on score entries.
const DateFormat = "2006-01-02"
