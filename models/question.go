package models

import (
	"fmt"
	"strings"
)

// OptionLabels are the four answer labels used by the question feed.
var OptionLabels = [4]string{"A", "B", "C", "D"}

// QuestionRecord is one row of the question feed. It is immutable once
// parsed; the feed is re-read on every scheduler tick, so edits to the
// sheet take effect on the next tick.
type QuestionRecord struct {
	ID           string
	Statement    string
	Options      [4]string
	Correct      string // "A".."D"
	TimeLimitSec int    // 0 means the poll stays open
	Weight       int    // defaults to 1
	// Scheduling fields; empty means the record is never auto-dispatched.
	ScheduledDate string // "2006-01-02" or "02/01/2006"
	ScheduledTime string // "15:04" or "15:04:05"
	ImageURL      string
	Comment       string
}

// CorrectIndex maps the correct-option label to its 0-based index.
func (q QuestionRecord) CorrectIndex() (int, error) {
	label := strings.ToUpper(strings.TrimSpace(q.Correct))
	for i, l := range OptionLabels {
		if label == l {
			return i, nil
		}
	}
	return 0, fmt.Errorf("question %s: unknown correct-option label %q", q.ID, q.Correct)
}

// Scheduled reports whether the record carries a dispatch timestamp.
func (q QuestionRecord) Scheduled() bool {
	return q.ScheduledDate != "" && q.ScheduledTime != ""
}
