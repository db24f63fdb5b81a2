// Package quiz holds the dispatch and scoring core: the pure message
// planner, the poll registry, the score ledger and the ranking
// aggregator. Nothing here talks to Telegram directly.
package quiz

import (
	"fmt"
	"strings"

	"github.com/quizbr/quizbot/models"
)

// Telegram limits.
const (
	maxPollQuestionLen = 300
	maxPollOptionLen   = 100
)

// Fixed prompts used when the statement is too long to fit in the poll.
const (
	promptCorrect   = "Which option is correct?"
	promptIncorrect = "Which option is INCORRECT?"
)

// negationMarkers flip the generic prompt: a statement asking for the
// wrong alternative must not be replaced by a prompt asking for the
// right one.
var negationMarkers = []string{"incorrect", "false", "except", "not", "wrong"}

// PollAction is the poll-creation step of a plan.
type PollAction struct {
	Question      string
	Options       []string
	CorrectIndex  int
	OpenPeriodSec int
}

// DispatchPlan is the ordered set of messages a single question becomes:
// optional full statement, optional image, optional expanded options, and
// always the poll, in that order with the poll last.
type DispatchPlan struct {
	Statement   string // empty unless the statement exceeds the poll limit
	ImageURL    string
	OptionsText string // empty unless an option exceeds the option limit
	Poll        PollAction
}

// Plan decides how a question is split across messages so every piece
// fits Telegram's poll limits. Pure and deterministic.
func Plan(q models.QuestionRecord) (DispatchPlan, error) {
	correct, err := q.CorrectIndex()
	if err != nil {
		return DispatchPlan{}, err
	}

	plan := DispatchPlan{
		ImageURL: q.ImageURL,
		Poll: PollAction{
			Question:      q.Statement,
			CorrectIndex:  correct,
			OpenPeriodSec: q.TimeLimitSec,
		},
	}

	if len([]rune(q.Statement)) > maxPollQuestionLen {
		plan.Statement = q.Statement
		plan.Poll.Question = genericPrompt(q.Statement)
	}

	if longOption(q.Options) {
		plan.OptionsText = expandOptions(q.Options)
		plan.Poll.Options = []string{"A", "B", "C", "D"}
	} else {
		plan.Poll.Options = q.Options[:]
	}

	plan.Poll.Question = truncate(plan.Poll.Question, maxPollQuestionLen)
	return plan, nil
}

// genericPrompt picks the replacement poll question for an oversized
// statement, asking for the incorrect option when the statement itself
// asks for one.
func genericPrompt(statement string) string {
	lower := strings.ToLower(statement)
	for _, marker := range negationMarkers {
		if strings.Contains(lower, marker) {
			return promptIncorrect
		}
	}
	return promptCorrect
}

func longOption(options [4]string) bool {
	for _, opt := range options {
		if len([]rune(opt)) > maxPollOptionLen {
			return true
		}
	}
	return false
}

// expandOptions renders the four options in full for the companion text
// message sent when the poll can only carry bare labels.
func expandOptions(options [4]string) string {
	parts := make([]string, len(options))
	for i, opt := range options {
		parts[i] = fmt.Sprintf("%s) %s", models.OptionLabels[i], opt)
	}
	return strings.Join(parts, "\n\n")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
