package quiz

import (
	"strings"
	"testing"

	"github.com/quizbr/quizbot/models"
)

func baseQuestion() models.QuestionRecord {
	return models.QuestionRecord{
		ID:        "Q001",
		Statement: "2+2?",
		Options:   [4]string{"3", "4", "5", "6"},
		Correct:   "B",
		Weight:    2,
	}
}

func TestPlanShortQuestionIsPollOnly(t *testing.T) {
	q := baseQuestion()
	plan, err := Plan(q)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	if plan.Statement != "" || plan.ImageURL != "" || plan.OptionsText != "" {
		t.Fatalf("expected a poll-only plan, got %+v", plan)
	}
	if plan.Poll.Question != "2+2?" {
		t.Fatalf("expected verbatim statement, got %q", plan.Poll.Question)
	}
	if len(plan.Poll.Options) != 4 || plan.Poll.Options[1] != "4" {
		t.Fatalf("expected verbatim options, got %v", plan.Poll.Options)
	}
	if plan.Poll.CorrectIndex != 1 {
		t.Fatalf("expected correct index 1, got %d", plan.Poll.CorrectIndex)
	}
}

func TestPlanLongStatementIsExpanded(t *testing.T) {
	q := baseQuestion()
	q.Statement = strings.Repeat("a", 350)

	plan, err := Plan(q)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if plan.Statement != q.Statement {
		t.Fatalf("expected the full statement as first action")
	}
	if plan.Poll.Question != promptCorrect {
		t.Fatalf("expected generic prompt, got %q", plan.Poll.Question)
	}
}

func TestPlanNegatedStatementGetsIncorrectPrompt(t *testing.T) {
	q := baseQuestion()
	q.Statement = strings.Repeat("x", 340) + " mark the INCORRECT claim"

	plan, err := Plan(q)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if plan.Poll.Question != promptIncorrect {
		t.Fatalf("expected the incorrect-option prompt, got %q", plan.Poll.Question)
	}
}

func TestPlanLongOptionsBecomeLabels(t *testing.T) {
	q := baseQuestion()
	q.Options[2] = strings.Repeat("c", 120)

	plan, err := Plan(q)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	want := []string{"A", "B", "C", "D"}
	for i, label := range want {
		if plan.Poll.Options[i] != label {
			t.Fatalf("expected bare labels, got %v", plan.Poll.Options)
		}
	}
	if plan.OptionsText == "" {
		t.Fatalf("expected an expanded-options message")
	}
	if !strings.Contains(plan.OptionsText, "C) "+q.Options[2]) {
		t.Fatalf("expanded options message is missing the full option text")
	}
	// Short statement stays on the poll even when options expand.
	if plan.Poll.Question != "2+2?" {
		t.Fatalf("expected verbatim statement, got %q", plan.Poll.Question)
	}
}

func TestPlanImageIsIncluded(t *testing.T) {
	q := baseQuestion()
	q.ImageURL = "https://example.com/fig.png"

	plan, err := Plan(q)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if plan.ImageURL != q.ImageURL {
		t.Fatalf("expected image action, got %+v", plan)
	}
}

func TestPlanClampsPollQuestion(t *testing.T) {
	q := baseQuestion()
	q.Statement = strings.Repeat("é", 400)

	plan, err := Plan(q)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if n := len([]rune(plan.Poll.Question)); n > maxPollQuestionLen {
		t.Fatalf("poll question exceeds the platform ceiling: %d runes", n)
	}
}

func TestPlanRejectsUnknownCorrectLabel(t *testing.T) {
	q := baseQuestion()
	q.Correct = "E"
	if _, err := Plan(q); err == nil {
		t.Fatalf("expected an error for unknown correct label")
	}
}
