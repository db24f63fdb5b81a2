package quiz

import (
	"testing"
	"time"

	"github.com/quizbr/quizbot/models"
)

func TestRankDailyFiltersAndSorts(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	entries := []models.ScoreEntry{
		{UserID: 1, UserName: "Ana", Date: "2025-03-10", Points: 2},
		{UserID: 2, UserName: "Bia", Date: "2025-03-10", Points: 1},
		{UserID: 1, UserName: "Ana", Date: "2025-03-10", Points: 1},
		{UserID: 3, UserName: "Carlos", Date: "2025-03-09", Points: 5}, // yesterday
	}

	standings := Rank(entries, models.WindowDaily, now)
	if len(standings) != 2 {
		t.Fatalf("expected 2 standings, got %d", len(standings))
	}
	if standings[0].UserID != 1 || standings[0].Total != 3 {
		t.Fatalf("expected Ana leading with 3, got %+v", standings[0])
	}
	if standings[1].UserID != 2 || standings[1].Total != 1 {
		t.Fatalf("expected Bia with 1, got %+v", standings[1])
	}
}

func TestRankWeeklyTrailingSevenDays(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	entries := []models.ScoreEntry{
		{UserID: 1, Date: "2025-03-04", Points: 1}, // 6 days ago, inside
		{UserID: 2, Date: "2025-03-03", Points: 9}, // 7 days ago, outside
	}

	standings := Rank(entries, models.WindowWeekly, now)
	if len(standings) != 1 || standings[0].UserID != 1 {
		t.Fatalf("expected only the entry within the trailing week, got %+v", standings)
	}
}

func TestRankMonthlyMatchesMonthAndYear(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	entries := []models.ScoreEntry{
		{UserID: 1, Date: "2025-03-01", Points: 1},
		{UserID: 2, Date: "2025-02-28", Points: 1},
		{UserID: 3, Date: "2024-03-15", Points: 1},
	}

	standings := Rank(entries, models.WindowMonthly, now)
	if len(standings) != 1 || standings[0].UserID != 1 {
		t.Fatalf("expected only this month's entry, got %+v", standings)
	}
}

func TestRankExcludesNonpositiveTotals(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	entries := []models.ScoreEntry{
		{UserID: 1, Date: "2025-03-10", Points: 0},
	}
	if standings := Rank(entries, models.WindowDaily, now); len(standings) != 0 {
		t.Fatalf("expected zero-total participants excluded, got %+v", standings)
	}
}

func TestRankTieBreakByUserID(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	entries := []models.ScoreEntry{
		{UserID: 9, Date: "2025-03-10", Points: 2},
		{UserID: 4, Date: "2025-03-10", Points: 2},
	}
	standings := Rank(entries, models.WindowDaily, now)
	if standings[0].UserID != 4 || standings[1].UserID != 9 {
		t.Fatalf("expected ties ordered by ascending user ID, got %+v", standings)
	}
}

func TestRankSkipsMalformedDates(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	entries := []models.ScoreEntry{
		{UserID: 1, Date: "not a date", Points: 2},
		{UserID: 2, Date: "2025-03-10", Points: 1},
	}
	standings := Rank(entries, models.WindowDaily, now)
	if len(standings) != 1 || standings[0].UserID != 2 {
		t.Fatalf("expected the malformed entry skipped, got %+v", standings)
	}
}
