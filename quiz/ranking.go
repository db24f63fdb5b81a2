package quiz

import (
	"sort"
	"time"

	"github.com/quizbr/quizbot/models"
)

// Standing is one row of a leaderboard.
type Standing struct {
	UserID   int64
	UserName string
	Total    int
}

// Rank sums score entries over the window ending at now and returns
// standings sorted by total, descending. Ties are broken by ascending
// user ID so the order is stable. Participants with no points in the
// window are excluded; truncation to a top N is the caller's job.
func Rank(entries []models.ScoreEntry, window models.Window, now time.Time) []Standing {
	totals := make(map[int64]*Standing)
	for _, e := range entries {
		date, err := time.ParseInLocation(models.DateFormat, e.Date, now.Location())
		if err != nil {
			continue
		}
		if !inWindow(window, date, now) {
			continue
		}
		s, ok := totals[e.UserID]
		if !ok {
			s = &Standing{UserID: e.UserID, UserName: e.UserName}
			totals[e.UserID] = s
		}
		s.Total += e.Points
		if e.UserName != "" {
			s.UserName = e.UserName
		}
	}

	standings := make([]Standing, 0, len(totals))
	for _, s := range totals {
		if s.Total <= 0 {
			continue
		}
		standings = append(standings, *s)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Total != standings[j].Total {
			return standings[i].Total > standings[j].Total
		}
		return standings[i].UserID < standings[j].UserID
	})
	return standings
}

func inWindow(window models.Window, date, now time.Time) bool {
	switch window {
	case models.WindowDaily:
		y1, m1, d1 := date.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case models.WindowWeekly:
		// Trailing seven days, inclusive of today.
		start := now.AddDate(0, 0, -6)
		startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
		return !date.Before(startDay) && !date.After(now)
	case models.WindowMonthly:
		return date.Year() == now.Year() && date.Month() == now.Month()
	}
	return false
}
