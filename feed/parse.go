package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/quizbr/quizbot/models"
)

// Column names expected in the feed header, matched case-insensitively.
const (
	colID      = "id"
	colQ       = "question"
	colA       = "a"
	colB       = "b"
	colC       = "c"
	colD       = "d"
	colCorrect = "correct"
	colTime    = "time_seconds"
	colWeight  = "weight"
	colDate    = "date"
	colClock   = "time"
	colImage   = "image"
	colComment = "comment"
)

// parseCSV turns the raw feed into validated question records. Rows with
// a missing id, statement, option or correct label are rejected here so
// nothing downstream has to re-validate.
func parseCSV(r io.Reader, logger *zap.Logger) ([]models.QuestionRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // trailing optional columns may be absent

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read feed header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colID, colQ, colA, colB, colC, colD, colCorrect} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("feed header is missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []models.QuestionRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("skipping unreadable feed row", zap.Int("line", line), zap.Error(err))
			continue
		}

		q := models.QuestionRecord{
			ID:        field(row, colID),
			Statement: field(row, colQ),
			Options: [4]string{
				field(row, colA),
				field(row, colB),
				field(row, colC),
				field(row, colD),
			},
			Correct:       strings.ToUpper(field(row, colCorrect)),
			ScheduledDate: field(row, colDate),
			ScheduledTime: field(row, colClock),
			ImageURL:      field(row, colImage),
			Comment:       field(row, colComment),
		}

		if reason := validate(q); reason != "" {
			logger.Warn("skipping invalid feed row",
				zap.Int("line", line), zap.String("id", q.ID), zap.String("reason", reason))
			continue
		}

		// Malformed numerics fall back to documented defaults instead of
		// rejecting the row.
		q.TimeLimitSec = parseIntDefault(field(row, colTime), 0)
		q.Weight = parseIntDefault(field(row, colWeight), 1)
		if q.Weight <= 0 {
			q.Weight = 1
		}

		records = append(records, q)
	}
	return records, nil
}

func validate(q models.QuestionRecord) string {
	if q.ID == "" {
		return "empty id"
	}
	if q.Statement == "" {
		return "empty question"
	}
	for i, opt := range q.Options {
		if opt == "" {
			return fmt.Sprintf("empty option %s", models.OptionLabels[i])
		}
	}
	if _, err := q.CorrectIndex(); err != nil {
		return "unknown correct label"
	}
	return ""
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
