package feed

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

const feedHeader = "id,question,a,b,c,d,correct,time_seconds,weight,date,time,image,comment\n"

func TestParseCSVValidRow(t *testing.T) {
	csv := feedHeader +
		"Q001,2+2?,3,4,5,6,B,30,2,2025-03-10,11:00,https://example.com/i.png,Basic arithmetic\n"

	records, err := parseCSV(strings.NewReader(csv), zap.NewNop())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	q := records[0]
	if q.ID != "Q001" || q.Statement != "2+2?" || q.Correct != "B" {
		t.Fatalf("unexpected record: %+v", q)
	}
	if q.TimeLimitSec != 30 || q.Weight != 2 {
		t.Fatalf("unexpected numerics: %+v", q)
	}
	if q.ScheduledDate != "2025-03-10" || q.ScheduledTime != "11:00" {
		t.Fatalf("unexpected schedule: %+v", q)
	}
	if idx, err := q.CorrectIndex(); err != nil || idx != 1 {
		t.Fatalf("expected correct index 1, got %d (%v)", idx, err)
	}
}

func TestParseCSVSkipsInvalidRows(t *testing.T) {
	csv := feedHeader +
		",no id,a,b,c,d,A,,,,,,\n" +
		"Q002,missing option,a,,c,d,A,,,,,,\n" +
		"Q003,bad label,a,b,c,d,X,,,,,,\n" +
		"Q004,fine,a,b,c,d,D,,,,,,\n"

	records, err := parseCSV(strings.NewReader(csv), zap.NewNop())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != "Q004" {
		t.Fatalf("expected only the valid row, got %+v", records)
	}
}

func TestParseCSVNumericDefaults(t *testing.T) {
	csv := feedHeader +
		"Q001,q,a,b,c,d,A,soon,heavy,,,,\n"

	records, err := parseCSV(strings.NewReader(csv), zap.NewNop())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if records[0].TimeLimitSec != 0 {
		t.Fatalf("expected no time limit for malformed value, got %d", records[0].TimeLimitSec)
	}
	if records[0].Weight != 1 {
		t.Fatalf("expected default weight 1, got %d", records[0].Weight)
	}
}

func TestParseCSVShortRows(t *testing.T) {
	// Optional trailing columns may be absent entirely.
	csv := feedHeader +
		"Q001,q,a,b,c,d,A\n"

	records, err := parseCSV(strings.NewReader(csv), zap.NewNop())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(records) != 1 || records[0].Weight != 1 {
		t.Fatalf("expected the short row accepted with defaults, got %+v", records)
	}
}

func TestParseCSVMissingColumnFails(t *testing.T) {
	csv := "id,question,a,b,c,correct\nQ001,q,a,b,c,A\n"
	if _, err := parseCSV(strings.NewReader(csv), zap.NewNop()); err == nil {
		t.Fatalf("expected an error for a missing required column")
	}
}
