package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quizbr/quizbot/models"
)

// SQLite implements Store on a local sqlite file.
type SQLite struct {
	conn *sql.DB
}

// NewSQLite opens the database and initializes tables.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err = createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &SQLite{conn: db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			user_name TEXT NOT NULL,
			date TEXT NOT NULL,
			points INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sent_questions (
			question_id TEXT PRIMARY KEY
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS polls (
			poll_id TEXT PRIMARY KEY,
			correct_index INTEGER NOT NULL,
			weight INTEGER NOT NULL,
			comment TEXT NOT NULL,
			chat_id INTEGER NOT NULL,
			thread_id INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)
	`)
	return err
}

func (s *SQLite) AppendScore(ctx context.Context, entry models.ScoreEntry) error {
	_, err := s.conn.ExecContext(ctx,
		"INSERT INTO scores (user_id, user_name, date, points) VALUES (?, ?, ?, ?)",
		entry.UserID, entry.UserName, entry.Date, entry.Points,
	)
	return err
}

func (s *SQLite) Scores(ctx context.Context) ([]models.ScoreEntry, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT user_id, user_name, date, points FROM scores")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ScoreEntry
	for rows.Next() {
		var e models.ScoreEntry
		if err := rows.Scan(&e.UserID, &e.UserName, &e.Date, &e.Points); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLite) MarkSent(ctx context.Context, questionID string) error {
	_, err := s.conn.ExecContext(ctx,
		"INSERT OR IGNORE INTO sent_questions (question_id) VALUES (?)", questionID)
	return err
}

func (s *SQLite) SentIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT question_id FROM sent_questions")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func (s *SQLite) SavePoll(ctx context.Context, rec models.PollRecord) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO polls (poll_id, correct_index, weight, comment, chat_id, thread_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.PollID, rec.CorrectIndex, rec.Weight, rec.Comment,
		rec.Dest.ChatID, rec.Dest.ThreadID, rec.CreatedAt.Unix(),
	)
	return err
}

func (s *SQLite) Polls(ctx context.Context) ([]models.PollRecord, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT poll_id, correct_index, weight, comment, chat_id, thread_id, created_at FROM polls")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []models.PollRecord
	for rows.Next() {
		var r models.PollRecord
		var createdAt int64
		if err := rows.Scan(&r.PollID, &r.CorrectIndex, &r.Weight, &r.Comment,
			&r.Dest.ChatID, &r.Dest.ThreadID, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(createdAt, 0)
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.conn.Close()
}
