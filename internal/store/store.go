// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width and always UTC so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for persisted records and quiz history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps read-modify-write sequences on a single writer.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			series TEXT NOT NULL,
			questions INTEGER NOT NULL,
			answered INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			completed INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_ended_at ON quizzes(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadRecord returns the raw value stored under name. The boolean is false
// when no record exists.
func (s *Store) LoadRecord(ctx context.Context, name string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM records WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// SaveRecord replaces the value stored under name.
func (s *Store) SaveRecord(ctx context.Context, name string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (name, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, string(value), formatTime(time.Now()))
	return err
}

// InsertQuiz stores a finished or abandoned quiz.
func (s *Store) InsertQuiz(ctx context.Context, rec model.QuizRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("quiz record id is empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quizzes (id, started_at, ended_at, mode, series, questions, answered, correct, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		formatTime(rec.StartedAt),
		formatTime(rec.EndedAt),
		rec.Mode.String(),
		joinSeries(rec.Series),
		rec.Questions,
		rec.Answered,
		rec.Correct,
		boolToInt(rec.Completed),
	)
	return err
}

// ListQuizzes returns quiz history ordered oldest first. A positive last
// keeps only the most recent entries.
func (s *Store) ListQuizzes(ctx context.Context, last int) ([]model.QuizRecord, error) {
	query := `SELECT id, started_at, ended_at, mode, series, questions, answered, correct, completed
		FROM quizzes
		ORDER BY ended_at ASC, started_at ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []model.QuizRecord
	for rows.Next() {
		var (
			rec       model.QuizRecord
			startedAt string
			endedAt   string
			mode      string
			series    string
			completed int
		)
		if err := rows.Scan(&rec.ID, &startedAt, &endedAt, &mode, &series, &rec.Questions, &rec.Answered, &rec.Correct, &completed); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, err
		}
		if rec.Mode, err = model.ParseMode(mode); err != nil {
			return nil, err
		}
		if rec.Series, err = splitSeries(series); err != nil {
			return nil, err
		}
		rec.Completed = completed != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if last > 0 && len(records) > last {
		records = records[len(records)-last:]
	}
	return records, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func joinSeries(series []int) string {
	parts := make([]string, len(series))
	for i, n := range series {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func splitSeries(value string) ([]int, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid series %q: %w", value, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
