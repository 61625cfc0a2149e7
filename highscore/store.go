package highscore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrNoScores is returned by Best on an empty table
var ErrNoScores = errors.New("no scores recorded")

// Entry is one recorded game
type Entry struct {
	Player string
	Score  int
	Level  int
	Won    bool
	At     time.Time
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %d (level %d)", e.Player, e.Score, e.Level+1)
}

// Store persists finished games in a sqlite table
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the score database at path, ":memory:" keeps it in memory
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open score database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to score database: %w", err)
	}

	// Single writer; in-memory databases are per connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if !strings.HasPrefix(path, ":memory:") {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set journal mode: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores a finished game
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.Player == "" {
		return errors.New("record score: empty player name")
	}
	at := e.At
	if at.IsZero() {
		at = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (player, score, level, won, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.Player, e.Score, e.Level, e.Won, at.UnixMilli())
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}

// Top returns up to n entries, best first, ties keep recording order
func (s *Store) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player, score, level, won, created_at FROM scores ORDER BY score DESC, id ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			ms int64
		)
		if err := rows.Scan(&e.Player, &e.Score, &e.Level, &e.Won, &ms); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		e.At = time.UnixMilli(ms)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return out, nil
}

// Best returns the highest score, ErrNoScores when nothing was recorded
func (s *Store) Best(ctx context.Context) (Entry, error) {
	top, err := s.Top(ctx, 1)
	if err != nil {
		return Entry{}, err
	}
	if len(top) == 0 {
		return Entry{}, ErrNoScores
	}
	return top[0], nil
}
