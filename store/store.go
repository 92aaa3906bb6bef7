package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"snake/experiments/metrics"
	"snake/learner"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS models (
	name TEXT PRIMARY KEY,
	blob BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL UNIQUE,
	agent TEXT NOT NULL,
	seed TEXT NOT NULL,
	width INTEGER NOT NULL,
	height INTEGER NOT NULL,
	score INTEGER NOT NULL,
	length INTEGER NOT NULL,
	ticks INTEGER NOT NULL,
	termination TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	ended_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS results_score ON results (score DESC, ticks ASC);
`

// Store persists learned models and finished game results in a SQLite file.
type Store struct {
	db *sql.DB
}

// Open creates the database file and its tables if needed. ":memory:" keeps
// everything in process.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Debug().Msgf("database initialized at %s", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the blob stored under name.
func (s *Store) Load(name string) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRow(`SELECT blob FROM models WHERE name = ?`, name).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, learner.ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query model: %w", err)
	}
	return blob, nil
}

// Save inserts or replaces the blob stored under name.
func (s *Store) Save(name string, blob []byte) error {
	_, err := s.db.Exec(`
	INSERT INTO models (name, blob, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at
	`, name, blob, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	return nil
}

// SaveResult records a finished game.
func (s *Store) SaveResult(m metrics.GameMetric) error {
	_, err := s.db.Exec(`
	INSERT INTO results (game_id, agent, seed, width, height, score, length, ticks, termination, duration_ms, ended_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.ID,
		m.Agent,
		m.Seed,
		m.Width,
		m.Height,
		m.Score,
		m.Length,
		m.Ticks,
		m.Termination,
		m.Duration.Milliseconds(),
		m.EndTime.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save result %s: %w", m.ID, err)
	}
	return nil
}

// TopResults returns the best games by score, shorter games first on ties.
func (s *Store) TopResults(limit int) ([]metrics.GameMetric, error) {
	rows, err := s.db.Query(`
	SELECT game_id, agent, seed, width, height, score, length, ticks, termination, duration_ms, ended_at
	FROM results ORDER BY score DESC, ticks ASC, id ASC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []metrics.GameMetric
	for rows.Next() {
		var m metrics.GameMetric
		var durationMs, endedMs int64
		err := rows.Scan(&m.ID, &m.Agent, &m.Seed, &m.Width, &m.Height, &m.Score, &m.Length, &m.Ticks, &m.Termination, &durationMs, &endedMs)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		m.Duration = time.Duration(durationMs) * time.Millisecond
		m.EndTime = time.UnixMilli(endedMs).UTC()
		m.StartTime = m.EndTime.Add(-m.Duration)
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return results, nil
}

var _ learner.ModelStore = (*Store)(nil)
