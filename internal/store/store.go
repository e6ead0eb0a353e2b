// Package store persists rendered videos and their metadata in SQLite.
// Saving is always fire-and-forget from the pipeline's point of view: a
// failed save never fails a finished render.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("video not found")

const schema = `
CREATE TABLE IF NOT EXISTS videos (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	prompt     TEXT,
	dsl_script TEXT NOT NULL,
	model_used TEXT NOT NULL,
	duration   REAL NOT NULL,
	fps        INTEGER NOT NULL,
	width      INTEGER NOT NULL,
	height     INTEGER NOT NULL,
	video      BLOB NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_videos_created_at ON videos(created_at);
`

// Video is one stored render with its inputs.
type Video struct {
	ID        int64
	Prompt    string
	DSLScript string
	ModelUsed string
	Duration  float64
	FPS       int
	Width     int
	Height    int
	Video     []byte
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database with the production pragmas
// applied: WAL journaling, busy timeout, foreign keys.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts one render and returns its id.
func (s *Store) Save(ctx context.Context, v *Video) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO videos (prompt, dsl_script, model_used, duration, fps, width, height, video)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Prompt, v.DSLScript, v.ModelUsed, v.Duration, v.FPS, v.Width, v.Height, v.Video,
	)
	if err != nil {
		return 0, fmt.Errorf("insert video: %w", err)
	}
	return res.LastInsertId()
}

// List returns all stored videos, newest first.
func (s *Store) List(ctx context.Context) ([]Video, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, prompt, dsl_script, model_used, duration, fps, width, height, video, created_at
		FROM videos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []Video
	for rows.Next() {
		var v Video
		if err := rows.Scan(&v.ID, &v.Prompt, &v.DSLScript, &v.ModelUsed,
			&v.Duration, &v.FPS, &v.Width, &v.Height, &v.Video, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// Get returns one stored video by id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (*Video, error) {
	var v Video
	err := s.db.QueryRowContext(ctx, `
		SELECT id, prompt, dsl_script, model_used, duration, fps, width, height, video, created_at
		FROM videos WHERE id = ?`, id,
	).Scan(&v.ID, &v.Prompt, &v.DSLScript, &v.ModelUsed,
		&v.Duration, &v.FPS, &v.Width, &v.Height, &v.Video, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video %d: %w", id, err)
	}
	return &v, nil
}

// Delete removes one stored video by id, or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete video %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
