package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/RubnSanchz/interval-timer/internal/presets"
	"github.com/RubnSanchz/interval-timer/internal/timer"
)

// sortableTime keeps a fixed number of fractional digits so timestamps
// order correctly as text
const sortableTime = "2006-01-02T15:04:05.000000000Z07:00"

// SQLitePresetStore implements presets.Store on a sqlite table
type SQLitePresetStore struct {
	db     *sql.DB
	logger *log.Logger
}

var _ presets.Store = (*SQLitePresetStore)(nil)

func NewSQLitePresetStore(db *sql.DB, logger *log.Logger) *SQLitePresetStore {
	if db == nil {
		panic("SQLitePresetStore: db cannot be nil")
	}
	if logger == nil {
		panic("SQLitePresetStore: logger cannot be nil")
	}
	return &SQLitePresetStore{db: db, logger: logger}
}

// List returns every valid preset, newest first. Rows that fail validation
// are logged and skipped.
func (s *SQLitePresetStore) List(ctx context.Context) ([]presets.Preset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, sets, exercise_seconds, rest_seconds,
		       exercise_auto_advance, rest_auto_advance, created_at, updated_at
		FROM presets
		ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	var out []presets.Preset
	for rows.Next() {
		var (
			p                    presets.Preset
			c                    timer.Config
			createdAt, updatedAt string
		)
		if err := rows.Scan(&p.ID, &p.Name, &c.Sets, &c.ExerciseSeconds, &c.RestSeconds,
			&c.ExerciseAutoAdvance, &c.RestAutoAdvance, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		p.Config = c

		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			s.logger.Printf("SQLitePresetStore: Skipping preset %s with bad created_at: %v", p.ID, err)
			continue
		}
		if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
			s.logger.Printf("SQLitePresetStore: Skipping preset %s with bad updated_at: %v", p.ID, err)
			continue
		}
		if err := presets.Validate(p); err != nil {
			s.logger.Printf("SQLitePresetStore: Skipping invalid preset %s: %v", p.ID, err)
			continue
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate presets: %w", err)
	}
	return out, nil
}

// Save inserts p, or replaces the stored preset with the same id
func (s *SQLitePresetStore) Save(ctx context.Context, p presets.Preset) error {
	if err := presets.Validate(p); err != nil {
		return err
	}
	c := p.Config
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO presets (
			id, name, sets, exercise_seconds, rest_seconds,
			exercise_auto_advance, rest_auto_advance, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			sets = excluded.sets,
			exercise_seconds = excluded.exercise_seconds,
			rest_seconds = excluded.rest_seconds,
			exercise_auto_advance = excluded.exercise_auto_advance,
			rest_auto_advance = excluded.rest_auto_advance,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, c.Sets, c.ExerciseSeconds, c.RestSeconds,
		c.ExerciseAutoAdvance, c.RestAutoAdvance,
		p.CreatedAt.UTC().Format(sortableTime),
		p.UpdatedAt.UTC().Format(sortableTime),
	)
	if err != nil {
		return fmt.Errorf("save preset: %w", err)
	}
	return nil
}

// Remove deletes the preset with the given id. Removing an unknown id is
// not an error.
func (s *SQLitePresetStore) Remove(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("remove preset: %w", err)
	}
	return nil
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err == nil {
		return t.UTC(), nil
	}
	t, err = time.Parse(time.RFC3339, raw)
	if err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, err
}
