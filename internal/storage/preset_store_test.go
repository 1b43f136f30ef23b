package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RubnSanchz/interval-timer/internal/presets"
	"github.com/RubnSanchz/interval-timer/internal/timer"
)

func newPresetStore(t *testing.T) (*SQLitePresetStore, *bytes.Buffer) {
	t.Helper()
	db, err := OpenSQLite(PresetsDBPath(filepath.Join(t.TempDir(), "data")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var logs bytes.Buffer
	return NewSQLitePresetStore(db, testLogger(&logs)), &logs
}

func TestSQLitePresetStore_SaveListRemove(t *testing.T) {
	ctx := context.Background()
	store, _ := newPresetStore(t)

	older, err := presets.New(presets.Input{Name: "Tabata", Config: timer.Config{Sets: 8, ExerciseSeconds: 20, RestSeconds: 10, ExerciseAutoAdvance: true, RestAutoAdvance: true}}, time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	newer, err := presets.New(presets.Input{Name: "EMOM", Config: timer.Config{Sets: 10, ExerciseSeconds: 40, RestSeconds: 20}}, time.Date(2026, 1, 1, 9, 0, 0, 500, time.UTC))
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer, list[0], "newest first")
	assert.Equal(t, older, list[1])

	renamed := older
	renamed.Name = "Tabata classic"
	require.NoError(t, store.Save(ctx, renamed))
	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "Tabata classic", list[1].Name)

	require.NoError(t, store.Remove(ctx, newer.ID))
	require.NoError(t, store.Remove(ctx, "unknown"))
	list, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, older.ID, list[0].ID)
}

func TestSQLitePresetStore_SaveRejectsInvalid(t *testing.T) {
	store, _ := newPresetStore(t)

	err := store.Save(context.Background(), presets.Preset{ID: "x", Name: " ", CreatedAt: time.Now(), UpdatedAt: time.Now()})
	assert.Error(t, err)
}

func TestSQLitePresetStore_ListSkipsInvalidRows(t *testing.T) {
	ctx := context.Background()
	store, logs := newPresetStore(t)

	_, err := store.db.ExecContext(ctx, `INSERT INTO presets VALUES ('bad', 'Broken', 0, 30, 10, 1, 1, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = store.db.ExecContext(ctx, `INSERT INTO presets VALUES ('when', 'Timeless', 3, 30, 10, 1, 1, 'yesterday', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Contains(t, logs.String(), "Skipping invalid preset bad")
	assert.Contains(t, logs.String(), "Skipping preset when")
}
