package presets

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RubnSanchz/interval-timer/internal/timer"
)

var hiit = timer.Config{Sets: 4, ExerciseSeconds: 45, RestSeconds: 15, ExerciseAutoAdvance: true, RestAutoAdvance: true}

func TestNew(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	p, err := New(Input{Name: "  HIIT 45/15 x4 ", Config: hiit}, now)
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "HIIT 45/15 x4", p.Name)
	assert.Equal(t, hiit, p.Config)
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, now, p.UpdatedAt)
	assert.NoError(t, Validate(p))

	other, err := New(Input{Name: "HIIT", Config: hiit}, now)
	require.NoError(t, err)
	assert.NotEqual(t, p.ID, other.ID)
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(Input{Name: "   ", Config: hiit}, time.Now())
	assert.True(t, errors.Is(err, ErrEmptyName))

	bad := hiit
	bad.ExerciseSeconds = 0
	_, err = New(Input{Name: "Tabata", Config: bad}, time.Now())
	assert.True(t, errors.Is(err, timer.ErrInvalidExerciseSeconds))
}

func TestValidate_StoredPreset(t *testing.T) {
	p, err := New(Input{Name: "Tabata", Config: hiit}, time.Now())
	require.NoError(t, err)

	missingID := p
	missingID.ID = ""
	assert.Error(t, Validate(missingID))

	noTimes := p
	noTimes.CreatedAt = time.Time{}
	assert.Error(t, Validate(noTimes))
}

func TestFind(t *testing.T) {
	a := Preset{ID: "a1", Name: "Tabata"}
	b := Preset{ID: "b2", Name: "EMOM"}
	list := []Preset{a, b}

	got, err := Find(list, "b2")
	require.NoError(t, err)
	assert.Equal(t, b, got)

	got, err = Find(list, "tabata")
	require.NoError(t, err)
	assert.Equal(t, a, got)

	_, err = Find(list, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "4 x 45s / 15s", Describe(hiit))

	manual := hiit
	manual.ExerciseAutoAdvance = false
	manual.RestAutoAdvance = false
	assert.Equal(t, "4 x 45s / 15s (hold after exercise, rest)", Describe(manual))
}
