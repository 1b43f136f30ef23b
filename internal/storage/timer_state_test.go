package storage

import (
	"bytes"
	"log"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RubnSanchz/interval-timer/internal/timer"
)

var testConfig = timer.Config{Sets: 3, ExerciseSeconds: 30, RestSeconds: 10, ExerciseAutoAdvance: false, RestAutoAdvance: true}

func testLogger(buf *bytes.Buffer) *log.Logger {
	return log.New(buf, "", 0)
}

func TestTimerState_RoundTrip(t *testing.T) {
	updatedAt := time.UnixMilli(1_760_000_000_123)

	for _, snap := range []timer.Snapshot{
		timer.Running(timer.PhasePrep, 1, 5),
		timer.Paused(timer.PhaseRest, 2, 7),
		timer.Holding(timer.PhaseExercise, 2, 0, timer.Transition{Phase: timer.PhaseRest, SetIndex: 2, Remaining: 10}),
		timer.Done(3),
	} {
		state := StoredTimerState{Config: testConfig, Snapshot: snap, UpdatedAt: updatedAt}

		data, err := EncodeTimerState(state)
		require.NoError(t, err)

		got, ok := DecodeTimerState(data)
		require.True(t, ok, string(data))
		assert.Equal(t, state, got)
	}
}

func TestTimerState_WireFormat(t *testing.T) {
	state := StoredTimerState{
		Config:    testConfig,
		Snapshot:  timer.Running(timer.PhaseExercise, 1, 12),
		UpdatedAt: time.UnixMilli(1000),
	}
	data, err := EncodeTimerState(state)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"config": {"sets": 3, "exerciseSeconds": 30, "restSeconds": 10, "exerciseAutoAdvance": false, "restAutoAdvance": true},
		"snapshot": {"phase": "exercise", "setIndex": 1, "remaining": 12, "status": "running", "pending": null},
		"updatedAt": 1000
	}`, string(data))
}

func TestDecodeTimerState_RejectsJunk(t *testing.T) {
	valid := `"config": {"sets": 3, "exerciseSeconds": 30, "restSeconds": 10, "exerciseAutoAdvance": true, "restAutoAdvance": true}`
	junk := []string{
		``,
		`null`,
		`[]`,
		`"text"`,
		`{}`,
		`{` + valid + `, "updatedAt": 1}`,
		`{` + valid + `, "snapshot": {"phase": "exercise", "setIndex": 1, "remaining": 3, "status": "running", "pending": null}}`,
		`{` + valid + `, "snapshot": {"phase": "exercise", "setIndex": 1, "remaining": 3, "status": "running", "pending": null}, "updatedAt": "1"}`,
		`{` + valid + `, "snapshot": {"phase": "exercise", "setIndex": 1, "remaining": 3, "status": "running"}, "updatedAt": 1}`,
		`{` + valid + `, "snapshot": {"phase": "exercise", "setIndex": "1", "remaining": 3, "status": "running", "pending": null}, "updatedAt": 1}`,
		`{` + valid + `, "snapshot": {"phase": "exercise", "setIndex": 1, "remaining": 1.5, "status": "running", "pending": null}, "updatedAt": 1}`,
		`{` + valid + `, "snapshot": {"phase": "cooldown", "setIndex": 1, "remaining": 3, "status": "running", "pending": null}, "updatedAt": 1}`,
		`{` + valid + `, "snapshot": {"phase": "exercise", "setIndex": 1, "remaining": 3, "status": "sleeping", "pending": null}, "updatedAt": 1}`,
		`{` + valid + `, "snapshot": {"phase": "exercise", "setIndex": 1, "remaining": 0, "status": "holding", "pending": null}, "updatedAt": 1}`,
		`{` + valid + `, "snapshot": {"phase": "exercise", "setIndex": 1, "remaining": 0, "status": "running", "pending": {"phase": "rest", "setIndex": 1, "remaining": 10}}, "updatedAt": 1}`,
		`{` + valid + `, "snapshot": {"phase": "exercise", "setIndex": 1, "remaining": 0, "status": "holding", "pending": {"phase": "rest"}}, "updatedAt": 1}`,
		`{` + valid + `, "snapshot": {"phase": "exercise", "setIndex": 1, "remaining": 3, "status": "running", "pending": null}, "updatedAt": 1e300}`,
		`{` + valid + `, "snapshot": {"phase": "exercise", "setIndex": 1, "remaining": 3, "status": "running", "pending": null}, "updatedAt": -1e300}`,
		`{` + valid + `, "snapshot": {"phase": "exercise", "setIndex": 1, "remaining": 3, "status": "running", "pending": null}, "updatedAt": 9223372036854775808}`,
		`{"config": {"sets": 0, "exerciseSeconds": 30, "restSeconds": 10, "exerciseAutoAdvance": true, "restAutoAdvance": true}, "snapshot": {"phase": "exercise", "setIndex": 1, "remaining": 3, "status": "running", "pending": null}, "updatedAt": 1}`,
		`{"config": {"sets": 3, "exerciseSeconds": 30, "restSeconds": 10, "exerciseAutoAdvance": "yes", "restAutoAdvance": true}, "snapshot": {"phase": "exercise", "setIndex": 1, "remaining": 3, "status": "running", "pending": null}, "updatedAt": 1}`,
	}
	for _, raw := range junk {
		_, ok := DecodeTimerState([]byte(raw))
		assert.False(t, ok, raw)
	}
}

func TestDecodeEpochMillis(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e19, -1e19} {
		_, ok := decodeEpochMillis(v)
		assert.False(t, ok, "%v", v)
	}
	at, ok := decodeEpochMillis(1_700_000_000_000)
	require.True(t, ok)
	assert.Equal(t, int64(1_700_000_000_000), at.UnixMilli())
}

func TestStoredTimerState_Live(t *testing.T) {
	base := time.UnixMilli(1_000_000)
	state := StoredTimerState{Config: testConfig, Snapshot: timer.Running(timer.PhasePrep, 1, 5), UpdatedAt: base}

	assert.Equal(t, timer.Running(timer.PhaseExercise, 1, 28), state.Live(base.Add(7900*time.Millisecond)))
	assert.Equal(t, state.Snapshot, state.Live(base.Add(-time.Hour)))

	// exerciseAutoAdvance is off, so the replay holds at the end of set 1
	held := state.Live(base.Add(10 * time.Minute))
	assert.Equal(t, timer.StatusHolding, held.Status())
}

func TestFileTimerStateStore(t *testing.T) {
	var logs bytes.Buffer
	dir := filepath.Join(t.TempDir(), "nested")

	store, err := NewFileTimerStateStore(dir, testLogger(&logs))
	require.NoError(t, err)

	_, ok := store.Read()
	assert.False(t, ok)
	assert.Empty(t, logs.String(), "a missing file is not worth logging")

	state := StoredTimerState{Config: testConfig, Snapshot: timer.Paused(timer.PhaseRest, 1, 4), UpdatedAt: time.UnixMilli(42_000)}
	require.NoError(t, store.Persist(state))

	got, ok := store.Read()
	require.True(t, ok)
	assert.Equal(t, state, got)

	_, err = os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, os.WriteFile(store.Path(), []byte("{broken"), 0o644))
	_, ok = store.Read()
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "malformed")

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, ok = store.Read()
	assert.False(t, ok)
}

func TestMemoryTimerStateStore(t *testing.T) {
	store := NewMemoryTimerStateStore()
	_, ok := store.Read()
	assert.False(t, ok)

	state := StoredTimerState{Config: testConfig, Snapshot: timer.Done(3), UpdatedAt: time.UnixMilli(1)}
	require.NoError(t, store.Persist(state))
	got, ok := store.Read()
	require.True(t, ok)
	assert.Equal(t, state, got)

	require.NoError(t, store.Clear())
	_, ok = store.Read()
	assert.False(t, ok)
}
