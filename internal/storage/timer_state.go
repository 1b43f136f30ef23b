package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/RubnSanchz/interval-timer/internal/timer"
)

const timerStateFile = "timer_state.json"

// StoredTimerState is the durable record of the active workout
type StoredTimerState struct {
	Config    timer.Config
	Snapshot  timer.Snapshot
	UpdatedAt time.Time
}

// Live replays the whole seconds elapsed between UpdatedAt and now through
// the state machine. A clock that went backwards counts as no time passed.
func (s StoredTimerState) Live(now time.Time) timer.Snapshot {
	elapsed := int(now.Sub(s.UpdatedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	return timer.Advance(s.Snapshot, s.Config, elapsed)
}

// TimerStateStore keeps at most one StoredTimerState. Read reports false
// when nothing usable is stored.
type TimerStateStore interface {
	Persist(state StoredTimerState) error
	Read() (StoredTimerState, bool)
	Clear() error
}

type wireTransition struct {
	Phase     *string `json:"phase"`
	SetIndex  *int    `json:"setIndex"`
	Remaining *int    `json:"remaining"`
}

type wireSnapshot struct {
	Phase     *string         `json:"phase"`
	SetIndex  *int            `json:"setIndex"`
	Remaining *int            `json:"remaining"`
	Status    *string         `json:"status"`
	Pending   json.RawMessage `json:"pending"`
}

type wireConfig struct {
	Sets                *int  `json:"sets"`
	ExerciseSeconds     *int  `json:"exerciseSeconds"`
	RestSeconds         *int  `json:"restSeconds"`
	ExerciseAutoAdvance *bool `json:"exerciseAutoAdvance"`
	RestAutoAdvance     *bool `json:"restAutoAdvance"`
}

type wireState struct {
	Config    *wireConfig   `json:"config"`
	Snapshot  *wireSnapshot `json:"snapshot"`
	UpdatedAt *float64      `json:"updatedAt"`
}

// EncodeTimerState renders state in its JSON wire form
func EncodeTimerState(state StoredTimerState) ([]byte, error) {
	s := state.Snapshot
	phase := string(s.Phase())
	status := string(s.Status())
	setIndex, remaining := s.SetIndex(), s.Remaining()

	pending := json.RawMessage("null")
	if next, ok := s.Pending(); ok {
		nextPhase := string(next.Phase)
		raw, err := json.Marshal(wireTransition{Phase: &nextPhase, SetIndex: &next.SetIndex, Remaining: &next.Remaining})
		if err != nil {
			return nil, fmt.Errorf("marshal pending: %w", err)
		}
		pending = raw
	}

	c := state.Config
	updatedAt := float64(state.UpdatedAt.UnixMilli())
	data, err := json.Marshal(wireState{
		Config: &wireConfig{
			Sets:                &c.Sets,
			ExerciseSeconds:     &c.ExerciseSeconds,
			RestSeconds:         &c.RestSeconds,
			ExerciseAutoAdvance: &c.ExerciseAutoAdvance,
			RestAutoAdvance:     &c.RestAutoAdvance,
		},
		Snapshot: &wireSnapshot{
			Phase:     &phase,
			SetIndex:  &setIndex,
			Remaining: &remaining,
			Status:    &status,
			Pending:   pending,
		},
		UpdatedAt: &updatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal timer state: %w", err)
	}
	return data, nil
}

// DecodeTimerState parses the JSON wire form. Any missing field, wrong type
// or inconsistent snapshot yields false; it never returns an error.
func DecodeTimerState(data []byte) (StoredTimerState, bool) {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return StoredTimerState{}, false
	}
	if w.Config == nil || w.Snapshot == nil || w.UpdatedAt == nil {
		return StoredTimerState{}, false
	}
	updatedAt, ok := decodeEpochMillis(*w.UpdatedAt)
	if !ok {
		return StoredTimerState{}, false
	}

	cfg, ok := decodeConfig(w.Config)
	if !ok {
		return StoredTimerState{}, false
	}
	snap, ok := decodeSnapshot(w.Snapshot)
	if !ok {
		return StoredTimerState{}, false
	}

	return StoredTimerState{
		Config:    cfg,
		Snapshot:  snap,
		UpdatedAt: updatedAt,
	}, true
}

// decodeEpochMillis accepts only finite values that fit in int64 milliseconds
func decodeEpochMillis(v float64) (time.Time, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return time.Time{}, false
	}
	if v < math.MinInt64 || v >= math.MaxInt64 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(v)), true
}

func decodeConfig(w *wireConfig) (timer.Config, bool) {
	if w.Sets == nil || w.ExerciseSeconds == nil || w.RestSeconds == nil ||
		w.ExerciseAutoAdvance == nil || w.RestAutoAdvance == nil {
		return timer.Config{}, false
	}
	cfg, err := timer.NewConfig(*w.Sets, *w.ExerciseSeconds, *w.RestSeconds, *w.ExerciseAutoAdvance, *w.RestAutoAdvance)
	if err != nil {
		return timer.Config{}, false
	}
	return cfg, true
}

func decodeSnapshot(w *wireSnapshot) (timer.Snapshot, bool) {
	if w.Phase == nil || w.SetIndex == nil || w.Remaining == nil || w.Status == nil || len(w.Pending) == 0 {
		return timer.Snapshot{}, false
	}
	phase := timer.Phase(*w.Phase)
	status := timer.Status(*w.Status)
	if !phase.Valid() || !status.Valid() {
		return timer.Snapshot{}, false
	}

	hasPending := !bytes.Equal(bytes.TrimSpace(w.Pending), []byte("null"))
	if hasPending != (status == timer.StatusHolding) {
		return timer.Snapshot{}, false
	}

	switch status {
	case timer.StatusRunning:
		return timer.Running(phase, *w.SetIndex, *w.Remaining), true
	case timer.StatusPaused:
		return timer.Paused(phase, *w.SetIndex, *w.Remaining), true
	case timer.StatusDone:
		return timer.Done(*w.SetIndex), true
	}

	var next wireTransition
	if err := json.Unmarshal(w.Pending, &next); err != nil {
		return timer.Snapshot{}, false
	}
	if next.Phase == nil || next.SetIndex == nil || next.Remaining == nil {
		return timer.Snapshot{}, false
	}
	nextPhase := timer.Phase(*next.Phase)
	if nextPhase != timer.PhaseExercise && nextPhase != timer.PhaseRest {
		return timer.Snapshot{}, false
	}
	return timer.Holding(phase, *w.SetIndex, *w.Remaining, timer.Transition{
		Phase:     nextPhase,
		SetIndex:  *next.SetIndex,
		Remaining: *next.Remaining,
	}), true
}

// FileTimerStateStore keeps the timer state as a JSON file in a directory
type FileTimerStateStore struct {
	path   string
	logger *log.Logger
	mu     sync.Mutex
}

func NewFileTimerStateStore(dir string, logger *log.Logger) (*FileTimerStateStore, error) {
	if logger == nil {
		panic("FileTimerStateStore: logger cannot be nil")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileTimerStateStore{path: filepath.Join(dir, timerStateFile), logger: logger}, nil
}

func (f *FileTimerStateStore) Path() string {
	return f.path
}

func (f *FileTimerStateStore) Persist(state StoredTimerState) error {
	data, err := EncodeTimerState(state)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}

// Read returns the stored state. A missing file is silent; an unreadable or
// malformed one is logged and treated as absent.
func (f *FileTimerStateStore) Read() (StoredTimerState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.logger.Printf("FileTimerStateStore: Failed to read %s: %v", f.path, err)
		}
		return StoredTimerState{}, false
	}

	state, ok := DecodeTimerState(data)
	if !ok {
		f.logger.Printf("FileTimerStateStore: Ignoring malformed state in %s", f.path)
	}
	return state, ok
}

func (f *FileTimerStateStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove timer state: %w", err)
	}
	return nil
}

// MemoryTimerStateStore is an in-process TimerStateStore
type MemoryTimerStateStore struct {
	mu    sync.Mutex
	state *StoredTimerState
}

func NewMemoryTimerStateStore() *MemoryTimerStateStore {
	return &MemoryTimerStateStore{}
}

func (m *MemoryTimerStateStore) Persist(state StoredTimerState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = &state
	return nil
}

func (m *MemoryTimerStateStore) Read() (StoredTimerState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return StoredTimerState{}, false
	}
	return *m.state, true
}

func (m *MemoryTimerStateStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = nil
	return nil
}
