package workout

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/RubnSanchz/interval-timer/internal/clock"
	"github.com/RubnSanchz/interval-timer/internal/config"
	"github.com/RubnSanchz/interval-timer/internal/presets"
	"github.com/RubnSanchz/interval-timer/internal/storage"
	"github.com/RubnSanchz/interval-timer/internal/timer"
)

var (
	epoch   = time.UnixMilli(1_760_000_000_000)
	autoCfg = timer.Config{Sets: 2, ExerciseSeconds: 3, RestSeconds: 5, ExerciseAutoAdvance: true, RestAutoAdvance: true}
	longCfg = timer.Config{Sets: 3, ExerciseSeconds: 30, RestSeconds: 10, ExerciseAutoAdvance: true, RestAutoAdvance: true}
	holdCfg = timer.Config{Sets: 2, ExerciseSeconds: 3, RestSeconds: 5, ExerciseAutoAdvance: false, RestAutoAdvance: true}
)

type recordingCues struct {
	mu    sync.Mutex
	kinds []timer.CueKind
}

func (r *recordingCues) PlayCue(kind timer.CueKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
}

func (r *recordingCues) played() []timer.CueKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]timer.CueKind(nil), r.kinds...)
}

type recordingProjector struct {
	mu     sync.Mutex
	starts []storage.StoredTimerState
	stops  int
}

func (r *recordingProjector) Start(_ context.Context, state storage.StoredTimerState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, state)
	return nil
}

func (r *recordingProjector) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stops++
}

func (r *recordingProjector) startCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.starts)
}

type memoryPresetStore struct {
	mu   sync.Mutex
	list []presets.Preset
}

func (m *memoryPresetStore) List(context.Context) ([]presets.Preset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]presets.Preset(nil), m.list...), nil
}

func (m *memoryPresetStore) Save(_ context.Context, p presets.Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].ID == p.ID {
			m.list[i] = p
			return nil
		}
	}
	m.list = append([]presets.Preset{p}, m.list...)
	return nil
}

func (m *memoryPresetStore) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].ID == id {
			m.list = append(m.list[:i], m.list[i+1:]...)
			return nil
		}
	}
	return presets.ErrNotFound
}

type testEnv struct {
	clock     *clock.Manual
	store     *storage.MemoryTimerStateStore
	projector *recordingProjector
	cues      *recordingCues
	model     *UIModel
	logger    *log.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	model := NewUIModel(t.TempDir(), logger, make(chan string))
	t.Cleanup(model.Shutdown)
	return &testEnv{
		clock:     clock.NewManual(epoch),
		store:     storage.NewMemoryTimerStateStore(),
		projector: &recordingProjector{},
		cues:      &recordingCues{},
		model:     model,
		logger:    logger,
	}
}

func (e *testEnv) manager(t *testing.T) *TimerManager {
	t.Helper()
	wm := NewTimerManager(NewTimerManagerArg{
		Model:     e.model,
		Store:     e.store,
		Projector: e.projector,
		Cues:      e.cues,
		Clock:     e.clock,
		Settings:  config.DefaultSettings(),
		Logger:    e.logger,
	})
	t.Cleanup(wm.Shutdown)
	return wm
}

// step moves the clock and feeds one tick to the manager
func (e *testEnv) step(wm *TimerManager, d time.Duration) {
	wm.tick(e.clock.Advance(d))
}
