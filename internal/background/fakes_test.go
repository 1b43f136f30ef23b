package background

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/RubnSanchz/interval-timer/internal/clock"
	"github.com/RubnSanchz/interval-timer/internal/storage"
	"github.com/RubnSanchz/interval-timer/internal/timer"
)

var (
	epoch     = time.UnixMilli(1_760_000_000_000)
	autoCfg   = timer.Config{Sets: 3, ExerciseSeconds: 30, RestSeconds: 10, ExerciseAutoAdvance: true, RestAutoAdvance: true}
	manualCfg = timer.Config{Sets: 3, ExerciseSeconds: 30, RestSeconds: 10, ExerciseAutoAdvance: false, RestAutoAdvance: true}
)

type scheduledCall struct {
	n     Notification
	after time.Duration
}

type recordingScheduler struct {
	mu        sync.Mutex
	displayed []Notification
	scheduled []scheduledCall
	cancelled []string
	nextID    int
	live      map[string]bool
}

func newRecordingScheduler() *recordingScheduler {
	return &recordingScheduler{live: make(map[string]bool)}
}

func (r *recordingScheduler) Display(n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.displayed = append(r.displayed, n)
	r.live[n.ID] = true
	return nil
}

func (r *recordingScheduler) Schedule(n Notification, after time.Duration) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n.ID = fmt.Sprintf("n%d", r.nextID)
	r.scheduled = append(r.scheduled, scheduledCall{n: n, after: after})
	r.live[n.ID] = true
	return n.ID, nil
}

func (r *recordingScheduler) Cancel(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, id)
	if !r.live[id] {
		return fmt.Errorf("%w: %s", ErrNotificationNotFound, id)
	}
	delete(r.live, id)
	return nil
}

func (r *recordingScheduler) displayedOfKind(kind NotificationKind) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Notification
	for _, n := range r.displayed {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func (r *recordingScheduler) liveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

type recordingProjector struct {
	starts []storage.StoredTimerState
	stops  int
}

func (p *recordingProjector) Start(_ context.Context, s storage.StoredTimerState) error {
	p.starts = append(p.starts, s)
	return nil
}

func (p *recordingProjector) Stop() { p.stops++ }

type testEnv struct {
	store     *storage.MemoryTimerStateStore
	scheduler *recordingScheduler
	clock     *clock.Manual
	logs      *bytes.Buffer
}

func newTestEnv() testEnv {
	return testEnv{
		store:     storage.NewMemoryTimerStateStore(),
		scheduler: newRecordingScheduler(),
		clock:     clock.NewManual(epoch),
		logs:      &bytes.Buffer{},
	}
}

func (e testEnv) deps() Deps {
	return Deps{
		Store:      e.store,
		Scheduler:  e.scheduler,
		Permission: StaticPermission(true),
		Clock:      e.clock,
		Logger:     log.New(e.logs, "", 0),
		Interval:   time.Hour,
	}
}
