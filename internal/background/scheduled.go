package background

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/RubnSanchz/interval-timer/internal/storage"
)

// ScheduledProjector posts the whole remaining timeline up front: an
// immediate status notification plus one delayed notification per phase
// boundary. Nothing runs while the process is away.
type ScheduledProjector struct {
	deps Deps

	mu  sync.Mutex
	ids []string
}

var _ Projector = (*ScheduledProjector)(nil)

func NewScheduledProjector(deps Deps) *ScheduledProjector {
	deps.check("ScheduledProjector")
	return &ScheduledProjector{deps: deps}
}

// Start cancels anything posted earlier and schedules the timeline of the
// live snapshot. Only a running timer is projected.
func (p *ScheduledProjector) Start(_ context.Context, state storage.StoredTimerState) error {
	p.Stop()

	if !p.deps.Permission.Ready() {
		p.deps.Logger.Printf("ScheduledProjector: Notifications not permitted, nothing scheduled")
		return nil
	}

	live := state.Live(p.deps.Clock.Now())
	if !live.IsRunning() {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.deps.Scheduler.Display(StatusNotification(live, state.Config)); err != nil {
		p.deps.Logger.Printf("ScheduledProjector: Failed to post status notification: %v", err)
	} else {
		p.ids = append(p.ids, StatusNotificationID)
	}

	events := BuildPhaseEvents(live, state.Config)
	for _, ev := range events {
		id, err := p.deps.Scheduler.Schedule(PhaseNotification(ev, state.Config), time.Duration(ev.OffsetSeconds)*time.Second)
		if err != nil {
			p.deps.Logger.Printf("ScheduledProjector: Failed to schedule %s at +%ds: %v", ev.Kind, ev.OffsetSeconds, err)
			continue
		}
		p.ids = append(p.ids, id)
	}
	p.deps.Logger.Printf("ScheduledProjector: Scheduled %d phase notifications", len(events))
	return nil
}

// Stop cancels every notification this projector posted
func (p *ScheduledProjector) Stop() {
	p.mu.Lock()
	ids := p.ids
	p.ids = nil
	p.mu.Unlock()

	for _, id := range ids {
		err := p.deps.Scheduler.Cancel(id)
		if err != nil && !errors.Is(err, ErrNotificationNotFound) {
			p.deps.Logger.Printf("ScheduledProjector: Failed to cancel %s: %v", id, err)
		}
	}
}

// ScheduledCount is the number of notification ids currently remembered
func (p *ScheduledProjector) ScheduledCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ids)
}
