package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RubnSanchz/interval-timer/internal/go_func_utils"
	"github.com/RubnSanchz/interval-timer/internal/storage"
	"github.com/RubnSanchz/interval-timer/internal/timer"
)

// PollingProjector re-derives the timer from the persisted state once per
// interval and keeps a single status notification up to date, posting an
// alert at each cue. It stops by itself once the timer is paused, done or
// no longer stored.
type PollingProjector struct {
	deps Deps

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	inFlight atomic.Bool
	cues     timer.CueTracker // only touched by the tick holding inFlight
}

var _ Projector = (*PollingProjector)(nil)

func NewPollingProjector(deps Deps) *PollingProjector {
	deps.check("PollingProjector")
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &PollingProjector{deps: deps}
}

// Start persists state, shows its status notification and makes sure the
// polling loop is running.
func (p *PollingProjector) Start(ctx context.Context, state storage.StoredTimerState) error {
	if !p.deps.Permission.Ready() {
		p.deps.Logger.Printf("PollingProjector: Notifications not permitted, not starting")
		return nil
	}
	if err := p.deps.Store.Persist(state); err != nil {
		return fmt.Errorf("persist timer state: %w", err)
	}
	p.showStatus(state.Live(p.deps.Clock.Now()), state.Config)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ticks := &sync.WaitGroup{}
	p.cancel, p.done = cancel, done
	p.cues.Forget()

	go_func_utils.SafeGo(p.deps.Logger, func() { p.run(loopCtx, done, ticks) })
	p.deps.Logger.Printf("PollingProjector: Started, polling every %s", p.deps.Interval)
	return nil
}

// Stop ends the loop, waits for it to exit and withdraws the status
// notification.
func (p *PollingProjector) Stop() {
	if done := p.halt(); done != nil {
		<-done
	}
	p.dismiss()
}

// Done is closed once the loop has exited. It is already closed when no
// loop is running.
func (p *PollingProjector) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return p.done
}

// haltLoop stops the loop owning done, unless a newer loop has replaced it.
func (p *PollingProjector) haltLoop(done chan struct{}) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel == nil || p.done != done {
		return false
	}
	p.cancel()
	p.cancel = nil
	return true
}

func (p *PollingProjector) halt() chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	done := p.done
	p.cancel = nil
	return done
}

// run owns ticks for its lifetime; a restarted loop gets its own group.
func (p *PollingProjector) run(ctx context.Context, done chan struct{}, ticks *sync.WaitGroup) {
	defer close(done)

	ticker := time.NewTicker(p.deps.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ticks.Wait()
			return
		case <-ticker.C:
			if !p.inFlight.CompareAndSwap(false, true) {
				continue
			}
			go_func_utils.SafeGoGroup(p.deps.Logger, ticks, func() {
				defer p.inFlight.Store(false)
				if !p.tick() && p.haltLoop(done) {
					p.dismiss()
				}
			})
		}
	}
}

// tick refreshes the notifications from the stored state. It returns false
// when the loop should stop.
func (p *PollingProjector) tick() bool {
	stored, ok := p.deps.Store.Read()
	if !ok {
		p.deps.Logger.Printf("PollingProjector: No stored timer, stopping")
		return false
	}

	live := stored.Live(p.deps.Clock.Now())
	switch live.Status() {
	case timer.StatusPaused, timer.StatusDone:
		p.deps.Logger.Printf("PollingProjector: Timer is %s, stopping", live.Status())
		return false
	}

	p.showStatus(live, stored.Config)
	if live.IsRunning() {
		if kind, ok := p.cues.Observe(live); ok {
			if err := p.deps.Scheduler.Display(AlertNotification(live, kind)); err != nil {
				p.deps.Logger.Printf("PollingProjector: Failed to post alert: %v", err)
			}
		}
	}
	return true
}

func (p *PollingProjector) showStatus(s timer.Snapshot, c timer.Config) {
	if err := p.deps.Scheduler.Display(StatusNotification(s, c)); err != nil {
		p.deps.Logger.Printf("PollingProjector: Failed to update status notification: %v", err)
	}
}

func (p *PollingProjector) dismiss() {
	err := p.deps.Scheduler.Cancel(StatusNotificationID)
	if err != nil && !errors.Is(err, ErrNotificationNotFound) {
		p.deps.Logger.Printf("PollingProjector: Failed to cancel status notification: %v", err)
	}
}
