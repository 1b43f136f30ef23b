package background

import (
	"context"
	"log"
	"time"

	"github.com/RubnSanchz/interval-timer/internal/clock"
	"github.com/RubnSanchz/interval-timer/internal/config"
	"github.com/RubnSanchz/interval-timer/internal/storage"
)

// Projector keeps the user informed about the timer while the foreground
// driver is not running. Start may be called again to refresh after the
// state changed; Stop withdraws everything the projector posted.
type Projector interface {
	Start(ctx context.Context, state storage.StoredTimerState) error
	Stop()
}

// Capabilities describe what the host process can offer the projector
type Capabilities struct {
	// LongLived is true when the process keeps running while the UI is away,
	// so a polling loop can stay alive.
	LongLived bool
}

// Deps are the collaborators shared by both projector strategies
type Deps struct {
	Store      storage.TimerStateStore
	Scheduler  Scheduler
	Permission Permission
	Clock      clock.Clock
	Logger     *log.Logger

	// Interval between polling ticks; defaults to one second
	Interval time.Duration
}

func (d Deps) check(owner string) {
	if d.Store == nil {
		panic(owner + ": store cannot be nil")
	}
	if d.Scheduler == nil {
		panic(owner + ": scheduler cannot be nil")
	}
	if d.Permission == nil {
		panic(owner + ": permission cannot be nil")
	}
	if d.Clock == nil {
		panic(owner + ": clock cannot be nil")
	}
	if d.Logger == nil {
		panic(owner + ": logger cannot be nil")
	}
}

// ResolveMode turns the configured mode into a concrete strategy
func ResolveMode(mode config.BackgroundMode, caps Capabilities) config.BackgroundMode {
	switch mode {
	case config.BackgroundPolling, config.BackgroundScheduled:
		return mode
	}
	if caps.LongLived {
		return config.BackgroundPolling
	}
	return config.BackgroundScheduled
}

// NewProjector builds the projector for mode, resolved against caps
func NewProjector(mode config.BackgroundMode, caps Capabilities, deps Deps) Projector {
	switch ResolveMode(mode, caps) {
	case config.BackgroundPolling:
		return NewPollingProjector(deps)
	default:
		return NewScheduledProjector(deps)
	}
}
