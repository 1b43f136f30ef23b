package background

import (
	"context"
	"log"

	"github.com/RubnSanchz/interval-timer/internal/clock"
	"github.com/RubnSanchz/interval-timer/internal/storage"
	"github.com/RubnSanchz/interval-timer/internal/timer"
)

// Response is a tap on one of the notification action buttons
type Response struct {
	ActionID string
	Source   string
}

// IsTimerResponse reports whether r belongs to this app and names a known
// action.
func IsTimerResponse(r Response) bool {
	if r.Source != Source {
		return false
	}
	return r.ActionID == ActionPause || r.ActionID == ActionSkip
}

// ActionHandler applies notification actions to the persisted timer
type ActionHandler struct {
	store     storage.TimerStateStore
	projector Projector
	clock     clock.Clock
	logger    *log.Logger
}

func NewActionHandler(store storage.TimerStateStore, projector Projector, clk clock.Clock, logger *log.Logger) *ActionHandler {
	if store == nil {
		panic("ActionHandler: store cannot be nil")
	}
	if projector == nil {
		panic("ActionHandler: projector cannot be nil")
	}
	if clk == nil {
		panic("ActionHandler: clock cannot be nil")
	}
	if logger == nil {
		panic("ActionHandler: logger cannot be nil")
	}
	return &ActionHandler{store: store, projector: projector, clock: clk, logger: logger}
}

// Handle fast-forwards the stored timer to now, applies the action and
// writes the result back. The projector is stopped when the timer ends up
// paused or done and refreshed otherwise. It returns the new snapshot and
// false when the response was ignored.
func (h *ActionHandler) Handle(ctx context.Context, r Response) (timer.Snapshot, bool) {
	if !IsTimerResponse(r) {
		h.logger.Printf("ActionHandler: Ignoring action %q from %q", r.ActionID, r.Source)
		return timer.Snapshot{}, false
	}

	stored, ok := h.store.Read()
	if !ok {
		h.logger.Printf("ActionHandler: No stored timer for action %s", r.ActionID)
		return timer.Snapshot{}, false
	}

	now := h.clock.Now()
	live := stored.Live(now)

	next := live
	switch r.ActionID {
	case ActionPause:
		next = timer.ForcePause(live)
	case ActionSkip:
		next = timer.Skip(live, stored.Config)
	}
	h.logger.Printf("ActionHandler: %s: %s -> %s", r.ActionID, live, next)

	state := storage.StoredTimerState{Config: stored.Config, Snapshot: next, UpdatedAt: now}
	if err := h.store.Persist(state); err != nil {
		h.logger.Printf("ActionHandler: Failed to persist timer state: %v", err)
	}

	switch next.Status() {
	case timer.StatusPaused, timer.StatusDone:
		h.projector.Stop()
	default:
		if err := h.projector.Start(ctx, state); err != nil {
			h.logger.Printf("ActionHandler: Failed to refresh projector: %v", err)
		}
	}
	return next, true
}
