package background

import "github.com/RubnSanchz/interval-timer/internal/timer"

// EventKind classifies a projected phase boundary
type EventKind string

const (
	EventPhase EventKind = "phase" // the timer moves on by itself
	EventHold  EventKind = "hold"  // the timer stops and waits for the user
	EventDone  EventKind = "done"  // the workout is complete
)

// PhaseEvent is one future phase boundary, OffsetSeconds from now
type PhaseEvent struct {
	OffsetSeconds int
	Kind          EventKind
	Phase         timer.Phase
	SetIndex      int
	Remaining     int

	// Snapshot is the state the timer lands in at the boundary
	Snapshot timer.Snapshot
}

// BuildPhaseEvents simulates the rest of the workout from s and returns one
// event per upcoming boundary, up to and including the first hold or the
// end of the workout. Boundaries that are already due (offset 0) are not
// returned. Only a running snapshot has a future; anything else yields nil.
func BuildPhaseEvents(s timer.Snapshot, c timer.Config) []PhaseEvent {
	if !s.IsRunning() {
		return nil
	}

	var out []PhaseEvent
	cur := s
	offset := 0
	for steps := 0; steps < maxPhaseEvents(c); steps++ {
		if cur.Remaining() > 0 {
			offset += cur.Remaining()
		}
		next := timer.Settle(timer.Running(cur.Phase(), cur.SetIndex(), 0), c)

		kind := EventPhase
		switch next.Status() {
		case timer.StatusDone:
			kind = EventDone
		case timer.StatusHolding:
			kind = EventHold
		}

		if offset > 0 {
			out = append(out, PhaseEvent{
				OffsetSeconds: offset,
				Kind:          kind,
				Phase:         next.Phase(),
				SetIndex:      next.SetIndex(),
				Remaining:     next.Remaining(),
				Snapshot:      next,
			})
		}
		if kind != EventPhase {
			break
		}
		cur = next
	}
	return out
}

// maxPhaseEvents bounds the simulation: prep, then an exercise and a rest
// boundary per set.
func maxPhaseEvents(c timer.Config) int {
	return 2*c.Sets + 1
}
