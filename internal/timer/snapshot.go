package timer

import "fmt"

// Phase is one segment of the workout
type Phase string

const (
	PhasePrep     Phase = "prep"
	PhaseExercise Phase = "exercise"
	PhaseRest     Phase = "rest"
	PhaseDone     Phase = "done"
)

// Valid reports whether p is one of the known phases
func (p Phase) Valid() bool {
	switch p {
	case PhasePrep, PhaseExercise, PhaseRest, PhaseDone:
		return true
	}
	return false
}

// Status describes whether the clock is advancing
type Status string

const (
	StatusRunning Status = "running" // Clock advancing
	StatusPaused  Status = "paused"  // Stopped by the user, resumable
	StatusHolding Status = "holding" // Stopped at a boundary that does not auto-advance
	StatusDone    Status = "done"    // All sets completed
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusRunning, StatusPaused, StatusHolding, StatusDone:
		return true
	}
	return false
}

// Transition is the phase a holding timer moves to once the user continues
type Transition struct {
	Phase     Phase
	SetIndex  int
	Remaining int
}

// Snapshot is the complete state of the timer at one instant.
//
// Fields are unexported so that a snapshot can only be built through the
// Running, Paused, Holding and Done constructors; a pending transition
// therefore exists exactly when the status is holding.
type Snapshot struct {
	phase     Phase
	setIndex  int
	remaining int
	status    Status
	pending   Transition
}

// Running builds a snapshot whose clock is advancing
func Running(phase Phase, setIndex, remaining int) Snapshot {
	return Snapshot{phase: phase, setIndex: setIndex, remaining: remaining, status: StatusRunning}
}

// Paused builds a snapshot frozen by the user
func Paused(phase Phase, setIndex, remaining int) Snapshot {
	return Snapshot{phase: phase, setIndex: setIndex, remaining: remaining, status: StatusPaused}
}

// Holding builds a snapshot frozen at a phase boundary, waiting to apply next
func Holding(phase Phase, setIndex, remaining int, next Transition) Snapshot {
	return Snapshot{phase: phase, setIndex: setIndex, remaining: remaining, status: StatusHolding, pending: next}
}

// Done builds the terminal snapshot
func Done(setIndex int) Snapshot {
	return Snapshot{phase: PhaseDone, setIndex: setIndex, status: StatusDone}
}

func (s Snapshot) Phase() Phase     { return s.phase }
func (s Snapshot) SetIndex() int    { return s.setIndex }
func (s Snapshot) Remaining() int   { return s.remaining }
func (s Snapshot) Status() Status   { return s.status }
func (s Snapshot) IsRunning() bool  { return s.status == StatusRunning }
func (s Snapshot) IsFinished() bool { return s.status == StatusDone }

// Pending returns the transition a holding snapshot will apply on continue
func (s Snapshot) Pending() (Transition, bool) {
	if s.status != StatusHolding {
		return Transition{}, false
	}
	return s.pending, true
}

func (s Snapshot) String() string {
	if next, ok := s.Pending(); ok {
		return fmt.Sprintf("%s set=%d remaining=%d status=%s pending=%s/%d/%d",
			s.phase, s.setIndex, s.remaining, s.status, next.Phase, next.SetIndex, next.Remaining)
	}
	return fmt.Sprintf("%s set=%d remaining=%d status=%s", s.phase, s.setIndex, s.remaining, s.status)
}

// withStatus rebuilds s with a different status, dropping any pending
// transition unless the target status is holding.
func (s Snapshot) withStatus(status Status) Snapshot {
	out := Snapshot{phase: s.phase, setIndex: s.setIndex, remaining: s.remaining, status: status}
	if status == StatusHolding {
		out.pending = s.pending
	}
	return out
}
