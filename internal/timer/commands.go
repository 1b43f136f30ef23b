package timer

// Initial is the snapshot a freshly loaded workout starts from
func Initial(c Config) Snapshot {
	return Reset(c)
}

// Reset restarts the workout from the prep countdown
func Reset(c Config) Snapshot {
	if PrepSeconds > 0 {
		return Running(PhasePrep, 1, PrepSeconds)
	}
	return Running(PhaseExercise, 1, c.ExerciseSeconds)
}

// ResetCurrentExercise restarts the exercise phase of the current set
func ResetCurrentExercise(s Snapshot, c Config) Snapshot {
	return Running(PhaseExercise, s.setIndex, c.ExerciseSeconds)
}

// Skip jumps straight to the next phase. It never produces a holding
// snapshot: skipping ignores the auto-advance flags.
func Skip(s Snapshot, c Config) Snapshot {
	if s.status == StatusDone || s.phase == PhaseDone {
		return s
	}

	switch s.phase {
	case PhasePrep:
		return Running(PhaseExercise, 1, c.ExerciseSeconds)
	case PhaseExercise:
		if c.RestSeconds > 0 {
			return Running(PhaseRest, s.setIndex, c.RestSeconds)
		}
	}

	nextSet := s.setIndex + 1
	if nextSet > c.Sets {
		return Done(s.setIndex)
	}
	return Running(PhaseExercise, nextSet, c.ExerciseSeconds)
}

// Pause freezes a running snapshot. Any other snapshot is returned unchanged.
func Pause(s Snapshot) Snapshot {
	if s.status != StatusRunning {
		return s
	}
	return s.withStatus(StatusPaused)
}

// ForcePause freezes a running or holding snapshot. A holding snapshot loses
// its pending transition; the boundary is recomputed once it runs again.
func ForcePause(s Snapshot) Snapshot {
	if s.status != StatusRunning && s.status != StatusHolding {
		return s
	}
	return s.withStatus(StatusPaused)
}

// Resume restarts a paused snapshot. Any other snapshot is returned unchanged.
func Resume(s Snapshot) Snapshot {
	if s.status != StatusPaused {
		return s
	}
	return s.withStatus(StatusRunning)
}

// ContinueFromHold applies the pending transition of a holding snapshot
func ContinueFromHold(s Snapshot) Snapshot {
	next, ok := s.Pending()
	if !ok {
		return s
	}
	return Running(next.Phase, next.SetIndex, next.Remaining)
}
