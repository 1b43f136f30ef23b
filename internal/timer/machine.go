package timer

// Advance consumes elapsedSeconds of running time from s, crossing as many
// phase boundaries as the budget allows.
//
// A snapshot that is not running, or a non-positive budget, is returned
// unchanged. A budget that exactly exhausts the current phase stops at
// remaining == 0 in that same phase; Settle moves it across the boundary.
// A boundary that does not auto-advance yields a holding snapshot and any
// seconds left in the budget are discarded.
func Advance(s Snapshot, c Config, elapsedSeconds int) Snapshot {
	if elapsedSeconds <= 0 || s.status != StatusRunning {
		return s
	}

	cur := s.withStatus(StatusRunning)
	if cur.remaining < 0 {
		cur.remaining = 0
	}

	left := elapsedSeconds
	for left > 0 {
		if cur.remaining > 0 {
			if left < cur.remaining {
				cur.remaining -= left
				return cur
			}
			left -= cur.remaining
			cur.remaining = 0
			if left == 0 {
				return cur
			}
		}

		next, advancing := crossBoundary(cur, c)
		if !advancing {
			return next
		}
		cur = next
	}
	return cur
}

// Settle resolves a running snapshot that sits at remaining == 0 across its
// phase boundary without consuming any time. Any other snapshot is returned
// unchanged.
func Settle(s Snapshot, c Config) Snapshot {
	if s.status != StatusRunning || s.remaining > 0 {
		return s
	}
	next, _ := crossBoundary(s.withStatus(StatusRunning), c)
	return next
}

// crossBoundary computes the snapshot that follows the end of cur's phase.
// The bool is true when the result is running and can keep consuming time.
func crossBoundary(cur Snapshot, c Config) (Snapshot, bool) {
	switch cur.phase {
	case PhasePrep:
		return Running(PhaseExercise, cur.setIndex, c.ExerciseSeconds), true

	case PhaseExercise:
		if cur.setIndex >= c.Sets {
			return Done(cur.setIndex), false
		}
		return gate(cur, afterExercise(cur.setIndex, c), c.ExerciseAutoAdvance)

	case PhaseRest:
		nextSet := cur.setIndex + 1
		if nextSet > c.Sets {
			return Done(cur.setIndex), false
		}
		next := Transition{Phase: PhaseExercise, SetIndex: nextSet, Remaining: c.ExerciseSeconds}
		return gate(cur, next, c.RestAutoAdvance)

	default:
		return Done(cur.setIndex), false
	}
}

// afterExercise is the phase that follows a non-final exercise set
func afterExercise(setIndex int, c Config) Transition {
	if c.RestSeconds > 0 {
		return Transition{Phase: PhaseRest, SetIndex: setIndex, Remaining: c.RestSeconds}
	}
	return Transition{Phase: PhaseExercise, SetIndex: setIndex + 1, Remaining: c.ExerciseSeconds}
}

func gate(cur Snapshot, next Transition, auto bool) (Snapshot, bool) {
	if auto {
		return Running(next.Phase, next.SetIndex, next.Remaining), true
	}
	return Holding(cur.phase, cur.setIndex, 0, next), false
}
