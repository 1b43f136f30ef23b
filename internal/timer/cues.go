package timer

import "fmt"

// CueKind is the audio/haptic signal played near a phase boundary
type CueKind string

const (
	CueShort CueKind = "short"
	CueLong  CueKind = "long"
)

// CueFor returns the cue due for s, if any.
//
// Only exercise and rest phases cue, and never while paused. A short cue is
// due at 2 and 1 seconds remaining; at 0 rest gives a short cue and exercise
// a long one. The zero-second cue also fires for a holding snapshot.
func CueFor(s Snapshot) (CueKind, bool) {
	if s.status == StatusPaused {
		return "", false
	}
	if s.phase != PhaseExercise && s.phase != PhaseRest {
		return "", false
	}
	if s.remaining > 0 && s.status != StatusRunning {
		return "", false
	}

	switch s.remaining {
	case 2, 1:
		return CueShort, true
	case 0:
		if s.phase == PhaseExercise {
			return CueLong, true
		}
		return CueShort, true
	}
	return "", false
}

// CueTracker turns a stream of snapshots into cues, firing each
// (phase, remaining, kind) combination once per approach from above.
// The zero value is ready to use. It is not safe for concurrent use.
type CueTracker struct {
	lastKey       string
	prevRemaining int
	primed        bool
}

// Observe records s and returns the cue to play for it, if any
func (t *CueTracker) Observe(s Snapshot) (CueKind, bool) {
	if t.primed && s.remaining > t.prevRemaining {
		t.lastKey = ""
	}
	t.prevRemaining = s.remaining
	t.primed = true

	kind, ok := CueFor(s)
	if !ok {
		return "", false
	}

	key := fmt.Sprintf("%s:%d:%s", s.phase, s.remaining, kind)
	if key == t.lastKey {
		return "", false
	}
	t.lastKey = key
	return kind, true
}

// Forget clears the de-duplication state, e.g. after a new workout is loaded
func (t *CueTracker) Forget() {
	*t = CueTracker{}
}
