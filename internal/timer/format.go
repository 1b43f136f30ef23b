package timer

import "fmt"

// FormatClock renders seconds as MM:SS. Minutes are not wrapped at 60.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// PhaseLabel is the user facing name of a phase
func PhaseLabel(p Phase) string {
	switch p {
	case PhasePrep:
		return "Preparacion"
	case PhaseExercise:
		return "Ejercicio"
	case PhaseRest:
		return "Descanso"
	case PhaseDone:
		return "Completado"
	default:
		return "Intervalo"
	}
}

// DisplaySet clamps a set index to the configured number of sets
func DisplaySet(setIndex int, c Config) int {
	if setIndex > c.Sets {
		return c.Sets
	}
	return setIndex
}
