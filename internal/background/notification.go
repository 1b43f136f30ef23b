package background

import (
	"fmt"

	"github.com/RubnSanchz/interval-timer/internal/timer"
)

const (
	// Source tags every notification this app posts
	Source = "interval-timer"

	ActionPause = "timer.pause"
	ActionSkip  = "timer.skip"

	StatusNotificationID = "timer-foreground"
	AlertNotificationID  = "timer-alert"
)

// NotificationKind distinguishes the notifications the projectors post
type NotificationKind string

const (
	KindStatus NotificationKind = "status" // ongoing, updated in place
	KindAlert  NotificationKind = "alert"  // one-shot cue
	KindPhase  NotificationKind = "phase"  // pre-scheduled boundary
)

type Action struct {
	ID    string
	Title string
}

// Notification is the payload handed to a Scheduler
type Notification struct {
	ID       string
	Kind     NotificationKind
	Title    string
	Body     string
	Source   string
	Ongoing  bool
	Actions  []Action
	Snapshot timer.Snapshot
}

var timerActions = []Action{
	{ID: ActionPause, Title: "Pausar"},
	{ID: ActionSkip, Title: "Saltar"},
}

// StatusTitle is the headline of the status notification for s
func StatusTitle(s timer.Snapshot) string {
	switch s.Status() {
	case timer.StatusHolding:
		return "Listo para continuar"
	case timer.StatusPaused:
		return "Temporizador pausado"
	case timer.StatusDone:
		return "Entreno completado"
	default:
		return "Intervalo en curso"
	}
}

// StatusBody describes the current phase, or for a holding timer the phase
// it will continue into.
func StatusBody(s timer.Snapshot, c timer.Config) string {
	if next, ok := s.Pending(); ok {
		return describe("Siguiente", next.Phase, next.Remaining, next.SetIndex, c)
	}
	return describe("Fase", s.Phase(), s.Remaining(), s.SetIndex(), c)
}

func describe(section string, phase timer.Phase, remaining, setIndex int, c timer.Config) string {
	return fmt.Sprintf("%s: %s - Tiempo restante: %s - Set %d / %d",
		section, timer.PhaseLabel(phase), timer.FormatClock(remaining), timer.DisplaySet(setIndex, c), c.Sets)
}

// ToneLabel names a cue in alert notifications
func ToneLabel(kind timer.CueKind) string {
	if kind == timer.CueLong {
		return "Fin de fase"
	}
	return "Aviso"
}

// AlertBody is "<Tone> - <Phase> - MM:SS"
func AlertBody(s timer.Snapshot, kind timer.CueKind) string {
	return fmt.Sprintf("%s - %s - %s", ToneLabel(kind), timer.PhaseLabel(s.Phase()), timer.FormatClock(s.Remaining()))
}

// StatusNotification is the ongoing notification describing s
func StatusNotification(s timer.Snapshot, c timer.Config) Notification {
	return Notification{
		ID:       StatusNotificationID,
		Kind:     KindStatus,
		Title:    StatusTitle(s),
		Body:     StatusBody(s, c),
		Source:   Source,
		Ongoing:  true,
		Actions:  timerActions,
		Snapshot: s,
	}
}

// AlertNotification is the one-shot cue notification for s
func AlertNotification(s timer.Snapshot, kind timer.CueKind) Notification {
	return Notification{
		ID:       AlertNotificationID,
		Kind:     KindAlert,
		Title:    ToneLabel(kind),
		Body:     AlertBody(s, kind),
		Source:   Source,
		Snapshot: s,
	}
}

// PhaseNotification announces the boundary described by ev. Its ID is left
// empty for the scheduler to assign.
func PhaseNotification(ev PhaseEvent, c timer.Config) Notification {
	return Notification{
		Kind:     KindPhase,
		Title:    StatusTitle(ev.Snapshot),
		Body:     StatusBody(ev.Snapshot, c),
		Source:   Source,
		Actions:  timerActions,
		Snapshot: ev.Snapshot,
	}
}
