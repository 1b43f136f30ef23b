package workout

import (
	"log"
	"sync"

	"github.com/RubnSanchz/interval-timer/internal/config"
	"github.com/RubnSanchz/interval-timer/internal/timer"
)

// CueNotifier plays the audio/haptic cue for a phase boundary
type CueNotifier interface {
	PlayCue(kind timer.CueKind)
}

// Beeper rings the terminal bell
type Beeper interface {
	Beep() error
}

// FeedbackNotifier turns cues into terminal beeps and haptic log lines
// according to the user's feedback settings.
type FeedbackNotifier struct {
	settings config.Settings
	logger   *log.Logger

	mu     sync.Mutex
	beeper Beeper
}

func NewFeedbackNotifier(settings config.Settings, logger *log.Logger) *FeedbackNotifier {
	if logger == nil {
		panic("FeedbackNotifier: logger cannot be nil")
	}
	return &FeedbackNotifier{
		settings: settings,
		logger:   logger,
	}
}

// SetBeeper attaches the output device. Until one is set, cues are only logged.
func (f *FeedbackNotifier) SetBeeper(b Beeper) {
	f.mu.Lock()
	f.beeper = b
	f.mu.Unlock()
}

// PlayCue emits kind. A long cue beeps twice.
func (f *FeedbackNotifier) PlayCue(kind timer.CueKind) {
	if f.settings.HapticsEnabled {
		f.logger.Printf("FeedbackNotifier: Haptic %s", hapticStyle(kind))
	}

	if f.settings.Muted() {
		return
	}

	f.mu.Lock()
	beeper := f.beeper
	f.mu.Unlock()

	f.logger.Printf("FeedbackNotifier: Cue %s (volume %.2f)", kind, f.settings.EffectiveVolume())
	if beeper == nil {
		return
	}

	beeps := 1
	if kind == timer.CueLong {
		beeps = 2
	}
	for i := 0; i < beeps; i++ {
		if err := beeper.Beep(); err != nil {
			f.logger.Printf("FeedbackNotifier: Beep failed: %v", err)
			return
		}
	}
}

func hapticStyle(kind timer.CueKind) string {
	if kind == timer.CueLong {
		return "heavy"
	}
	return "light"
}
