package workout

import (
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RubnSanchz/interval-timer/internal/config"
	"github.com/RubnSanchz/interval-timer/internal/timer"
)

type countingBeeper struct {
	beeps int
	err   error
}

func (b *countingBeeper) Beep() error {
	b.beeps++
	return b.err
}

func TestFeedbackNotifier_PlayCue(t *testing.T) {
	tests := []struct {
		name     string
		settings config.Settings
		kind     timer.CueKind
		want     int
	}{
		{"short cue beeps once", config.DefaultSettings(), timer.CueShort, 1},
		{"long cue beeps twice", config.DefaultSettings(), timer.CueLong, 2},
		{"muted", config.NewSettings(true, true, 0), timer.CueLong, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			beeper := &countingBeeper{}
			f := NewFeedbackNotifier(tt.settings, log.New(io.Discard, "", 0))
			f.SetBeeper(beeper)

			f.PlayCue(tt.kind)

			assert.Equal(t, tt.want, beeper.beeps)
		})
	}
}

func TestFeedbackNotifier_StopsOnBeepError(t *testing.T) {
	beeper := &countingBeeper{err: errors.New("no terminal")}
	f := NewFeedbackNotifier(config.DefaultSettings(), log.New(io.Discard, "", 0))
	f.SetBeeper(beeper)

	f.PlayCue(timer.CueLong)

	assert.Equal(t, 1, beeper.beeps)
}

func TestFeedbackNotifier_WithoutBeeper(t *testing.T) {
	f := NewFeedbackNotifier(config.DefaultSettings(), log.New(io.Discard, "", 0))
	assert.NotPanics(t, func() { f.PlayCue(timer.CueShort) })
}
