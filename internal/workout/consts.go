package workout

import (
	"time"

	"github.com/RubnSanchz/interval-timer/internal/timer"
)

// UIMode represents the current UI mode/screen
type UIMode int

const (
	UIModeTimer   UIMode = iota // Countdown and controls
	UIModePresets               // Saved configurations
)

// UIModeInfo contains display information for a UI mode
type UIModeInfo struct {
	Mode        UIMode
	DisplayName string
	KeyBinding  rune // The number key to activate this mode (1-9)
}

// AllUIModes defines all available UI modes in order
var AllUIModes = []UIModeInfo{
	{Mode: UIModeTimer, DisplayName: "Timer", KeyBinding: '1'},
	{Mode: UIModePresets, DisplayName: "Presets", KeyBinding: '2'},
}

// GetUIModeByKey returns the mode for a given key binding
func GetUIModeByKey(key rune) (UIMode, bool) {
	for _, info := range AllUIModes {
		if info.KeyBinding == key {
			return info.Mode, true
		}
	}
	return 0, false
}

// GetUIModeInfo returns the info for a given mode
func GetUIModeInfo(mode UIMode) (UIModeInfo, bool) {
	for _, info := range AllUIModes {
		if info.Mode == mode {
			return info, true
		}
	}
	return UIModeInfo{}, false
}

// tickInterval is how often the driver samples the clock while running
const tickInterval = 1 * time.Second

// TimerState is what the views need to render the active timer
type TimerState struct {
	Loaded     bool           // A configuration has been loaded
	PresetName string         // Name of the loaded preset, empty for ad-hoc configs
	Config     timer.Config   // The loaded configuration
	Snapshot   timer.Snapshot // Current state machine snapshot
	Background bool           // The UI is away and a projector owns the timer
	KeepAwake  bool           // The screen should not be allowed to sleep
}

// DisplaySet is the set number shown to the user
func (s TimerState) DisplaySet() int {
	return timer.DisplaySet(s.Snapshot.SetIndex(), s.Config)
}
