package config

import "math"

const (
	defaultSoundVolume = 0.6
	volumeGamma        = 1.6
)

// Settings are the user's feedback preferences
type Settings struct {
	HapticsEnabled   bool
	KeepAwakeEnabled bool
	SoundVolume      float64 // 0..1
}

func DefaultSettings() Settings {
	return Settings{HapticsEnabled: true, KeepAwakeEnabled: true, SoundVolume: defaultSoundVolume}
}

func NewSettings(haptics, keepAwake bool, volume float64) Settings {
	return Settings{HapticsEnabled: haptics, KeepAwakeEnabled: keepAwake, SoundVolume: ClampSoundVolume(volume)}
}

// ClampSoundVolume limits v to 0..1; NaN becomes the default volume
func ClampSoundVolume(v float64) float64 {
	if math.IsNaN(v) {
		return defaultSoundVolume
	}
	return math.Min(1, math.Max(0, v))
}

// ScaleVolume maps a slider volume onto the playback gain with a gamma curve
func ScaleVolume(v float64) float64 {
	clamped := ClampSoundVolume(v)
	if clamped <= 0 {
		return 0
	}
	return math.Min(1, math.Pow(clamped, volumeGamma))
}

// EffectiveVolume is the playback gain for the configured volume
func (s Settings) EffectiveVolume() float64 {
	return ScaleVolume(s.SoundVolume)
}

// Muted reports whether cues should produce no sound at all
func (s Settings) Muted() bool {
	return s.EffectiveVolume() == 0
}
