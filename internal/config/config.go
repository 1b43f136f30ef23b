package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RubnSanchz/interval-timer/internal/timer"
)

const (
	AppName   = "interval-timer"
	envPrefix = "INTERVAL_TIMER"
)

// BackgroundMode selects how the timer is projected while the UI is away
type BackgroundMode string

const (
	BackgroundAuto      BackgroundMode = "auto"
	BackgroundPolling   BackgroundMode = "polling"
	BackgroundScheduled BackgroundMode = "scheduled"
)

var ErrUnknownBackgroundMode = errors.New("unknown background mode")

func ParseBackgroundMode(s string) (BackgroundMode, error) {
	switch BackgroundMode(strings.ToLower(strings.TrimSpace(s))) {
	case BackgroundAuto, "":
		return BackgroundAuto, nil
	case BackgroundPolling:
		return BackgroundPolling, nil
	case BackgroundScheduled:
		return BackgroundScheduled, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackgroundMode, s)
}

type LogConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Config is the fully resolved application configuration
type Config struct {
	DataDir    string
	Log        LogConfig
	Background BackgroundMode
	// Notifications gates the background projectors; false behaves like a
	// denied notification permission.
	Notifications bool
	Feedback      Settings
	Timer         timer.Config
}

// DefaultDataDir returns ~/.interval-timer, falling back to the working
// directory when the home directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, "."+AppName)
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "."+AppName)
}

// RegisterFlags adds the configuration flags to fs. Flag names use dashes;
// they are bound to the dotted viper keys in Load.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default <data-dir>/config.yaml)")
	fs.String("data-dir", "", "directory for timer state, presets and logs")
	fs.String("log-file", "", "log file (default <data-dir>/interval-timer.log)")
	fs.String("background", string(BackgroundAuto), "background projection: auto, polling or scheduled")
	fs.Float64("volume", defaultSoundVolume, "cue volume between 0 and 1")
	fs.Int("sets", 5, "number of sets")
	fs.Int("exercise", 45, "exercise seconds per set")
	fs.Int("rest", 15, "rest seconds between sets")
	fs.Bool("exercise-auto", true, "advance from exercise without confirmation")
	fs.Bool("rest-auto", true, "advance from rest without confirmation")
}

var flagKeys = map[string]string{
	"data-dir":      "data_dir",
	"log-file":      "log.file",
	"background":    "background.mode",
	"volume":        "feedback.sound_volume",
	"sets":          "timer.sets",
	"exercise":      "timer.exercise_seconds",
	"rest":          "timer.rest_seconds",
	"exercise-auto": "timer.exercise_auto_advance",
	"rest-auto":     "timer.rest_auto_advance",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 5)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("background.mode", string(BackgroundAuto))
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("feedback.haptics", true)
	v.SetDefault("feedback.keep_awake", true)
	v.SetDefault("feedback.sound_volume", defaultSoundVolume)
	v.SetDefault("timer.sets", 5)
	v.SetDefault("timer.exercise_seconds", 45)
	v.SetDefault("timer.rest_seconds", 15)
	v.SetDefault("timer.exercise_auto_advance", true)
	v.SetDefault("timer.rest_auto_advance", true)
}

// Load resolves the configuration from defaults, the optional config file,
// INTERVAL_TIMER_* environment variables and fs, in increasing priority.
// fs may be nil.
func Load(v *viper.Viper, fs *pflag.FlagSet) (Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for flagName, key := range flagKeys {
			if f := fs.Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", flagName, err)
				}
			}
		}
	}

	if err := readConfigFile(v, fs); err != nil {
		return Config{}, err
	}

	mode, err := ParseBackgroundMode(v.GetString("background.mode"))
	if err != nil {
		return Config{}, err
	}

	timerConfig, err := timer.NewConfig(
		v.GetInt("timer.sets"),
		v.GetInt("timer.exercise_seconds"),
		v.GetInt("timer.rest_seconds"),
		v.GetBool("timer.exercise_auto_advance"),
		v.GetBool("timer.rest_auto_advance"),
	)
	if err != nil {
		return Config{}, fmt.Errorf("timer defaults: %w", err)
	}

	dataDir := v.GetString("data_dir")
	logFile := v.GetString("log.file")
	if logFile == "" {
		logFile = filepath.Join(dataDir, AppName+".log")
	}

	return Config{
		DataDir: dataDir,
		Log: LogConfig{
			File:       logFile,
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
		},
		Background:    mode,
		Notifications: v.GetBool("notifications.enabled"),
		Feedback: NewSettings(
			v.GetBool("feedback.haptics"),
			v.GetBool("feedback.keep_awake"),
			v.GetFloat64("feedback.sound_volume"),
		),
		Timer: timerConfig,
	}, nil
}

// readConfigFile loads an explicit --config file, or config.yaml from the
// data dir when present. A missing default file is not an error.
func readConfigFile(v *viper.Viper, fs *pflag.FlagSet) error {
	explicit := ""
	if fs != nil {
		explicit, _ = fs.GetString("config")
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("data_dir"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}
