package timer

import (
	"errors"
	"fmt"
)

// PrepSeconds is the fixed countdown that precedes the first exercise phase.
const PrepSeconds = 5

var (
	ErrInvalidSets            = errors.New("sets must be an integer >= 1")
	ErrInvalidExerciseSeconds = errors.New("exercise must be >= 1 second")
	ErrInvalidRestSeconds     = errors.New("rest must be >= 0 seconds")
)

// ConfigError reports which field of a Config failed validation
type ConfigError struct {
	Field string
	Value int
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s (%d): %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config describes one workout. It is a value type: transitions never
// produce a new Config, only new snapshots.
type Config struct {
	Sets                int  `json:"sets"`
	ExerciseSeconds     int  `json:"exerciseSeconds"`
	RestSeconds         int  `json:"restSeconds"`
	ExerciseAutoAdvance bool `json:"exerciseAutoAdvance"`
	RestAutoAdvance     bool `json:"restAutoAdvance"`
}

// NewConfig builds a validated Config. The values are returned unchanged, or
// a *ConfigError naming the first field that is out of bounds.
func NewConfig(sets, exerciseSeconds, restSeconds int, exerciseAutoAdvance, restAutoAdvance bool) (Config, error) {
	c := Config{
		Sets:                sets,
		ExerciseSeconds:     exerciseSeconds,
		RestSeconds:         restSeconds,
		ExerciseAutoAdvance: exerciseAutoAdvance,
		RestAutoAdvance:     restAutoAdvance,
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the bounds of an already populated Config, e.g. one
// decoded from disk.
func (c Config) Validate() error {
	if c.Sets < 1 {
		return &ConfigError{Field: "sets", Value: c.Sets, Err: ErrInvalidSets}
	}
	if c.ExerciseSeconds < 1 {
		return &ConfigError{Field: "exerciseSeconds", Value: c.ExerciseSeconds, Err: ErrInvalidExerciseSeconds}
	}
	if c.RestSeconds < 0 {
		return &ConfigError{Field: "restSeconds", Value: c.RestSeconds, Err: ErrInvalidRestSeconds}
	}
	return nil
}

// SameConfig reports whether two configs describe the same workout
func SameConfig(a, b Config) bool {
	return a == b
}

// TotalSeconds is the running time of the whole workout including prep,
// ignoring any time spent paused or holding.
func (c Config) TotalSeconds() int {
	total := PrepSeconds + c.Sets*c.ExerciseSeconds
	if c.Sets > 1 {
		total += (c.Sets - 1) * c.RestSeconds
	}
	return total
}
