package presets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RubnSanchz/interval-timer/internal/timer"
)

var (
	ErrEmptyName = errors.New("preset name cannot be empty")
	ErrNotFound  = errors.New("preset not found")
)

// Preset is a named, reusable workout configuration
type Preset struct {
	ID        string
	Name      string
	Config    timer.Config
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Input is what the user provides when creating a preset
type Input struct {
	Name   string
	Config timer.Config
}

// Store persists presets. List returns them newest first.
type Store interface {
	List(ctx context.Context) ([]Preset, error)
	Save(ctx context.Context, p Preset) error
	Remove(ctx context.Context, id string) error
}

// New validates in and returns a preset with a fresh id, created at now
func New(in Input, now time.Time) (Preset, error) {
	name, cfg, err := validate(in.Name, in.Config)
	if err != nil {
		return Preset{}, err
	}
	now = now.UTC()
	return Preset{
		ID:        uuid.NewString(),
		Name:      name,
		Config:    cfg,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks a preset read back from storage
func Validate(p Preset) error {
	if p.ID == "" {
		return errors.New("preset id cannot be empty")
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		return fmt.Errorf("preset %s: missing timestamps", p.ID)
	}
	_, _, err := validate(p.Name, p.Config)
	return err
}

func validate(name string, cfg timer.Config) (string, timer.Config, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", timer.Config{}, ErrEmptyName
	}
	if err := cfg.Validate(); err != nil {
		return "", timer.Config{}, err
	}
	return name, cfg, nil
}

// Find returns the preset with the given id or, failing that, the first one
// whose name matches case-insensitively.
func Find(list []Preset, idOrName string) (Preset, error) {
	for _, p := range list {
		if p.ID == idOrName {
			return p, nil
		}
	}
	for _, p := range list {
		if strings.EqualFold(p.Name, idOrName) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %s", ErrNotFound, idOrName)
}

// Describe renders a one line summary such as "5 x 45s / 15s"
func Describe(c timer.Config) string {
	s := fmt.Sprintf("%d x %ds / %ds", c.Sets, c.ExerciseSeconds, c.RestSeconds)
	var manual []string
	if !c.ExerciseAutoAdvance {
		manual = append(manual, "exercise")
	}
	if !c.RestAutoAdvance {
		manual = append(manual, "rest")
	}
	if len(manual) > 0 {
		s += " (hold after " + strings.Join(manual, ", ") + ")"
	}
	return s
}
