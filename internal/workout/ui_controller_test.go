package workout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RubnSanchz/interval-timer/internal/background"
	"github.com/RubnSanchz/interval-timer/internal/presets"
	"github.com/RubnSanchz/interval-timer/internal/timer"
)

func (e *testEnv) controller(t *testing.T, wm *TimerManager, store presets.Store) *UIController {
	t.Helper()
	actions := background.NewActionHandler(e.store, e.projector, e.clock, e.logger)
	c := NewUIController(e.model, wm, store, actions, e.clock, e.logger)
	t.Cleanup(c.Shutdown)
	return c
}

func seedPresets(t *testing.T, store *memoryPresetStore, names ...string) {
	t.Helper()
	for i, name := range names {
		p, err := presets.New(presets.Input{Name: name, Config: autoCfg}, epoch.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.NoError(t, store.Save(context.Background(), p))
	}
}

func TestUIController_PresetSelectedLoadsTimer(t *testing.T) {
	env := newTestEnv(t)
	wm := env.manager(t)
	store := &memoryPresetStore{}
	seedPresets(t, store, "Tabata")
	c := env.controller(t, wm, store)

	c.OnModeChange(UIModePresets)
	require.Len(t, env.model.GetPresets(), 1)
	assert.Equal(t, UIModePresets, env.model.GetUIState().Mode)

	c.OnPresetSelected(0)

	state := wm.State()
	assert.True(t, state.Loaded)
	assert.Equal(t, "Tabata", state.PresetName)
	assert.Equal(t, timer.Initial(autoCfg), state.Snapshot)
	assert.Equal(t, UIState{Mode: UIModeTimer, SelectedPresetID: env.model.GetPresets()[0].ID}, env.model.GetUIState())

	// Out of range selections are ignored
	c.OnPresetSelected(5)
	assert.Equal(t, "Tabata", wm.State().PresetName)
}

func TestUIController_SaveAndRemovePreset(t *testing.T) {
	env := newTestEnv(t)
	wm := env.manager(t)
	store := &memoryPresetStore{}
	c := env.controller(t, wm, store)

	c.SaveCurrentAsPreset("Nothing loaded")
	assert.Empty(t, env.model.GetPresets())

	wm.Load("", longCfg, false)
	c.SaveCurrentAsPreset("   ")
	assert.Empty(t, env.model.GetPresets())

	c.SaveCurrentAsPreset("  Long  ")
	list := env.model.GetPresets()
	require.Len(t, list, 1)
	assert.Equal(t, "Long", list[0].Name)
	assert.Equal(t, longCfg, list[0].Config)
	assert.Equal(t, list[0].ID, env.model.GetUIState().SelectedPresetID)

	c.RemovePreset(0)
	assert.Empty(t, env.model.GetPresets())
}

func TestUIController_CommandsNeedLoadedTimer(t *testing.T) {
	env := newTestEnv(t)
	wm := env.manager(t)
	c := env.controller(t, wm, &memoryPresetStore{})

	c.TogglePause()
	c.Skip()
	c.ResetWorkout()
	c.ResetExercise()
	c.ToggleBackground()

	assert.False(t, wm.State().Loaded)
	assert.Zero(t, env.projector.startCount())
}

func TestUIController_NotificationActions(t *testing.T) {
	env := newTestEnv(t)
	wm := env.manager(t)
	c := env.controller(t, wm, &memoryPresetStore{})

	wm.Load("", longCfg, false)

	// Actions only apply while the timer is away
	c.OnNotificationAction(background.ActionSkip)
	assert.Equal(t, timer.PhasePrep, wm.State().Snapshot.Phase())

	c.ToggleBackground()
	require.True(t, wm.State().Background)
	require.Equal(t, 1, env.projector.startCount())

	env.clock.Advance(2 * time.Second)
	c.OnNotificationAction(background.ActionSkip)
	stored, ok := env.store.Read()
	require.True(t, ok)
	assert.Equal(t, timer.Running(timer.PhaseExercise, 1, 30), stored.Snapshot)

	env.clock.Advance(4 * time.Second)
	c.OnNotificationAction(background.ActionPause)
	stored, ok = env.store.Read()
	require.True(t, ok)
	assert.Equal(t, timer.Paused(timer.PhaseExercise, 1, 26), stored.Snapshot)

	env.model.ApplyDelivery(background.Delivery{Notification: background.Notification{ID: background.StatusNotificationID}})
	c.ToggleBackground()

	state := wm.State()
	assert.False(t, state.Background)
	assert.Equal(t, timer.Paused(timer.PhaseExercise, 1, 26), state.Snapshot)
	assert.False(t, env.model.GetNotification().Visible)
}

func TestNewUIController_PanicsOnMissingDeps(t *testing.T) {
	env := newTestEnv(t)
	wm := env.manager(t)
	actions := background.NewActionHandler(env.store, env.projector, env.clock, env.logger)

	assert.PanicsWithValue(t, "UIController: presetStore cannot be nil", func() {
		NewUIController(env.model, wm, nil, actions, env.clock, env.logger)
	})
	assert.PanicsWithValue(t, "UIController: actions cannot be nil", func() {
		NewUIController(env.model, wm, &memoryPresetStore{}, nil, env.clock, env.logger)
	})
}
