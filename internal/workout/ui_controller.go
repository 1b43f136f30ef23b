package workout

import (
	"context"
	"log"
	"sync"

	"github.com/RubnSanchz/interval-timer/internal/background"
	"github.com/RubnSanchz/interval-timer/internal/clock"
	"github.com/RubnSanchz/interval-timer/internal/go_func_utils"
	"github.com/RubnSanchz/interval-timer/internal/presets"
)

// UIController handles UI events and coordinates with the UIModel
type UIController struct {
	model        *UIModel
	timerManager *TimerManager
	presetStore  presets.Store
	actions      *background.ActionHandler
	clock        clock.Clock
	logger       *log.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// NewUIController creates a new UIController with the given dependencies
func NewUIController(model *UIModel, timerManager *TimerManager, presetStore presets.Store, actions *background.ActionHandler, clk clock.Clock, logger *log.Logger) *UIController {
	if model == nil {
		panic("UIController: model cannot be nil")
	}
	if timerManager == nil {
		panic("UIController: timerManager cannot be nil")
	}
	if presetStore == nil {
		panic("UIController: presetStore cannot be nil")
	}
	if actions == nil {
		panic("UIController: actions cannot be nil")
	}
	if clk == nil {
		panic("UIController: clock cannot be nil")
	}
	if logger == nil {
		panic("UIController: logger cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &UIController{
		model:        model,
		timerManager: timerManager,
		presetStore:  presetStore,
		actions:      actions,
		clock:        clk,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
	}

	c.wg.Add(1)
	go_func_utils.SafeGo(logger, func() { c.listenToKeepAwake() })

	return c
}

// listenToKeepAwake reports when the screen should start or stop being kept awake
func (c *UIController) listenToKeepAwake() {
	defer c.wg.Done()

	ch := make(chan TimerState, 1)
	unregister := c.model.ListenToTimerState(ch)
	defer unregister()

	awake := false
	for {
		select {
		case <-c.ctx.Done():
			return
		case state, ok := <-ch:
			if !ok {
				return
			}
			if state.KeepAwake == awake {
				continue
			}
			awake = state.KeepAwake
			if awake {
				c.logger.Printf("Keep awake: on")
			} else {
				c.logger.Printf("Keep awake: off")
			}
		}
	}
}

// OnEscapeKey persists the timer for the background commands and closes the app
func (c *UIController) OnEscapeKey() {
	c.timerManager.Detach()
	c.model.RequestCloseApplication()
}

// OnModeChange handles when the user requests a mode change
func (c *UIController) OnModeChange(mode UIMode) {
	if info, ok := GetUIModeInfo(mode); ok {
		c.logger.Printf("Switching to %s mode", info.DisplayName)
	}
	if mode == UIModePresets {
		c.RefreshPresets()
	}
	c.model.SetMode(mode)
}

// --- Timer Methods ---

func (c *UIController) TogglePause() {
	if !c.requireLoaded() {
		return
	}
	c.timerManager.TogglePause()
}

func (c *UIController) Skip() {
	if !c.requireLoaded() {
		return
	}
	c.timerManager.Skip()
}

func (c *UIController) ResetWorkout() {
	if !c.requireLoaded() {
		return
	}
	c.timerManager.Reset()
}

func (c *UIController) ResetExercise() {
	if !c.requireLoaded() {
		return
	}
	c.timerManager.ResetExercise()
}

// ToggleBackground simulates the app leaving or returning to the foreground
func (c *UIController) ToggleBackground() {
	if !c.requireLoaded() {
		return
	}
	if c.timerManager.State().Background {
		c.timerManager.OnForeground(c.ctx)
		c.model.ClearNotification()
		return
	}
	c.timerManager.OnBackground(c.ctx)
}

// OnNotificationAction answers an action button of the displayed notification
func (c *UIController) OnNotificationAction(actionID string) {
	if !c.timerManager.State().Background {
		c.logger.Printf("No notification to act on - press 'b' to send the timer to the background")
		return
	}
	next, ok := c.actions.Handle(c.ctx, background.Response{ActionID: actionID, Source: background.Source})
	if !ok {
		return
	}
	c.logger.Printf("Notification action %s -> %s", actionID, next)
}

func (c *UIController) requireLoaded() bool {
	if c.timerManager.State().Loaded {
		return true
	}
	c.logger.Printf("No timer loaded - pick a preset (press 2)")
	return false
}

// --- Preset Methods ---

// RefreshPresets reloads the preset list from the store
func (c *UIController) RefreshPresets() {
	list, err := c.presetStore.List(c.ctx)
	if err != nil {
		c.logger.Printf("Failed to list presets: %v", err)
		return
	}
	c.model.SetPresets(list)
}

// OnPresetSelected starts the preset at index from the beginning
func (c *UIController) OnPresetSelected(index int) {
	list := c.model.GetPresets()
	if index < 0 || index >= len(list) {
		c.logger.Printf("Invalid preset index: %d", index)
		return
	}

	p := list[index]
	c.logger.Printf("Preset selected: %s (%s)", p.Name, presets.Describe(p.Config))
	c.timerManager.Load(p.Name, p.Config, false)
	c.model.SetSelectedPreset(p.ID)
	c.model.SetMode(UIModeTimer)
}

// SaveCurrentAsPreset stores the loaded configuration under name
func (c *UIController) SaveCurrentAsPreset(name string) {
	state := c.timerManager.State()
	if !state.Loaded {
		c.logger.Printf("No timer loaded to save")
		return
	}

	p, err := presets.New(presets.Input{Name: name, Config: state.Config}, c.clock.Now())
	if err != nil {
		c.logger.Printf("Cannot save preset: %v", err)
		return
	}
	if err := c.presetStore.Save(c.ctx, p); err != nil {
		c.logger.Printf("Failed to save preset: %v", err)
		return
	}
	c.logger.Printf("Preset saved: %s", p.Name)
	c.model.SetSelectedPreset(p.ID)
	c.RefreshPresets()
}

// RemovePreset deletes the preset at index
func (c *UIController) RemovePreset(index int) {
	list := c.model.GetPresets()
	if index < 0 || index >= len(list) {
		c.logger.Printf("Invalid preset index: %d", index)
		return
	}

	p := list[index]
	if err := c.presetStore.Remove(c.ctx, p.ID); err != nil {
		c.logger.Printf("Failed to remove preset: %v", err)
		return
	}
	c.logger.Printf("Preset removed: %s", p.Name)
	c.RefreshPresets()
}

// Shutdown stops the controller and the timer manager
func (c *UIController) Shutdown() {
	c.cancel()
	c.wg.Wait()
	c.timerManager.Shutdown()
}
