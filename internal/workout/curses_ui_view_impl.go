package workout

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/RubnSanchz/interval-timer/internal/background"
	"github.com/RubnSanchz/interval-timer/internal/presets"
	"github.com/RubnSanchz/interval-timer/internal/timer"
)

// Page names for tview.Pages
const (
	pageTimer   = "timer"
	pagePresets = "presets"
)

// CursesUIViewImpl implements UIViewImpl using tview (curses-based terminal UI)
type CursesUIViewImpl struct {
	logger      *log.Logger
	app         *tview.Application
	model       *UIModel
	currentMode UIMode

	// Captured on every draw so cues can ring the terminal bell
	screenMu sync.Mutex
	screen   tcell.Screen

	// Root container that holds all pages
	pages *tview.Pages

	// Shared components (visible in all modes)
	logView  *tview.TextView
	mainFlex *tview.Flex // Main layout: mode content on left, logs on right

	// Timer mode components
	timerFlex          *tview.Flex
	timerTabWidgets    []tview.Primitive
	countdownPanel     *tview.TextView
	notificationPanel  *tview.TextView
	timerControlsPanel *tview.TextView

	// Presets mode components
	presetsFlex        *tview.Flex
	presetsTabWidgets  []tview.Primitive
	presetList         *tview.List
	presetDetailsPanel *tview.TextView
	presetNameInput    *tview.InputField
	presets            []presets.Preset
}

var _ Beeper = (*CursesUIViewImpl)(nil)

func NewCursesUIView(logger *log.Logger, app *tview.Application, model *UIModel) *CursesUIViewImpl {
	return &CursesUIViewImpl{
		logger:      logger,
		app:         app,
		model:       model,
		currentMode: UIModeTimer,
	}
}

// Initialize sets up the tview widgets
func (ui *CursesUIViewImpl) Initialize(controller *UIController) {
	// Note: Don't use SetChangedFunc with app.Draw() - it can hang during shutdown.
	// The BaseUIView's event listeners already call Draw() after updating content.
	ui.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	ui.logView.SetBorder(true).SetTitle(" Logs ")

	ui.pages = tview.NewPages()

	ui.initTimerMode()
	ui.initPresetsMode(controller)

	ui.pages.AddPage(pageTimer, ui.timerFlex, true, true)
	ui.pages.AddPage(pagePresets, ui.presetsFlex, true, false)

	ui.mainFlex = tview.NewFlex().
		AddItem(ui.pages, 0, 2, true).
		AddItem(ui.logView, 0, 1, false)

	ui.app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		ui.screenMu.Lock()
		ui.screen = screen
		ui.screenMu.Unlock()
		return false
	})

	ui.setFocusForCurrentMode()
}

// initTimerMode sets up the Timer mode UI
func (ui *CursesUIViewImpl) initTimerMode() {
	ui.countdownPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	ui.countdownPanel.SetBorder(true).SetTitle(" Timer ")
	ui.updateCountdownDisplay(TimerState{})

	ui.notificationPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.notificationPanel.SetBorder(true).SetTitle(" Notification ")
	ui.updateNotificationDisplay(NotificationState{}, false)

	ui.timerControlsPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	ui.updateControlsDisplay(TimerState{})

	ui.timerTabWidgets = append(ui.timerTabWidgets, ui.countdownPanel, ui.notificationPanel)

	ui.timerFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.countdownPanel, 0, 3, true).
		AddItem(ui.notificationPanel, 7, 0, false).
		AddItem(ui.timerControlsPanel, 3, 0, false)
}

// initPresetsMode sets up the Presets mode UI
func (ui *CursesUIViewImpl) initPresetsMode(controller *UIController) {
	ui.presetList = tview.NewList().
		ShowSecondaryText(true).
		SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			ui.logger.Printf("UI: Preset selected: index=%d, name=%s", index, mainText)
			controller.OnPresetSelected(index)
		}).
		SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			ui.updatePresetDetailsDisplay(index)
		})
	ui.presetList.SetBorder(true).SetTitle(" Presets ")

	ui.presetDetailsPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.presetDetailsPanel.SetBorder(true).SetTitle(" Details ")
	ui.updatePresetDetailsDisplay(-1)

	ui.presetNameInput = tview.NewInputField().
		SetLabel(" Save current as: ").
		SetFieldWidth(0)
	ui.presetNameInput.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			name := ui.presetNameInput.GetText()
			ui.presetNameInput.SetText("")
			controller.SaveCurrentAsPreset(name)
		}
		ui.app.SetFocus(ui.presetList)
	})

	ui.presetsTabWidgets = append(ui.presetsTabWidgets, ui.presetList, ui.presetDetailsPanel)

	columns := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ui.presetList, 0, 1, true).
		AddItem(ui.presetDetailsPanel, 0, 1, false)

	ui.presetsFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(columns, 0, 1, true).
		AddItem(ui.presetNameInput, 1, 0, false)
}

// SetPresetList populates the preset list
func (ui *CursesUIViewImpl) SetPresetList(list []presets.Preset, selectedID string) {
	ui.presets = list
	current := ui.presetList.GetCurrentItem()
	ui.presetList.Clear()

	selected := -1
	for i, p := range list {
		ui.presetList.AddItem(p.Name, presets.Describe(p.Config), 0, nil)
		if p.ID == selectedID {
			selected = i
		}
	}

	switch {
	case selected >= 0:
		ui.presetList.SetCurrentItem(selected)
	case current < len(list):
		ui.presetList.SetCurrentItem(current)
	}
	ui.updatePresetDetailsDisplay(ui.presetList.GetCurrentItem())
}

// updatePresetDetailsDisplay formats and displays the preset details
func (ui *CursesUIViewImpl) updatePresetDetailsDisplay(index int) {
	if ui.presetDetailsPanel == nil {
		return
	}

	var text string

	if index < 0 || index >= len(ui.presets) {
		text = "\n\n  [yellow]Presets[white]\n\n"
		text += "  No saved presets yet.\n\n"
		text += "  [gray]Type a name below and press Enter to save\n  the loaded configuration.[white]\n"
	} else {
		p := ui.presets[index]
		c := p.Config
		text = "\n"
		text += fmt.Sprintf("  [yellow]%s[white]\n\n", tview.Escape(p.Name))
		text += fmt.Sprintf("  [gray]Sets:[white]     %d\n", c.Sets)
		text += fmt.Sprintf("  [gray]Exercise:[white] %s %s\n", timer.FormatClock(c.ExerciseSeconds), autoLabel(c.ExerciseAutoAdvance))
		text += fmt.Sprintf("  [gray]Rest:[white]     %s %s\n", timer.FormatClock(c.RestSeconds), autoLabel(c.RestAutoAdvance))
		text += fmt.Sprintf("  [gray]Total:[white]    %s\n\n", timer.FormatClock(c.TotalSeconds()))
		text += fmt.Sprintf("  [gray]Updated %s[white]\n\n", p.UpdatedAt.Local().Format("2006-01-02 15:04"))
		text += "  [green]Press Enter to start this preset[white]\n"
	}

	ui.presetDetailsPanel.SetText(text)
}

func autoLabel(auto bool) string {
	if auto {
		return "[gray](auto)[white]"
	}
	return "[gray](hold)[white]"
}

// SetMode switches the UI to the specified mode
func (ui *CursesUIViewImpl) SetMode(mode UIMode) {
	if ui.currentMode == mode {
		return
	}

	ui.currentMode = mode

	switch mode {
	case UIModeTimer:
		ui.pages.SwitchToPage(pageTimer)
	case UIModePresets:
		ui.pages.SwitchToPage(pagePresets)
	}

	ui.setFocusForCurrentMode()
}

// GetCurrentMode returns the currently active UI mode
func (ui *CursesUIViewImpl) GetCurrentMode() UIMode {
	return ui.currentMode
}

// setFocusForCurrentMode sets focus to the first widget in the current mode
func (ui *CursesUIViewImpl) setFocusForCurrentMode() {
	widgets := ui.getTabWidgetsForCurrentMode()
	if len(widgets) > 0 {
		ui.app.SetFocus(widgets[0])
	}
}

// getTabWidgetsForCurrentMode returns the tab widgets for the current mode
func (ui *CursesUIViewImpl) getTabWidgetsForCurrentMode() []tview.Primitive {
	switch ui.currentMode {
	case UIModeTimer:
		return ui.timerTabWidgets
	case UIModePresets:
		return ui.presetsTabWidgets
	default:
		return nil
	}
}

// SetupKeyboardHandlers sets up keyboard event handlers
func (ui *CursesUIViewImpl) SetupKeyboardHandlers(controller *UIController) {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// The name field gets every key; Escape leaves it
		if ui.app.GetFocus() == ui.presetNameInput {
			if event.Key() == tcell.KeyEscape {
				ui.app.SetFocus(ui.presetList)
				return nil
			}
			return event
		}

		// Number keys for mode switching (1-9)
		if event.Key() == tcell.KeyRune {
			if mode, ok := GetUIModeByKey(event.Rune()); ok {
				// Delegate to controller - it will update the model, which will notify us
				controller.OnModeChange(mode)
				return nil
			}
		}

		// Tab to switch focus between widgets in current mode
		if event.Key() == tcell.KeyTab {
			widgets := ui.getTabWidgetsForCurrentMode()
			widgetCount := len(widgets)
			if widgetCount > 0 {
				for i := 0; i < widgetCount+1; i++ {
					idx := i % widgetCount
					if widgets[idx].HasFocus() {
						nextIdx := (idx + 1) % widgetCount
						ui.app.SetFocus(widgets[nextIdx])
						break
					}
				}
			}
			return nil
		}

		// Escape to quit
		if event.Key() == tcell.KeyEscape {
			controller.OnEscapeKey()
			return nil
		}

		if event.Key() != tcell.KeyRune {
			if ui.currentMode == UIModeTimer && event.Key() == tcell.KeyEnter {
				controller.TogglePause()
				return nil
			}
			return event
		}

		switch ui.currentMode {
		case UIModeTimer:
			away := ui.model.GetTimerState().Background
			switch event.Rune() {
			case ' ':
				controller.TogglePause()
			case 's':
				if away {
					controller.OnNotificationAction(background.ActionSkip)
				} else {
					controller.Skip()
				}
			case 'p':
				if away {
					controller.OnNotificationAction(background.ActionPause)
				} else {
					controller.TogglePause()
				}
			case 'r':
				controller.ResetWorkout()
			case 'e':
				controller.ResetExercise()
			case 'b':
				controller.ToggleBackground()
			default:
				return event
			}
			return nil

		case UIModePresets:
			switch event.Rune() {
			case 'a':
				ui.app.SetFocus(ui.presetNameInput)
			case 'd':
				controller.RemovePreset(ui.presetList.GetCurrentItem())
			case 'u':
				controller.RefreshPresets()
			default:
				return event
			}
			return nil
		}

		return event
	})
}

// GetLogViewHeight returns the visible height of the log view
func (ui *CursesUIViewImpl) GetLogViewHeight() int {
	_, _, _, height := ui.logView.GetInnerRect()
	return height
}

// ClearLogView clears the log view
func (ui *CursesUIViewImpl) ClearLogView() {
	ui.logView.Clear()
}

// WriteLogLine writes a line to the log view
func (ui *CursesUIViewImpl) WriteLogLine(line string) error {
	_, err := fmt.Fprint(ui.logView, tview.Escape(line))
	return err
}

// Draw refreshes/redraws the UI
func (ui *CursesUIViewImpl) Draw() error {
	ui.app.Draw()
	return nil
}

// Run starts the UI and blocks until it exits
func (ui *CursesUIViewImpl) Run() error {
	// SetRoot must be called before setting focus, otherwise focus may be reset
	ui.app.SetRoot(ui.mainFlex, true)
	ui.setFocusForCurrentMode()
	return ui.app.Run()
}

// Stop stops the UI framework
func (ui *CursesUIViewImpl) Stop() {
	ui.app.Stop()
}

// Beep rings the terminal bell once the screen has been drawn
func (ui *CursesUIViewImpl) Beep() error {
	ui.screenMu.Lock()
	screen := ui.screen
	ui.screenMu.Unlock()
	if screen == nil {
		return nil
	}
	return screen.Beep()
}

// UpdateTimerState updates the countdown display
func (ui *CursesUIViewImpl) UpdateTimerState(state TimerState) {
	ui.updateCountdownDisplay(state)
	ui.updateControlsDisplay(state)
	if !state.Background {
		ui.updateNotificationDisplay(NotificationState{}, false)
	}
}

// UpdateNotification shows or hides the background notification
func (ui *CursesUIViewImpl) UpdateNotification(state NotificationState) {
	ui.updateNotificationDisplay(state, ui.model.GetTimerState().Background)
}

func phaseColor(p timer.Phase) string {
	switch p {
	case timer.PhasePrep:
		return "yellow"
	case timer.PhaseExercise:
		return "red"
	case timer.PhaseRest:
		return "green"
	default:
		return "blue"
	}
}

// updateCountdownDisplay formats and displays the timer state
func (ui *CursesUIViewImpl) updateCountdownDisplay(state TimerState) {
	if ui.countdownPanel == nil {
		return
	}

	if !state.Loaded {
		text := "\n\n  [gray]No timer loaded[white]\n\n"
		text += "  Go to Presets (press 2) to start one.\n"
		ui.countdownPanel.SetText(text)
		return
	}

	s := state.Snapshot
	title := state.PresetName
	if title == "" {
		title = presets.Describe(state.Config)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n[yellow]%s[white]\n\n", tview.Escape(title))
	fmt.Fprintf(&b, "[%s::b]%s[-::-]\n\n", phaseColor(s.Phase()), timer.PhaseLabel(s.Phase()))
	fmt.Fprintf(&b, "[::b]%s[::-]\n\n", timer.FormatClock(s.Remaining()))
	fmt.Fprintf(&b, "Set %d / %d\n\n", state.DisplaySet(), state.Config.Sets)

	switch s.Status() {
	case timer.StatusPaused:
		b.WriteString("[gray](PAUSED)[white]\n")
	case timer.StatusHolding:
		b.WriteString("[green]Listo para continuar[white]\n")
		if next, ok := s.Pending(); ok {
			fmt.Fprintf(&b, "[gray]Siguiente: %s %s[white]\n", timer.PhaseLabel(next.Phase), timer.FormatClock(next.Remaining))
		}
	case timer.StatusDone:
		b.WriteString("[green]Entreno completado[white]\n")
	}
	if state.Background {
		b.WriteString("\n[gray](in background)[white]\n")
	}

	ui.countdownPanel.SetText(b.String())
}

// updateControlsDisplay shows the keys that apply to the current status
func (ui *CursesUIViewImpl) updateControlsDisplay(state TimerState) {
	if ui.timerControlsPanel == nil {
		return
	}

	var text string
	switch {
	case !state.Loaded:
		text = "[yellow]1[white] Timer  |  [yellow]2[white] Presets  |  [yellow]Esc[white] Quit"
	case state.Background:
		text = "[yellow]P[white] Pausar  |  [yellow]S[white] Saltar  |  [yellow]B[white] Foreground"
	default:
		toggle := "Pause"
		switch state.Snapshot.Status() {
		case timer.StatusPaused:
			toggle = "Resume"
		case timer.StatusHolding:
			toggle = "Continue"
		case timer.StatusDone:
			toggle = "Restart"
		}
		text = fmt.Sprintf("[yellow]Space[white] %s  |  [yellow]S[white] Skip  |  [yellow]E[white] Reset exercise  |  [yellow]R[white] Reset\n", toggle)
		text += "[yellow]B[white] Background  |  [yellow]2[white] Presets  |  [yellow]Esc[white] Quit"
	}
	ui.timerControlsPanel.SetText(text)
}

// updateNotificationDisplay renders the notification posted while away
func (ui *CursesUIViewImpl) updateNotificationDisplay(state NotificationState, away bool) {
	if ui.notificationPanel == nil {
		return
	}

	if !state.Visible {
		if away {
			ui.notificationPanel.SetText("\n  [gray]Waiting for notifications...[white]")
		} else {
			ui.notificationPanel.SetText("\n  [gray]Notifications appear here while the timer is in the background (press B).[white]")
		}
		return
	}

	n := state.Notification
	text := fmt.Sprintf("\n  [yellow]%s[white]\n  %s\n", tview.Escape(n.Title), tview.Escape(n.Body))
	if len(n.Actions) > 0 {
		labels := make([]string, 0, len(n.Actions))
		for _, a := range n.Actions {
			labels = append(labels, fmt.Sprintf("[yellow]%c[white] %s", actionKey(a.ID), a.Title))
		}
		text += "\n  " + strings.Join(labels, "  |  ") + "\n"
	}
	ui.notificationPanel.SetText(text)
}

func actionKey(actionID string) rune {
	if actionID == background.ActionPause {
		return 'P'
	}
	return 'S'
}
