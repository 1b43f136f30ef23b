package workout

import (
	"context"
	"log"
	"sync"

	"github.com/RubnSanchz/interval-timer/internal/background"
	"github.com/RubnSanchz/interval-timer/internal/events"
	"github.com/RubnSanchz/interval-timer/internal/go_func_utils"
	"github.com/RubnSanchz/interval-timer/internal/presets"
)

// UIState holds the current state of the UI that views need to render
type UIState struct {
	Mode             UIMode
	SelectedPresetID string // Preset highlighted in the presets list
}

// NotificationState is the most recent background notification, as shown
// in the timer screen while the UI is away.
type NotificationState struct {
	Visible      bool
	Notification background.Notification
}

type UIModel struct {
	logEvent              *events.ChannelEvent[string]
	closeApplicationEvent *events.ChannelEvent[struct{}]
	uiStateEvent          *events.ChannelEvent[UIState]
	uiState               UIState
	timerStateEvent       *events.ChannelEvent[TimerState]
	timerState            TimerState
	presetsEvent          *events.ChannelEvent[[]presets.Preset]
	presets               []presets.Preset
	notificationEvent     *events.ChannelEvent[NotificationState]
	notification          NotificationState
	persistence           *uiModelPersistence
	logLines              []string
	logMu                 sync.RWMutex
	mu                    sync.RWMutex
	ctx                   context.Context
	cancel                context.CancelFunc
	wg                    sync.WaitGroup
	logger                *log.Logger
}

const maxLogLines = 1000

func NewUIModel(dataDir string, logger *log.Logger, uiLogChan <-chan string) *UIModel {
	if logger == nil {
		panic("UIModel: logger cannot be nil")
	}
	if uiLogChan == nil {
		panic("UIModel: uiLogChan cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	persistence := newUIModelPersistence(dataDir, logger)
	model := &UIModel{
		logEvent:              events.NewChannelEvent[string](false),
		closeApplicationEvent: events.NewChannelEvent[struct{}](true),
		uiStateEvent:          events.NewChannelEvent[UIState](true),
		uiState:               UIState{Mode: persistence.lastMode(), SelectedPresetID: persistence.lastPresetID()},
		timerStateEvent:       events.NewChannelEvent[TimerState](true),
		presetsEvent:          events.NewChannelEvent[[]presets.Preset](true),
		presets:               make([]presets.Preset, 0),
		notificationEvent:     events.NewChannelEvent[NotificationState](true),
		persistence:           persistence,
		logLines:              make([]string, 0, maxLogLines),
		ctx:                   ctx,
		cancel:                cancel,
		logger:                logger,
	}

	// Read from the UI log channel and populate logLines
	model.wg.Add(1)
	go_func_utils.SafeGo(model.logger, func() { model.readFromLogChannel(ctx, uiLogChan) })

	return model
}

// Shutdown stops all goroutines and waits for them to finish
func (m *UIModel) Shutdown() {
	m.logger.Println("UIModel: Shutting down")
	m.cancel()
	m.wg.Wait()
	m.logger.Println("UIModel: Shutdown complete")
}

// ListenToLog registers a channel to receive log messages
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToLog(ch chan<- string) func() {
	return m.logEvent.Listen(ch)
}

// ListenToCloseApplication registers a channel to receive close application signals
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToCloseApplication(ch chan<- struct{}) func() {
	return m.closeApplicationEvent.Listen(ch)
}

// RequestCloseApplication signals that the application should close
func (m *UIModel) RequestCloseApplication() {
	m.closeApplicationEvent.Notify(struct{}{})
}

// ListenToUIState registers a channel to receive UI state changes
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToUIState(ch chan<- UIState) func() {
	return m.uiStateEvent.Listen(ch)
}

// GetUIState returns the current UI state
func (m *UIModel) GetUIState() UIState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.uiState
}

// SetMode updates the current UI mode and notifies listeners
func (m *UIModel) SetMode(mode UIMode) {
	m.mu.Lock()
	if m.uiState.Mode == mode {
		m.mu.Unlock()
		return
	}
	m.uiState.Mode = mode
	state := m.uiState
	m.mu.Unlock()

	m.persistence.setLastMode(mode)
	m.uiStateEvent.Notify(state)
}

// SetSelectedPreset remembers id as the preset to highlight, across restarts
func (m *UIModel) SetSelectedPreset(id string) {
	m.mu.Lock()
	if m.uiState.SelectedPresetID == id {
		m.mu.Unlock()
		return
	}
	m.uiState.SelectedPresetID = id
	state := m.uiState
	m.mu.Unlock()

	m.persistence.setLastPresetID(id)
	m.uiStateEvent.Notify(state)
}

// ListenToTimerState registers a channel to receive timer state updates
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToTimerState(ch chan<- TimerState) func() {
	return m.timerStateEvent.Listen(ch)
}

// GetTimerState returns the current timer state
func (m *UIModel) GetTimerState() TimerState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timerState
}

// SetTimerState updates the timer state and notifies listeners
func (m *UIModel) SetTimerState(state TimerState) {
	m.mu.Lock()
	m.timerState = state
	m.mu.Unlock()

	m.timerStateEvent.Notify(state)
}

// ListenToPresets registers a channel to receive preset list changes
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToPresets(ch chan<- []presets.Preset) func() {
	return m.presetsEvent.Listen(ch)
}

// GetPresets returns a copy of the current preset list
func (m *UIModel) GetPresets() []presets.Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]presets.Preset, len(m.presets))
	copy(result, m.presets)
	return result
}

// SetPresets replaces the preset list and notifies listeners
func (m *UIModel) SetPresets(list []presets.Preset) {
	m.mu.Lock()
	m.presets = make([]presets.Preset, len(list))
	copy(m.presets, list)
	result := make([]presets.Preset, len(list))
	copy(result, list)
	m.mu.Unlock()

	m.presetsEvent.Notify(result)
}

// ListenToNotification registers a channel to receive background notification changes
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToNotification(ch chan<- NotificationState) func() {
	return m.notificationEvent.Listen(ch)
}

// GetNotification returns the notification currently on display
func (m *UIModel) GetNotification() NotificationState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.notification
}

// ApplyDelivery folds a scheduler delivery into the displayed notification.
// Removing a notification other than the one on display changes nothing.
func (m *UIModel) ApplyDelivery(d background.Delivery) {
	m.mu.Lock()
	if d.Removed {
		if !m.notification.Visible || m.notification.Notification.ID != d.Notification.ID {
			m.mu.Unlock()
			return
		}
		m.notification = NotificationState{}
	} else {
		m.notification = NotificationState{Visible: true, Notification: d.Notification}
	}
	state := m.notification
	m.mu.Unlock()

	m.notificationEvent.Notify(state)
}

// ClearNotification hides the displayed notification
func (m *UIModel) ClearNotification() {
	m.mu.Lock()
	if !m.notification.Visible {
		m.mu.Unlock()
		return
	}
	m.notification = NotificationState{}
	m.mu.Unlock()

	m.notificationEvent.Notify(NotificationState{})
}

// readFromLogChannel reads log lines from the channel and populates logLines
func (m *UIModel) readFromLogChannel(ctx context.Context, logChan <-chan string) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-logChan:
			if !ok {
				return
			}

			m.logMu.Lock()
			m.logLines = append(m.logLines, line)
			if len(m.logLines) > maxLogLines {
				m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
			}
			m.logMu.Unlock()

			m.logEvent.Notify(line)
		}
	}
}

// GetLogTail returns the last n lines of logs
func (m *UIModel) GetLogTail(n int) []string {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	if n <= 0 {
		return []string{}
	}

	if n >= len(m.logLines) {
		result := make([]string, len(m.logLines))
		copy(result, m.logLines)
		return result
	}

	result := make([]string, n)
	copy(result, m.logLines[len(m.logLines)-n:])
	return result
}
