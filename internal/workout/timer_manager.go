package workout

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RubnSanchz/interval-timer/internal/background"
	"github.com/RubnSanchz/interval-timer/internal/clock"
	"github.com/RubnSanchz/interval-timer/internal/config"
	"github.com/RubnSanchz/interval-timer/internal/go_func_utils"
	"github.com/RubnSanchz/interval-timer/internal/storage"
	"github.com/RubnSanchz/interval-timer/internal/timer"
)

// NewTimerManagerArg holds the arguments for creating a new TimerManager
type NewTimerManagerArg struct {
	Model     *UIModel
	Store     storage.TimerStateStore
	Projector background.Projector
	Cues      CueNotifier
	Clock     clock.Clock
	Settings  config.Settings
	Logger    *log.Logger
}

// TimerManager drives the timer state machine from the wall clock while the
// UI is in the foreground, and hands over to the background projector when
// it is not.
type TimerManager struct {
	model     *UIModel
	store     storage.TimerStateStore
	projector background.Projector
	cues      CueNotifier
	clock     clock.Clock
	settings  config.Settings
	logger    *log.Logger

	// opMu serializes operations so that published states stay in order
	opMu sync.Mutex

	// Current timer state (protected by mu)
	mu             sync.RWMutex
	loaded         bool
	presetName     string
	config         timer.Config
	snapshot       timer.Snapshot
	lastTick       time.Time // zero while not running
	background     bool
	backgroundedAt time.Time
	cueTracker     timer.CueTracker

	// Goroutine management
	wantTicking  atomic.Bool
	cmdChan      chan struct{} // wakes the loop to match the ticker to wantTicking
	doneChan     chan struct{} // Closed to signal shutdown
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewTimerManager creates a new TimerManager with no timer loaded
func NewTimerManager(args NewTimerManagerArg) *TimerManager {
	if args.Model == nil {
		panic("TimerManager: model cannot be nil")
	}
	if args.Store == nil {
		panic("TimerManager: store cannot be nil")
	}
	if args.Projector == nil {
		panic("TimerManager: projector cannot be nil")
	}
	if args.Cues == nil {
		panic("TimerManager: cues cannot be nil")
	}
	if args.Clock == nil {
		panic("TimerManager: clock cannot be nil")
	}
	if args.Logger == nil {
		panic("TimerManager: logger cannot be nil")
	}

	wm := &TimerManager{
		model:     args.Model,
		store:     args.Store,
		projector: args.Projector,
		cues:      args.Cues,
		clock:     args.Clock,
		settings:  args.Settings,
		logger:    args.Logger,
		cmdChan:   make(chan struct{}, 1),
		doneChan:  make(chan struct{}),
	}

	wm.wg.Add(1)
	go_func_utils.SafeGo(wm.logger, func() { wm.runTimerLoop() })

	return wm
}

// transition is the outcome of applying a new snapshot: the states to
// publish in order and the cues they triggered.
type transition struct {
	states  []TimerState
	cues    []timer.CueKind
	ticking bool
}

type tickResult struct {
	transition
	skip bool // nothing to publish this tick
}

// Load starts cfg from the beginning. With resume set, a persisted timer for
// the same configuration is picked up where it is now instead. A persisted
// timer for a different configuration is discarded.
func (wm *TimerManager) Load(presetName string, cfg timer.Config, resume bool) {
	wm.opMu.Lock()
	defer wm.opMu.Unlock()

	wm.projector.Stop()

	stored, hasStored := wm.store.Read()

	t, resumed := func() (transition, bool) {
		wm.mu.Lock()
		defer wm.mu.Unlock()

		now := wm.clock.Now()
		wm.loaded = true
		wm.presetName = presetName
		wm.config = cfg
		wm.snapshot = timer.Snapshot{}
		wm.background = false
		wm.cueTracker.Forget()

		next := timer.Initial(cfg)
		resumed := false
		if resume && hasStored && timer.SameConfig(stored.Config, cfg) {
			if live := stored.Live(now); !live.IsFinished() {
				next = live
				resumed = true
			}
		}
		return wm.apply(next, now, true), resumed
	}()

	if hasStored && !resumed {
		if err := wm.store.Clear(); err != nil {
			wm.logger.Printf("TimerManager: Failed to clear stored timer: %v", err)
		}
	}

	if resumed {
		wm.logger.Printf("TimerManager: Resumed stored timer (%d sets)", cfg.Sets)
	} else {
		wm.logger.Printf("TimerManager: Loaded %d x %ds / %ds", cfg.Sets, cfg.ExerciseSeconds, cfg.RestSeconds)
	}
	wm.publish(t)
}

// State returns the current timer state
func (wm *TimerManager) State() TimerState {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return wm.buildState()
}

// TogglePause pauses a running timer, resumes a paused one, continues a
// holding one and restarts a finished one.
func (wm *TimerManager) TogglePause() {
	switch wm.State().Snapshot.Status() {
	case timer.StatusRunning:
		wm.Pause()
	case timer.StatusPaused:
		wm.Resume()
	case timer.StatusHolding:
		wm.Continue()
	case timer.StatusDone:
		wm.Reset()
	}
}

func (wm *TimerManager) Pause() {
	wm.command("Pause", func(s timer.Snapshot, _ timer.Config) timer.Snapshot { return timer.Pause(s) }, false)
}

func (wm *TimerManager) Resume() {
	wm.command("Resume", func(s timer.Snapshot, _ timer.Config) timer.Snapshot { return timer.Resume(s) }, false)
}

// Continue confirms a holding timer into its pending phase
func (wm *TimerManager) Continue() {
	wm.command("Continue", func(s timer.Snapshot, _ timer.Config) timer.Snapshot { return timer.ContinueFromHold(s) }, true)
}

func (wm *TimerManager) Skip() {
	wm.command("Skip", timer.Skip, true)
}

// Reset restarts the loaded configuration from prep
func (wm *TimerManager) Reset() {
	wm.command("Reset", func(_ timer.Snapshot, c timer.Config) timer.Snapshot { return timer.Reset(c) }, true)
}

// ResetExercise restarts the exercise of the current set
func (wm *TimerManager) ResetExercise() {
	wm.command("ResetExercise", timer.ResetCurrentExercise, true)
}

// OnBackground persists the timer and hands it to the projector. The
// foreground clock stops until OnForeground.
func (wm *TimerManager) OnBackground(ctx context.Context) {
	wm.opMu.Lock()
	defer wm.opMu.Unlock()

	state, view, ok := func() (storage.StoredTimerState, TimerState, bool) {
		wm.mu.Lock()
		defer wm.mu.Unlock()

		if !wm.loaded || wm.background {
			return storage.StoredTimerState{}, TimerState{}, false
		}
		now := wm.clock.Now()
		wm.background = true
		wm.backgroundedAt = now
		wm.lastTick = time.Time{}
		return storage.StoredTimerState{Config: wm.config, Snapshot: wm.snapshot, UpdatedAt: now}, wm.buildState(), true
	}()
	if !ok {
		return
	}

	wm.setTicking(false)

	if err := wm.store.Persist(state); err != nil {
		wm.logger.Printf("TimerManager: Failed to persist timer state: %v", err)
	}
	if state.Snapshot.IsRunning() {
		if err := wm.projector.Start(ctx, state); err != nil {
			wm.logger.Printf("TimerManager: Failed to start background projector: %v", err)
		}
	}

	wm.logger.Printf("TimerManager: Moved to background at %s", state.Snapshot)
	wm.model.SetTimerState(view)
}

// OnForeground withdraws the projector and adopts the persisted timer,
// which notification actions may have changed, fast-forwarded to now.
func (wm *TimerManager) OnForeground(ctx context.Context) {
	wm.opMu.Lock()
	defer wm.opMu.Unlock()

	if !wm.isBackground() {
		return
	}

	wm.projector.Stop()
	stored, hasStored := wm.store.Read()

	t := func() transition {
		wm.mu.Lock()
		defer wm.mu.Unlock()

		now := wm.clock.Now()
		wm.background = false

		own := storage.StoredTimerState{Config: wm.config, Snapshot: wm.snapshot, UpdatedAt: wm.backgroundedAt}
		next := own.Live(now)
		if hasStored && timer.SameConfig(stored.Config, wm.config) {
			next = stored.Live(now)
		}
		wm.logger.Printf("TimerManager: Back in foreground at %s", next)
		return wm.apply(next, now, true)
	}()

	wm.publish(t)
}

// Detach persists the timer for the background and action commands, without
// starting a projector. A finished timer is cleared instead.
func (wm *TimerManager) Detach() {
	wm.opMu.Lock()
	defer wm.opMu.Unlock()

	wm.mu.RLock()
	loaded := wm.loaded
	state := storage.StoredTimerState{Config: wm.config, Snapshot: wm.snapshot, UpdatedAt: wm.clock.Now()}
	if wm.background {
		state.UpdatedAt = wm.backgroundedAt
	}
	wm.mu.RUnlock()

	if !loaded {
		return
	}

	if state.Snapshot.IsFinished() {
		if err := wm.store.Clear(); err != nil {
			wm.logger.Printf("TimerManager: Failed to clear stored timer: %v", err)
		}
		return
	}
	if err := wm.store.Persist(state); err != nil {
		wm.logger.Printf("TimerManager: Failed to persist timer state: %v", err)
		return
	}
	wm.logger.Printf("TimerManager: Detached at %s", state.Snapshot)
}

// Shutdown stops the timer goroutine
// Safe to call multiple times - only the first call has effect
func (wm *TimerManager) Shutdown() {
	wm.shutdownOnce.Do(func() {
		wm.logger.Printf("TimerManager: Shutting down")
		close(wm.doneChan)
		wm.wg.Wait()
		wm.logger.Printf("TimerManager: Shutdown complete")
	})
}

// --- Private Methods ---

func (wm *TimerManager) isBackground() bool {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return wm.background
}

func (wm *TimerManager) command(name string, fn func(timer.Snapshot, timer.Config) timer.Snapshot, reanchor bool) {
	wm.opMu.Lock()
	defer wm.opMu.Unlock()

	t, ok := func() (transition, bool) {
		wm.mu.Lock()
		defer wm.mu.Unlock()

		if !wm.loaded {
			wm.logger.Printf("TimerManager: %s ignored, no timer loaded", name)
			return transition{}, false
		}
		if wm.background {
			wm.logger.Printf("TimerManager: %s ignored while in background", name)
			return transition{}, false
		}

		next := fn(wm.snapshot, wm.config)
		if next == wm.snapshot && !reanchor {
			return transition{}, false
		}
		wm.logger.Printf("TimerManager: %s: %s -> %s", name, wm.snapshot, next)
		return wm.apply(next, wm.clock.Now(), reanchor), true
	}()
	if !ok {
		return
	}
	wm.publish(t)
}

// apply moves to next, settling a zero-second boundary, and records what
// must be published.
// MUST be called with mu held.
func (wm *TimerManager) apply(next timer.Snapshot, now time.Time, reanchor bool) transition {
	prev := wm.snapshot

	steps := []timer.Snapshot{next}
	if settled := timer.Settle(next, wm.config); settled != next {
		steps = append(steps, settled)
	}

	var t transition
	for _, s := range steps {
		wm.snapshot = s
		if kind, ok := wm.cueTracker.Observe(s); ok {
			t.cues = append(t.cues, kind)
		}
		t.states = append(t.states, wm.buildState())
	}

	final := wm.snapshot
	switch {
	case !final.IsRunning():
		wm.lastTick = time.Time{}
	case reanchor || !prev.IsRunning() || wm.lastTick.IsZero():
		wm.lastTick = now
	}

	if final.Phase() != prev.Phase() || final.SetIndex() != prev.SetIndex() {
		wm.logger.Printf("TimerManager: Entered %s (set %d)", final.Phase(), timer.DisplaySet(final.SetIndex(), wm.config))
	}
	if final.IsFinished() && !prev.IsFinished() {
		wm.logger.Printf("TimerManager: Workout complete")
	}

	t.ticking = final.IsRunning() && !wm.background
	return t
}

// publish hands a transition to the model and the cue notifier.
// Called with opMu held and mu released.
func (wm *TimerManager) publish(t transition) {
	for _, state := range t.states {
		wm.model.SetTimerState(state)
	}
	for _, kind := range t.cues {
		wm.cues.PlayCue(kind)
	}
	wm.setTicking(t.ticking)
}

func (wm *TimerManager) setTicking(on bool) {
	if wm.wantTicking.Swap(on) == on {
		return
	}
	select {
	case wm.cmdChan <- struct{}{}:
	default:
	}
}

// buildState computes the state published to views.
// MUST be called with mu held (at least read lock).
func (wm *TimerManager) buildState() TimerState {
	status := wm.snapshot.Status()
	return TimerState{
		Loaded:     wm.loaded,
		PresetName: wm.presetName,
		Config:     wm.config,
		Snapshot:   wm.snapshot,
		Background: wm.background,
		KeepAwake: wm.loaded && !wm.background && wm.settings.KeepAwakeEnabled &&
			(status == timer.StatusRunning || status == timer.StatusHolding),
	}
}

// handleTick consumes the whole seconds elapsed since the last tick under
// lock and returns what to publish. The anchor only moves by the seconds
// consumed so the sub-second remainder carries over.
func (wm *TimerManager) handleTick(now time.Time) tickResult {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	if !wm.loaded || wm.background || !wm.snapshot.IsRunning() {
		return tickResult{skip: true}
	}
	if wm.lastTick.IsZero() {
		wm.lastTick = now
		return tickResult{skip: true}
	}

	elapsed := now.Sub(wm.lastTick)
	if elapsed < 0 {
		// Wall clock went backwards
		wm.lastTick = now
		return tickResult{skip: true}
	}
	if elapsed < time.Second {
		return tickResult{skip: true}
	}

	seconds := int(elapsed / time.Second)
	wm.lastTick = wm.lastTick.Add(time.Duration(seconds) * time.Second)

	next := timer.Advance(wm.snapshot, wm.config, seconds)
	if next == wm.snapshot {
		return tickResult{skip: true}
	}
	return tickResult{transition: wm.apply(next, now, false)}
}

func (wm *TimerManager) tick(now time.Time) {
	wm.opMu.Lock()
	defer wm.opMu.Unlock()

	result := wm.handleTick(now)
	if result.skip {
		return
	}
	wm.publish(result.transition)
}

// runTimerLoop is the goroutine that samples the clock while the timer runs
func (wm *TimerManager) runTimerLoop() {
	defer wm.wg.Done()

	ticker := time.NewTicker(tickInterval)
	ticker.Stop() // Start stopped, will be started when a timer runs
	running := false

	for {
		select {
		case <-wm.doneChan:
			ticker.Stop()
			wm.logger.Printf("TimerManager: Goroutine exiting")
			return

		case <-wm.cmdChan:
			want := wm.wantTicking.Load()
			if want == running {
				continue
			}
			running = want
			if running {
				ticker.Reset(tickInterval)
			} else {
				ticker.Stop()
			}

		case <-ticker.C:
			wm.tick(wm.clock.Now())
		}
	}
}
