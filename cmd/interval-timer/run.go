package main

import (
	"github.com/rivo/tview"
	"github.com/spf13/cobra"

	"github.com/RubnSanchz/interval-timer/internal/background"
	"github.com/RubnSanchz/interval-timer/internal/presets"
	"github.com/RubnSanchz/interval-timer/internal/workout"
)

var runPreset string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the terminal timer, resuming the stored timer when it matches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, runPreset, true)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runPreset, "preset", "p", "", "preset id or name to load instead of the configured timer")
}

// runTUI opens the terminal UI with presetRef, or the configured timer when
// presetRef is empty. A stored timer with the same config is resumed when
// resume is set.
func runTUI(cmd *cobra.Command, presetRef string, resume bool) error {
	uiLines := make(chan string, 256)
	a, err := newApp(cmd, appOptions{UILines: uiLines})
	if err != nil {
		return err
	}
	defer a.Close()

	name, presetID, cfg := "", "", a.cfg.Timer
	if presetRef != "" {
		list, err := a.presets.List(cmd.Context())
		if err != nil {
			return err
		}
		p, err := presets.Find(list, presetRef)
		if err != nil {
			return err
		}
		name, presetID, cfg = p.Name, p.ID, p.Config
	}

	model := workout.NewUIModel(a.cfg.DataDir, a.logger, uiLines)
	defer model.Shutdown()

	unlisten := a.scheduler.Listen(model.ApplyDelivery)
	defer unlisten()

	projector := background.NewProjector(a.cfg.Background, background.Capabilities{LongLived: true}, a.deps())
	defer projector.Stop()

	feedback := workout.NewFeedbackNotifier(a.cfg.Feedback, a.logger)
	timerManager := workout.NewTimerManager(workout.NewTimerManagerArg{
		Model:     model,
		Store:     a.store,
		Projector: projector,
		Cues:      feedback,
		Clock:     a.clock,
		Settings:  a.cfg.Feedback,
		Logger:    a.logger,
	})

	actions := background.NewActionHandler(a.store, projector, a.clock, a.logger)
	controller := workout.NewUIController(model, timerManager, a.presets, actions, a.clock, a.logger)
	defer controller.Shutdown()

	view := workout.NewCursesUIView(a.logger, tview.NewApplication(), model)
	feedback.SetBeeper(view)

	base := workout.NewBaseUIView(workout.NewBaseUIViewArg{
		UIViewImpl:   view,
		UIModel:      model,
		UIController: controller,
		Logger:       a.logger,
	})
	defer base.Shutdown()

	controller.RefreshPresets()
	if presetID != "" {
		model.SetSelectedPreset(presetID)
	}
	timerManager.Load(name, cfg, resume)

	err = base.Run()
	// Ctrl+C stops tview without going through OnEscapeKey
	timerManager.Detach()
	return err
}
