package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/RubnSanchz/interval-timer/internal/background"
	"github.com/RubnSanchz/interval-timer/internal/config"
	"github.com/RubnSanchz/interval-timer/internal/storage"
)

var actionIDs = map[string]string{
	"pause": background.ActionPause,
	"skip":  background.ActionSkip,
}

var actionCmd = &cobra.Command{
	Use:       "action pause|skip",
	Short:     "Apply a notification action to the stored timer",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"pause", "skip"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		handler := background.NewActionHandler(a.store, storeOnlyProjector{logger: a.logger}, a.clock, a.logger)
		next, ok := handler.Handle(cmd.Context(), background.Response{ActionID: actionIDs[args[0]], Source: background.Source})
		if !ok {
			fmt.Println(yellow("Nothing to do: no stored timer."))
			return nil
		}

		stored, _ := a.store.Read()
		printSnapshot(next, stored.Config)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(actionCmd)
}

// storeOnlyProjector is the projector of a process that exits right after the
// action. The handler has already persisted the new state; a running
// `background` command polls it from the store.
type storeOnlyProjector struct {
	logger *log.Logger
}

func (p storeOnlyProjector) Start(_ context.Context, state storage.StoredTimerState) error {
	p.logger.Printf("Action: Stored %s, notifications follow from `%s background`", state.Snapshot, config.AppName)
	return nil
}

func (p storeOnlyProjector) Stop() {}
