package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/RubnSanchz/interval-timer/internal/background"
	"github.com/RubnSanchz/interval-timer/internal/timer"
)

var backgroundCmd = &cobra.Command{
	Use:   "background",
	Short: "Follow the stored timer headlessly, posting notifications until it pauses or ends",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		stored, ok := a.store.Read()
		if !ok {
			fmt.Println(yellow("No stored timer. Start one with `run` and quit while it is running."))
			return nil
		}
		live := stored.Live(a.clock.Now())
		printSnapshot(live, stored.Config)
		switch live.Status() {
		case timer.StatusPaused, timer.StatusDone:
			return nil
		}

		unlisten := a.scheduler.Listen(printDelivery)
		defer unlisten()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		projector := background.NewPollingProjector(a.deps())
		if err := projector.Start(ctx, stored); err != nil {
			return err
		}
		defer projector.Stop()

		select {
		case <-ctx.Done():
			a.logger.Printf("Background: Interrupted")
		case <-projector.Done():
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backgroundCmd)
}
