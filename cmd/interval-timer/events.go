package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/RubnSanchz/interval-timer/internal/background"
	"github.com/RubnSanchz/interval-timer/internal/timer"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print the upcoming phase boundaries of the stored timer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		stored, ok := a.store.Read()
		if !ok {
			fmt.Println(yellow("No stored timer."))
			return nil
		}

		now := a.clock.Now()
		live := stored.Live(now)
		printHeader("Timer")
		printSnapshot(live, stored.Config)

		evs := background.BuildPhaseEvents(live, stored.Config)
		if len(evs) == 0 {
			fmt.Println(gray("No upcoming boundaries: the timer is not running."))
			return nil
		}

		fmt.Println()
		printHeader("Upcoming")
		for _, ev := range evs {
			at := now.Add(time.Duration(ev.OffsetSeconds) * time.Second)
			fmt.Printf("%s %s %-6s %s %s set %d/%d\n",
				gray(at.Format("15:04:05")),
				yellow(fmt.Sprintf("+%s", timer.FormatClock(ev.OffsetSeconds))),
				ev.Kind,
				phaseText(ev.Phase),
				timer.FormatClock(ev.Remaining),
				timer.DisplaySet(ev.SetIndex, stored.Config), stored.Config.Sets)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
