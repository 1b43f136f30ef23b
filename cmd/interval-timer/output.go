package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/RubnSanchz/interval-timer/internal/background"
	"github.com/RubnSanchz/interval-timer/internal/timer"
)

var (
	boldCyan = color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow   = color.New(color.FgYellow).SprintFunc()
	green    = color.New(color.FgGreen).SprintFunc()
	magenta  = color.New(color.FgMagenta).SprintFunc()
	gray     = color.New(color.FgHiBlack).SprintFunc()
)

func printHeader(title string) {
	fmt.Println(boldCyan(title))
	fmt.Println(boldCyan(strings.Repeat("=", len(title))))
}

func phaseText(p timer.Phase) string {
	label := timer.PhaseLabel(p)
	switch p {
	case timer.PhaseExercise:
		return color.RedString(label)
	case timer.PhaseRest:
		return green(label)
	case timer.PhasePrep:
		return yellow(label)
	default:
		return color.BlueString(label)
	}
}

// printSnapshot writes one line describing s, e.g. "Ejercicio 00:12 set 2/5 (running)"
func printSnapshot(s timer.Snapshot, c timer.Config) {
	fmt.Printf("%s %s set %d/%d %s\n",
		phaseText(s.Phase()), timer.FormatClock(s.Remaining()),
		timer.DisplaySet(s.SetIndex(), c), c.Sets, gray("("+string(s.Status())+")"))
}

// printDelivery is the headless stand-in for the system notification tray
func printDelivery(d background.Delivery) {
	if d.Removed {
		fmt.Println(gray("dismissed " + d.Notification.ID))
		return
	}
	fmt.Printf("%s %s\n", magenta("["+d.Notification.Title+"]"), d.Notification.Body)
}
