package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/RubnSanchz/interval-timer/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           config.AppName,
	Short:         "Interval workout timer with presets and background notifications",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
