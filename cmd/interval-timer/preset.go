package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RubnSanchz/interval-timer/internal/presets"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage saved timer configurations",
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := a.presets.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println(yellow("No presets saved yet. Use `preset save <name>`."))
			return nil
		}

		printHeader("Presets")
		for _, p := range list {
			fmt.Printf("%s  %s  %s\n", green(p.Name), presets.Describe(p.Config), gray(p.ID))
		}
		return nil
	},
}

var presetSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the timer given by --sets, --exercise, --rest and the auto flags",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := presets.New(presets.Input{Name: strings.Join(args, " "), Config: a.cfg.Timer}, a.clock.Now())
		if err != nil {
			return err
		}
		if err := a.presets.Save(cmd.Context(), p); err != nil {
			return err
		}
		fmt.Printf("Saved %s (%s)\n", green(p.Name), presets.Describe(p.Config))
		return nil
	},
}

var presetRemoveCmd = &cobra.Command{
	Use:   "remove <id|name>",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := a.presets.List(cmd.Context())
		if err != nil {
			return err
		}
		p, err := presets.Find(list, args[0])
		if err != nil {
			return err
		}
		if err := a.presets.Remove(cmd.Context(), p.ID); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", green(p.Name))
		return nil
	},
}

var presetStartCmd = &cobra.Command{
	Use:   "start <id|name>",
	Short: "Open the terminal timer with a preset, starting from the beginning",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args[0], false)
	},
}

func init() {
	rootCmd.AddCommand(presetCmd)
	presetCmd.AddCommand(presetListCmd, presetSaveCmd, presetRemoveCmd, presetStartCmd)
}
