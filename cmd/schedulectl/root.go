package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "schedulectl",
	Short: "Inspect the service schedule from the command line",
	Long: `schedulectl prints calendar grids the way the dashboard lays them out.
Without a database it prints empty grids; with --dsn it fills them from a user's schedule.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(slotsCmd)
}
