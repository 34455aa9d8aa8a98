package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"service-scheduler/internal/calendar"
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List the time slots offered by the time picker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printSlots(cmd.OutOrStdout())
		return nil
	},
}

func printSlots(w io.Writer) {
	for _, s := range calendar.TimeSlots() {
		fmt.Fprintf(w, "%s  %s\n", s, calendar.DeriveSectionFromTime(s))
	}
}
