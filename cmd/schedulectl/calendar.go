package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"service-scheduler/internal/calendar"
	"service-scheduler/internal/database"
	"service-scheduler/internal/models"
)

var (
	calDate    string
	calView    string
	calCompact bool
	calDSN     string
	calUser    uint
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print the calendar grid for a date",
	Args:  cobra.NoArgs,
	RunE:  runCalendar,
}

func init() {
	calendarCmd.Flags().StringVar(&calDate, "date", "", "Reference date YYYY-MM-DD (default today)")
	calendarCmd.Flags().StringVar(&calView, "view", "month", "View: month, week or 2weeks")
	calendarCmd.Flags().BoolVar(&calCompact, "compact", false, "Compact layout without leading gaps")
	calendarCmd.Flags().StringVar(&calDSN, "dsn", "", "Postgres DSN to read the schedule from (requires --user)")
	calendarCmd.Flags().UintVar(&calUser, "user", 0, "User id whose schedule to show (requires --dsn)")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	ref := time.Now()
	if calDate != "" {
		t, err := time.Parse("2006-01-02", calDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		ref = t
	}

	view, err := calendar.ParseViewMode(calView)
	if err != nil {
		return err
	}
	if (calDSN == "") != (calUser == 0) {
		return errors.New("--dsn and --user must be given together")
	}

	var items []models.ScheduledProject
	if calDSN != "" {
		items, err = loadWindow(cmd.Context(), ref, view)
		if err != nil {
			return err
		}
	}

	printGrid(cmd.OutOrStdout(), calendar.BuildGrid(ref, view, calCompact, items))
	return nil
}

// loadWindow reads only the dates the view shows.
func loadWindow(ctx context.Context, ref time.Time, view calendar.ViewMode) ([]models.ScheduledProject, error) {
	from, to, ok := calendar.VisibleRange(calendar.ComputeVisibleDays(ref, view, true))
	if !ok {
		return nil, nil
	}

	// только чтение: схему не трогаем
	db, err := database.Connect(calDSN, zap.NewNop())
	if err != nil {
		return nil, err
	}
	defer database.Close(db)

	return database.NewStore(db).ListScheduled(ctx, calUser, &from, &to)
}

// printGrid prints one line per cell: the date, then morning and afternoon work.
func printGrid(w io.Writer, grid []calendar.DayView) {
	for _, d := range grid {
		if d.Gap {
			fmt.Fprintln(w, "          ·")
			continue
		}
		fmt.Fprintf(w, "%s %s", d.Date.Format("2006-01-02"), d.Date.Format("Mon"))
		if !d.Total.IsZero() {
			fmt.Fprintf(w, "  total %s", d.Total.StringFixed(2))
		}
		fmt.Fprintln(w)
		printHalf(w, "AM", d.Morning)
		printHalf(w, "PM", d.Afternoon)
	}
}

func printHalf(w io.Writer, label string, items []models.ScheduledProject) {
	for _, it := range items {
		tm := it.Time
		if tm == "" {
			tm = "--:--"
		}
		mark := " "
		if it.Completed {
			mark = "x"
		}
		extra := ""
		if it.Project.HasWindowCleaning(int(it.Day().Month())) {
			extra = " [windows]"
		}
		fmt.Fprintf(w, "    %s [%s] %s %s%s\n", label, mark, tm, strings.TrimSpace(it.Project.Title), extra)
	}
}
