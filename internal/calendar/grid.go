// Package calendar computes the visible calendar cells for a view and buckets
// scheduled projects into per-day morning/afternoon groups. Everything here is
// pure: no I/O, no caching, no shared state.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

type ViewMode string

const (
	ViewMonth    ViewMode = "month"
	ViewWeek     ViewMode = "week"
	ViewTwoWeeks ViewMode = "2weeks"
)

// ParseViewMode accepts the view names used by the dashboard.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "month":
		return ViewMonth, nil
	case "week":
		return ViewWeek, nil
	case "2weeks", "two-weeks", "twoweeks":
		return ViewTwoWeeks, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// Cell is one slot of the rendered grid. A zero Date marks an alignment gap.
type Cell struct {
	Date time.Time
}

func (c Cell) IsGap() bool {
	return c.Date.IsZero()
}

// ComputeVisibleDays returns the ordered cells to render for ref in the given view.
//
// Month view covers every day of ref's month; in full (non-compact) layout it is
// left-padded with gaps so day 1 lands in its column of a Monday-first grid.
// Week and two-week views start on the Monday of ref's week and never contain gaps.
func ComputeVisibleDays(ref time.Time, view ViewMode, compact bool) []Cell {
	ref = startOfDay(ref)

	switch view {
	case ViewWeek, ViewTwoWeeks:
		n := 7
		if view == ViewTwoWeeks {
			n = 14
		}
		monday := StartOfWeek(ref)
		cells := make([]Cell, 0, n)
		for i := 0; i < n; i++ {
			cells = append(cells, Cell{Date: monday.AddDate(0, 0, i)})
		}
		return cells
	}

	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	days := DaysIn(ref.Year(), ref.Month())

	pad := 0
	if !compact {
		pad = (int(first.Weekday()) + 6) % 7
	}

	cells := make([]Cell, 0, pad+days)
	for i := 0; i < pad; i++ {
		cells = append(cells, Cell{})
	}
	for d := 0; d < days; d++ {
		cells = append(cells, Cell{Date: first.AddDate(0, 0, d)})
	}
	return cells
}

// StartOfWeek returns midnight of the Monday of t's week. Sunday belongs to the
// week that started six days earlier.
func StartOfWeek(t time.Time) time.Time {
	t = startOfDay(t)
	wd := int(t.Weekday())
	if wd == 0 {
		return t.AddDate(0, 0, -6)
	}
	return t.AddDate(0, 0, -(wd - 1))
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// VisibleRange returns the first and last real dates of cells.
// ok is false when cells contains no dates.
func VisibleRange(cells []Cell) (from, to time.Time, ok bool) {
	for _, c := range cells {
		if c.IsGap() {
			continue
		}
		if !ok {
			from = c.Date
			ok = true
		}
		to = c.Date
	}
	return from, to, ok
}

// RecurrenceDates lists every date in [start, end] whose weekday is in weekdays.
func RecurrenceDates(start, end time.Time, weekdays []time.Weekday) []time.Time {
	start, end = startOfDay(start), startOfDay(end)
	if end.Before(start) || len(weekdays) == 0 {
		return nil
	}

	want := make(map[time.Weekday]bool, len(weekdays))
	for _, wd := range weekdays {
		want[wd] = true
	}

	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if want[d.Weekday()] {
			out = append(out, d)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDate(a time.Time, day, month, year int) bool {
	y, m, d := a.Date()
	return y == year && int(m) == month && d == day
}
