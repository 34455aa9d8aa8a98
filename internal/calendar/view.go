package calendar

import (
	"time"

	"github.com/shopspring/decimal"

	"service-scheduler/internal/models"
)

// DayView is a rendered grid cell with its scheduled work split by half-day.
type DayView struct {
	Date      time.Time
	Gap       bool
	Morning   []models.ScheduledProject
	Afternoon []models.ScheduledProject
	Total     decimal.Decimal
}

// BuildGrid computes the visible cells for ref and fills each real day from items.
// items is the whole working set; every call recomputes from scratch.
func BuildGrid(ref time.Time, view ViewMode, compact bool, items []models.ScheduledProject) []DayView {
	cells := ComputeVisibleDays(ref, view, compact)
	out := make([]DayView, 0, len(cells))

	for _, c := range cells {
		if c.IsGap() {
			out = append(out, DayView{Gap: true})
			continue
		}
		y, m, d := c.Date.Date()
		dayItems := BucketScheduledItems(items, d, int(m), y)
		morning, afternoon := SplitAndSortByTimeOfDay(dayItems)

		total := decimal.Zero
		for _, it := range dayItems {
			total = total.Add(it.Project.Price)
		}

		out = append(out, DayView{
			Date:      c.Date,
			Morning:   morning,
			Afternoon: afternoon,
			Total:     total,
		})
	}
	return out
}
