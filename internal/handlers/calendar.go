package handlers

import (
	"net/http"
	"strconv"
	"time"

	"service-scheduler/internal/calendar"

	"github.com/gin-gonic/gin"
)

type dayView struct {
	Date      string          `json:"date,omitempty"`
	Gap       bool            `json:"gap"`
	Morning   []scheduledItem `json:"morning"`
	Afternoon []scheduledItem `json:"afternoon"`
	Total     string          `json:"total"`
}

type calendarResponse struct {
	Date    string    `json:"date"`
	View    string    `json:"view"`
	Compact bool      `json:"compact"`
	Days    []dayView `json:"days"`
}

// Calendar renders the grid for the requested view from the user's working set.
func (h *Handler) Calendar(c *gin.Context) {
	ref := h.now()
	if v := c.Query("date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		ref = t
	}
	ref = time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	view, err := calendar.ParseViewMode(c.Query("view"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	compact := false
	if v := c.Query("compact"); v != "" {
		compact, err = strconv.ParseBool(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "compact must be a boolean")
			return
		}
	}

	items, err := h.cache.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err, "failed to load schedule")
		return
	}

	grid := calendar.BuildGrid(ref, view, compact, items)
	days := make([]dayView, 0, len(grid))
	for _, d := range grid {
		if d.Gap {
			days = append(days, dayView{Gap: true, Morning: []scheduledItem{}, Afternoon: []scheduledItem{}, Total: "0.00"})
			continue
		}
		days = append(days, dayView{
			Date:      d.Date.Format(dateLayout),
			Morning:   toItems(d.Morning),
			Afternoon: toItems(d.Afternoon),
			Total:     d.Total.StringFixed(2),
		})
	}

	c.JSON(http.StatusOK, calendarResponse{
		Date:    ref.Format(dateLayout),
		View:    string(view),
		Compact: compact,
		Days:    days,
	})
}

func (h *Handler) TimeSlots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"slots": calendar.TimeSlots()})
}
