package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-scheduler/internal/calendar"
	"service-scheduler/internal/models"
)

func TestPrintGrid(t *testing.T) {
	p := &models.Project{Title: "Shop front", Price: decimal.NewFromInt(25), WindowCleaningMonths: []int{3}}
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	items := []models.ScheduledProject{
		{Project: p, Date: models.DateOf(day), Time: "13:00"},
		{Project: p, Date: models.DateOf(day), Time: "08:30", Completed: true},
	}

	var buf bytes.Buffer
	printGrid(&buf, calendar.BuildGrid(day, calendar.ViewWeek, false, items))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7+2)
	assert.Equal(t, "2024-03-04 Mon  total 50.00", lines[0])
	assert.Equal(t, "    AM [x] 08:30 Shop front [windows]", lines[1])
	assert.Equal(t, "    PM [ ] 13:00 Shop front [windows]", lines[2])
	assert.Equal(t, "2024-03-05 Tue", lines[3])
}

func TestPrintGrid_Gaps(t *testing.T) {
	var buf bytes.Buffer
	printGrid(&buf, calendar.BuildGrid(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), calendar.ViewMonth, false, nil))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4+31)
	for i := 0; i < 4; i++ {
		assert.Contains(t, lines[i], "·")
	}
	assert.True(t, strings.HasPrefix(lines[4], "2024-03-01 Fri"))
}

func TestPrintSlots(t *testing.T) {
	var buf bytes.Buffer
	printSlots(&buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 68)
	assert.Equal(t, "06:00  morning", lines[0])
	assert.Equal(t, "12:00  afternoon", lines[24])
}

func setCalendarFlags(t *testing.T, date, view, dsn string, user uint) {
	t.Helper()
	oldDate, oldView, oldDSN, oldUser := calDate, calView, calDSN, calUser
	t.Cleanup(func() { calDate, calView, calDSN, calUser = oldDate, oldView, oldDSN, oldUser })
	calDate, calView, calDSN, calUser = date, view, dsn, user
}

func TestRunCalendar_DSNRequiresUser(t *testing.T) {
	setCalendarFlags(t, "2024-03-15", "week", "postgres://localhost/scheduler", 0)
	err := runCalendar(calendarCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--user")

	setCalendarFlags(t, "2024-03-15", "week", "", 7)
	assert.Error(t, runCalendar(calendarCmd, nil))
}

func TestRunCalendar_Offline(t *testing.T) {
	setCalendarFlags(t, "2024-03-15", "week", "", 0)
	var buf bytes.Buffer
	calendarCmd.SetOut(&buf)
	t.Cleanup(func() { calendarCmd.SetOut(nil) })

	require.NoError(t, runCalendar(calendarCmd, nil))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "2024-03-11 Mon", lines[0])
}
