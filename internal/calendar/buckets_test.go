package calendar

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-scheduler/internal/models"
)

var window = &models.Project{Title: "Window cleaning", Price: decimal.NewFromInt(40)}

func item(id uint, day time.Time, tm string, section models.Section) models.ScheduledProject {
	sp := models.ScheduledProject{
		ProjectID: 1,
		Project:   window,
		Date:      models.DateOf(day),
		Time:      tm,
		Section:   section,
	}
	sp.ID = id
	return sp
}

func ids(items []models.ScheduledProject) []uint {
	out := make([]uint, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestBucketScheduledItems_ExactDateOnly(t *testing.T) {
	items := []models.ScheduledProject{
		item(1, date(2024, 3, 15), "", ""),
		item(2, date(2024, 4, 15), "", ""), // тот же день месяца, другой месяц
		item(3, date(2023, 3, 15), "", ""), // другой год
		item(4, date(2024, 3, 16), "", ""),
		item(5, date(2024, 3, 15), "10:00", ""),
	}

	got := BucketScheduledItems(items, 15, 3, 2024)
	assert.Equal(t, []uint{1, 5}, ids(got))
}

func TestBucketScheduledItems_SkipsUnresolvedProject(t *testing.T) {
	orphan := item(2, date(2024, 3, 15), "", "")
	orphan.Project = nil

	got := BucketScheduledItems([]models.ScheduledProject{item(1, date(2024, 3, 15), "", ""), orphan}, 15, 3, 2024)
	assert.Equal(t, []uint{1}, ids(got))
}

func TestSplitAndSortByTimeOfDay_Scenario(t *testing.T) {
	day := date(2024, 3, 15)
	items := []models.ScheduledProject{
		item(1, day, "14:00", ""),
		item(2, day, "09:00", ""),
		item(3, day, "", ""),
		item(4, day, "09:15", ""),
	}

	morning, afternoon := SplitAndSortByTimeOfDay(items)
	assert.Equal(t, []uint{2, 4, 3}, ids(morning))
	assert.Equal(t, []uint{1}, ids(afternoon))
}

func TestSplitAndSortByTimeOfDay_ExplicitSectionWins(t *testing.T) {
	day := date(2024, 3, 15)
	items := []models.ScheduledProject{
		item(1, day, "08:00", models.SectionAfternoon),
		item(2, day, "15:00", models.SectionMorning),
		item(3, day, "", models.SectionAfternoon),
		item(4, day, "13:00", "evening"), // неизвестная секция -> утро
	}

	morning, afternoon := SplitAndSortByTimeOfDay(items)
	assert.Equal(t, []uint{4, 2}, ids(morning))
	assert.Equal(t, []uint{1, 3}, ids(afternoon))
}

func TestSplitAndSortByTimeOfDay_StableAndIdempotent(t *testing.T) {
	day := date(2024, 3, 15)
	items := []models.ScheduledProject{
		item(1, day, "", ""),
		item(2, day, "10:00", ""),
		item(3, day, "", ""),
		item(4, day, "10:00", ""),
		item(5, day, "07:30", ""),
		item(6, day, "12:00", ""),
		item(7, day, "12:00", ""),
	}

	morning, afternoon := SplitAndSortByTimeOfDay(items)
	assert.Equal(t, []uint{5, 2, 4, 1, 3}, ids(morning))
	assert.Equal(t, []uint{6, 7}, ids(afternoon))

	m2, a2 := SplitAndSortByTimeOfDay(append(append([]models.ScheduledProject{}, morning...), afternoon...))
	assert.Equal(t, ids(morning), ids(m2))
	assert.Equal(t, ids(afternoon), ids(a2))
}

func TestBucketThenSplit_NeverDropsOrDuplicates(t *testing.T) {
	var items []models.ScheduledProject
	times := []string{"", "06:00", "11:45", "12:00", "22:45", "09:30"}
	sections := []models.Section{"", models.SectionMorning, models.SectionAfternoon}
	id := uint(1)
	for d := 1; d <= 10; d++ {
		for i, tm := range times {
			items = append(items, item(id, date(2024, 3, d), tm, sections[(i+d)%len(sections)]))
			id++
		}
	}

	seen := map[uint]int{}
	for d := 1; d <= 10; d++ {
		dayItems := BucketScheduledItems(items, d, 3, 2024)
		require.Len(t, dayItems, len(times))
		morning, afternoon := SplitAndSortByTimeOfDay(dayItems)
		require.Equal(t, len(dayItems), len(morning)+len(afternoon))
		for _, it := range append(morning, afternoon...) {
			seen[it.ID]++
		}
	}
	require.Len(t, seen, len(items))
	for id, n := range seen {
		assert.Equal(t, 1, n, "item %d", id)
	}
}

func TestDeriveSectionFromTime(t *testing.T) {
	cases := map[string]models.Section{
		"06:00": models.SectionMorning,
		"11:45": models.SectionMorning,
		"12:00": models.SectionAfternoon,
		"22:45": models.SectionAfternoon,
		"":      models.SectionMorning,
		"bogus": models.SectionMorning,
		"25:00": models.SectionMorning,
	}
	for in, want := range cases {
		assert.Equal(t, want, DeriveSectionFromTime(in), in)
	}
}

func TestValidateTime(t *testing.T) {
	for _, ok := range []string{"", "06:00", "09:15", "12:30", "22:45"} {
		assert.NoError(t, ValidateTime(ok), ok)
	}
	for _, bad := range []string{"05:45", "23:00", "09:10", "9:00", "09:00:00", "ab:cd", "24:00",
		"+9:00", " 9:00", "09:+0", "+9:15", "9:00 ", "09-00", "０9:00"} {
		err := ValidateTime(bad)
		require.Error(t, err, bad)
		assert.ErrorIs(t, err, ErrInvalidTime)
	}
}

func TestDeriveSectionFromTime_RejectsSigns(t *testing.T) {
	assert.Equal(t, models.SectionMorning, DeriveSectionFromTime("+13:00"))
	assert.Equal(t, models.SectionMorning, DeriveSectionFromTime("13:+0"))
}

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots()
	require.Len(t, slots, 68)
	assert.Equal(t, "06:00", slots[0])
	assert.Equal(t, "06:15", slots[1])
	assert.Equal(t, "22:45", slots[len(slots)-1])
	for _, s := range slots {
		assert.NoError(t, ValidateTime(s))
	}
}

func TestBuildGrid(t *testing.T) {
	items := []models.ScheduledProject{
		item(1, date(2024, 3, 1), "14:00", ""),
		item(2, date(2024, 3, 1), "08:00", ""),
		item(3, date(2024, 2, 29), "08:00", ""),
	}

	grid := BuildGrid(date(2024, 3, 1), ViewMonth, false, items)
	require.Len(t, grid, 35)
	for i := 0; i < 4; i++ {
		assert.True(t, grid[i].Gap)
	}

	first := grid[4]
	assert.Equal(t, date(2024, 3, 1), first.Date)
	assert.Equal(t, []uint{2}, ids(first.Morning))
	assert.Equal(t, []uint{1}, ids(first.Afternoon))
	assert.True(t, decimal.NewFromInt(80).Equal(first.Total))

	assert.Empty(t, grid[5].Morning)
	assert.True(t, grid[5].Total.IsZero())
}
