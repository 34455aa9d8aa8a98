package calendar

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"service-scheduler/internal/models"
)

// окно выбора времени в форме: 06:00 - 22:45 с шагом 15 минут
const (
	firstSlotMinutes = 6 * 60
	lastSlotMinutes  = 22*60 + 45
	slotStep         = 15
)

var ErrInvalidTime = errors.New("time must be HH:MM in 15 minute steps between 06:00 and 22:45")

// BucketScheduledItems keeps the items placed on the given calendar date.
// Items whose project could not be resolved are dropped.
func BucketScheduledItems(items []models.ScheduledProject, day, month, year int) []models.ScheduledProject {
	var out []models.ScheduledProject
	for _, it := range items {
		if it.Project == nil {
			continue
		}
		if sameDate(it.Day(), day, month, year) {
			out = append(out, it)
		}
	}
	return out
}

// SplitAndSortByTimeOfDay partitions items into morning and afternoon and orders
// each side by time of day. Untimed items go last, keeping their input order.
func SplitAndSortByTimeOfDay(items []models.ScheduledProject) (morning, afternoon []models.ScheduledProject) {
	for _, it := range items {
		if sectionOf(it) == models.SectionAfternoon {
			afternoon = append(afternoon, it)
		} else {
			morning = append(morning, it)
		}
	}
	sortByTime(morning)
	sortByTime(afternoon)
	return morning, afternoon
}

// DeriveSectionFromTime maps HH:MM to a half-day section. Anything that does not
// parse counts as morning.
func DeriveSectionFromTime(t string) models.Section {
	h, _, ok := parseClock(t)
	if ok && h >= 12 {
		return models.SectionAfternoon
	}
	return models.SectionMorning
}

// ValidateTime checks a time picked at the editing boundary. Empty means unscheduled.
func ValidateTime(t string) error {
	if t == "" {
		return nil
	}
	if !isClock(t) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, t)
	}
	h, m, ok := parseClock(t)
	if !ok || m%slotStep != 0 {
		return fmt.Errorf("%w: %q", ErrInvalidTime, t)
	}
	mins := h*60 + m
	if mins < firstSlotMinutes || mins > lastSlotMinutes {
		return fmt.Errorf("%w: %q", ErrInvalidTime, t)
	}
	return nil
}

// TimeSlots lists the selectable times in ascending order.
func TimeSlots() []string {
	slots := make([]string, 0, (lastSlotMinutes-firstSlotMinutes)/slotStep+1)
	for m := firstSlotMinutes; m <= lastSlotMinutes; m += slotStep {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

// явно заданная секция всегда важнее времени
func sectionOf(it models.ScheduledProject) models.Section {
	switch it.Section {
	case models.SectionAfternoon:
		return models.SectionAfternoon
	case "":
		if it.Time != "" {
			return DeriveSectionFromTime(it.Time)
		}
	}
	return models.SectionMorning
}

func sortByTime(items []models.ScheduledProject) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Time, items[j].Time
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a < b
	})
}

func parseClock(t string) (hour, minute int, ok bool) {
	hs, ms, found := strings.Cut(strings.TrimSpace(t), ":")
	if !found || len(hs) == 0 || len(hs) > 2 || len(ms) != 2 {
		return 0, 0, false
	}
	if !digits(hs) || !digits(ms) {
		return 0, 0, false
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// isClock reports whether t is exactly two digits, a colon and two digits.
func isClock(t string) bool {
	return len(t) == 5 && t[2] == ':' && digits(t[:2]) && digits(t[3:])
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
