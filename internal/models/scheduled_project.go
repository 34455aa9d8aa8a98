package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Section string

const (
	SectionMorning   Section = "morning"
	SectionAfternoon Section = "afternoon"
)

func (s Section) Valid() bool {
	return s == SectionMorning || s == SectionAfternoon
}

// ScheduledProject: размещение проекта из каталога на конкретный день.
// Project подгружается через Preload и может быть nil, если проект уже удалён.
type ScheduledProject struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`

	ProjectID uint     `gorm:"index;not null"`
	Project   *Project `gorm:"constraint:-"`

	Date      datatypes.Date `gorm:"type:date;index;not null"`
	Time      string         `gorm:"type:varchar(5)"`  // HH:MM или пусто
	Section   Section        `gorm:"type:varchar(16)"` // пусто = не задано
	Completed bool           `gorm:"not null;default:false"`
}

// Day returns the scheduled calendar date at midnight UTC.
func (sp *ScheduledProject) Day() time.Time {
	t := time.Time(sp.Date)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func DateOf(t time.Time) datatypes.Date {
	return datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}
