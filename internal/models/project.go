package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectType string
type Color string

const (
	ProjectRecurring ProjectType = "recurring"
	ProjectOneOff    ProjectType = "one-off"
)

// палитра цветовых меток в каталоге
const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"
	ColorPink   Color = "pink"
	ColorGray   Color = "gray"
)

var Palette = []Color{
	ColorBlue, ColorGreen, ColorRed, ColorYellow,
	ColorPurple, ColorOrange, ColorPink, ColorGray,
}

func (t ProjectType) Valid() bool {
	return t == ProjectRecurring || t == ProjectOneOff
}

func (c Color) Valid() bool {
	for _, p := range Palette {
		if p == c {
			return true
		}
	}
	return false
}

// Project is a catalog entry: a reusable service job that can be placed onto days.
type Project struct {
	gorm.Model
	UserID uint `gorm:"index;not null" json:"user_id"`

	Title   string          `gorm:"size:255;not null" json:"title"`
	Address string          `gorm:"size:255" json:"address"`
	Price   decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	Type    ProjectType     `gorm:"type:varchar(20);not null" json:"type"`
	Notes   string          `gorm:"type:text" json:"notes"`
	Color   Color           `gorm:"type:varchar(20);not null" json:"color"`

	// месяцы (1-12), в которые по проекту идёт мойка окон
	WindowCleaningMonths datatypes.JSONSlice[int] `gorm:"type:jsonb" json:"window_cleaning_months"`
}

// HasWindowCleaning reports whether month (1-12) is one of the project's window-cleaning months.
func (p *Project) HasWindowCleaning(month int) bool {
	for _, m := range p.WindowCleaningMonths {
		if m == month {
			return true
		}
	}
	return false
}
