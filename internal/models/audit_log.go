package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uint `gorm:"index" json:"user_id"`

	Entity   string `gorm:"size:50;not null" json:"entity"` // "project", "scheduled_project"
	EntityID uint   `json:"entity_id"`
	Action   string `gorm:"size:50;not null" json:"action"` // "create", "move", "complete" и т.п.
	Details  string `gorm:"type:text" json:"details"`
}
