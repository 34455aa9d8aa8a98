package database

import (
	"context"

	"service-scheduler/internal/models"
)

// WriteAudit records an action in the audit log. Failures are not fatal for the
// action itself, so the error is only returned for the caller to log.
func (s *Store) WriteAudit(ctx context.Context, userID uint, entity string, entityID uint, action, details string) error {
	record := models.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	return s.db.WithContext(ctx).Create(&record).Error
}

func (s *Store) ListAudit(ctx context.Context, userID uint, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
