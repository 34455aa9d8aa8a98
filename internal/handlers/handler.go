package handlers

import (
	"context"
	"time"

	"service-scheduler/internal/database"
	"service-scheduler/internal/metrics"
	"service-scheduler/internal/models"
	"service-scheduler/internal/notify"
	"service-scheduler/internal/workingset"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Store is the part of the data store the API needs.
type Store interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByName(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error

	ListProjects(ctx context.Context, userID uint, f database.ProjectFilter) ([]models.Project, error)
	GetProject(ctx context.Context, userID, id uint) (*models.Project, error)
	CreateProject(ctx context.Context, p *models.Project) error
	UpdateProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, userID, id uint) error

	ListScheduled(ctx context.Context, userID uint, from, to *time.Time) ([]models.ScheduledProject, error)
	GetScheduled(ctx context.Context, userID, id uint) (*models.ScheduledProject, error)
	CreateScheduled(ctx context.Context, sp *models.ScheduledProject) error
	CreateScheduledBatch(ctx context.Context, items []models.ScheduledProject) error
	UpdateScheduled(ctx context.Context, userID, id uint, patch database.ScheduledPatch) (*models.ScheduledProject, error)
	DeleteScheduled(ctx context.Context, userID, id uint) error

	WriteAudit(ctx context.Context, userID uint, entity string, entityID uint, action, details string) error
	ListAudit(ctx context.Context, userID uint, limit int) ([]models.AuditLog, error)
}

type Handler struct {
	store     Store
	cache     *workingset.Cache
	notifier  notify.Notifier
	logger    *zap.Logger
	jwtSecret string
	now       func() time.Time
}

func New(store Store, cache *workingset.Cache, notifier notify.Notifier, logger *zap.Logger, jwtSecret string) *Handler {
	return &Handler{
		store:     store,
		cache:     cache,
		notifier:  notifier,
		logger:    logger,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

// WithClock replaces the clock used for "today" and token issue time.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// changed runs after a successful mutation: the audit record, the metric and
// the change notification. None of them can fail the request.
func (h *Handler) changed(c *gin.Context, table string, entityID uint, action, details string) {
	h.changedAs(c, table, table, entityID, action, details)
}

// changedAs is changed with an audit entity that differs from the changed table.
func (h *Handler) changedAs(c *gin.Context, table, entity string, entityID uint, action, details string) {
	ctx := c.Request.Context()
	uid := currentUserID(c)
	log := h.log(c)

	metrics.IncMutation(table, action)

	if err := h.store.WriteAudit(ctx, uid, entity, entityID, action, details); err != nil {
		log.Warn("failed to write audit log", zap.String("entity", entity), zap.Uint("entity_id", entityID), zap.Error(err))
	}

	// свой снимок сбрасываем сразу, чтобы следующий запрос увидел изменение
	h.cache.Invalidate(uid)

	if err := h.notifier.Publish(ctx, notify.Change{Table: table, UserID: uid, Action: action}); err != nil {
		log.Warn("failed to publish change", zap.String("table", table), zap.Error(err))
	}
}
