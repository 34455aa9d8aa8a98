package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"service-scheduler/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Store is the data store the dashboard talks to. Every query is scoped to the
// owning user.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ProjectFilter narrows and orders the catalog listing.
type ProjectFilter struct {
	Type   models.ProjectType
	Color  models.Color
	Search string
	Sort   string // title, price, created; "-" prefix for descending
}

// ScheduledPatch holds the fields to change; nil means keep.
type ScheduledPatch struct {
	Date      *time.Time
	Time      *string
	Section   *models.Section
	Completed *bool
}

func (p ScheduledPatch) Empty() bool {
	return p.Date == nil && p.Time == nil && p.Section == nil && p.Completed == nil
}

var sortColumns = map[string]string{
	"title":   "title",
	"price":   "price",
	"created": "created_at",
}

// OrderClause translates a user supplied sort key into an ORDER BY clause.
func OrderClause(sort string) (string, error) {
	if sort == "" {
		return "title asc", nil
	}
	dir := "asc"
	key := sort
	if strings.HasPrefix(sort, "-") {
		dir = "desc"
		key = sort[1:]
	}
	col, ok := sortColumns[key]
	if !ok {
		return "", fmt.Errorf("unknown sort key %q", sort)
	}
	return col + " " + dir + ", id asc", nil
}

//
// ПОЛЬЗОВАТЕЛИ
//

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, wrapNotFound(err, "user")
	}
	return &u, nil
}

func (s *Store) GetUserByName(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, wrapNotFound(err, "user")
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %q: %w", u.Username, ErrDuplicate)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

//
// КАТАЛОГ ПРОЕКТОВ
//

func (s *Store) ListProjects(ctx context.Context, userID uint, f ProjectFilter) ([]models.Project, error) {
	order, err := OrderClause(f.Sort)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Order(order)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Color != "" {
		q = q.Where("color = ?", f.Color)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(address) LIKE ?", like, like)
	}

	var projects []models.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *Store) GetProject(ctx context.Context, userID, id uint) (*models.Project, error) {
	var p models.Project
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&p).Error; err != nil {
		return nil, wrapNotFound(err, "project")
	}
	return &p, nil
}

func (s *Store) CreateProject(ctx context.Context, p *models.Project) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (s *Store) UpdateProject(ctx context.Context, p *models.Project) error {
	res := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ? AND user_id = ?", p.ID, p.UserID).
		Select("title", "address", "price", "type", "notes", "color", "window_cleaning_months").
		Updates(p)
	if res.Error != nil {
		return fmt.Errorf("update project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("project %d: %w", p.ID, ErrNotFound)
	}
	return nil
}

// DeleteProject removes a catalog entry. Schedule entries pointing to it are
// left alone; they simply stop resolving their project.
func (s *Store) DeleteProject(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Project{})
	if res.Error != nil {
		return fmt.Errorf("delete project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return nil
}

//
// РАСПИСАНИЕ
//

// ListScheduled returns the user's schedule entries joined with their projects,
// optionally limited to the inclusive date range [from, to].
func (s *Store) ListScheduled(ctx context.Context, userID uint, from, to *time.Time) ([]models.ScheduledProject, error) {
	q := s.db.WithContext(ctx).
		Preload("Project").
		Where("user_id = ?", userID).
		Order("date asc, id asc")
	if from != nil {
		q = q.Where("date >= ?", models.DateOf(*from))
	}
	if to != nil {
		q = q.Where("date <= ?", models.DateOf(*to))
	}

	var items []models.ScheduledProject
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list scheduled projects: %w", err)
	}
	return items, nil
}

func (s *Store) GetScheduled(ctx context.Context, userID, id uint) (*models.ScheduledProject, error) {
	var sp models.ScheduledProject
	if err := s.db.WithContext(ctx).
		Preload("Project").
		Where("id = ? AND user_id = ?", id, userID).
		First(&sp).Error; err != nil {
		return nil, wrapNotFound(err, "scheduled project")
	}
	return &sp, nil
}

func (s *Store) CreateScheduled(ctx context.Context, sp *models.ScheduledProject) error {
	if err := s.db.WithContext(ctx).Omit("Project").Create(sp).Error; err != nil {
		return fmt.Errorf("create scheduled project: %w", err)
	}
	return nil
}

// CreateScheduledBatch inserts a recurrence placement in one transaction.
func (s *Store) CreateScheduledBatch(ctx context.Context, items []models.ScheduledProject) error {
	if len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Project").CreateInBatches(&items, 100).Error; err != nil {
			return fmt.Errorf("create scheduled batch: %w", err)
		}
		return nil
	})
}

func (s *Store) UpdateScheduled(ctx context.Context, userID, id uint, patch ScheduledPatch) (*models.ScheduledProject, error) {
	updates := map[string]interface{}{}
	if patch.Date != nil {
		updates["date"] = models.DateOf(*patch.Date)
	}
	if patch.Time != nil {
		updates["time"] = *patch.Time
	}
	if patch.Section != nil {
		updates["section"] = string(*patch.Section)
	}
	if patch.Completed != nil {
		updates["completed"] = *patch.Completed
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).
			Model(&models.ScheduledProject{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("update scheduled project: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, fmt.Errorf("scheduled project %d: %w", id, ErrNotFound)
		}
	}

	return s.GetScheduled(ctx, userID, id)
}

func (s *Store) DeleteScheduled(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.ScheduledProject{})
	if res.Error != nil {
		return fmt.Errorf("delete scheduled project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("scheduled project %d: %w", id, ErrNotFound)
	}
	return nil
}

func wrapNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", what, err)
}
