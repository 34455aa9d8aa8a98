package handlers_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"service-scheduler/internal/database"
	"service-scheduler/internal/models"
)

// fakeStore keeps everything in memory and mirrors the scoping rules of the
// gorm store: every lookup is limited to the owning user.
type fakeStore struct {
	mu sync.Mutex

	users     map[uint]*models.User
	projects  map[uint]*models.Project
	scheduled map[uint]*models.ScheduledProject
	audit     []models.AuditLog

	nextUser, nextProject, nextScheduled, nextAudit uint

	failList error
	// lookups by name miss, as when another request registers concurrently
	hideUsers bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[uint]*models.User{},
		projects:  map[uint]*models.Project{},
		scheduled: map[uint]*models.ScheduledProject{},
	}
}

func (s *fakeStore) Ping(context.Context) error { return nil }

func (s *fakeStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", database.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *fakeStore) GetUserByName(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hideUsers {
		return nil, fmt.Errorf("user: %w", database.ErrNotFound)
	}
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user: %w", database.ErrNotFound)
}

func (s *fakeStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return fmt.Errorf("user %q: %w", u.Username, database.ErrDuplicate)
		}
	}
	s.nextUser++
	u.ID = s.nextUser
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *fakeStore) ListProjects(_ context.Context, userID uint, f database.ProjectFilter) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Project
	for _, p := range s.projects {
		if p.UserID != userID {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.Color != "" && p.Color != f.Color {
			continue
		}
		if q := strings.ToLower(f.Search); q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Address), q) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *fakeStore) GetProject(_ context.Context, userID, id uint) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok || p.UserID != userID {
		return nil, fmt.Errorf("project: %w", database.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) CreateProject(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProject++
	p.ID = s.nextProject
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

func (s *fakeStore) UpdateProject(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.projects[p.ID]
	if !ok || old.UserID != p.UserID {
		return fmt.Errorf("project %d: %w", p.ID, database.ErrNotFound)
	}
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

func (s *fakeStore) DeleteProject(_ context.Context, userID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok || p.UserID != userID {
		return fmt.Errorf("project %d: %w", id, database.ErrNotFound)
	}
	delete(s.projects, id)
	return nil
}

// joined copies an entry and resolves its project the way Preload does.
func (s *fakeStore) joined(sp *models.ScheduledProject) models.ScheduledProject {
	cp := *sp
	cp.Project = nil
	if p, ok := s.projects[sp.ProjectID]; ok {
		pc := *p
		cp.Project = &pc
	}
	return cp
}

func (s *fakeStore) ListScheduled(_ context.Context, userID uint, from, to *time.Time) ([]models.ScheduledProject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList != nil {
		return nil, s.failList
	}
	var out []models.ScheduledProject
	for _, sp := range s.scheduled {
		if sp.UserID != userID {
			continue
		}
		day := sp.Day()
		if from != nil && day.Before(midnight(*from)) {
			continue
		}
		if to != nil && day.After(midnight(*to)) {
			continue
		}
		out = append(out, s.joined(sp))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Day().Equal(out[j].Day()) {
			return out[i].Day().Before(out[j].Day())
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *fakeStore) GetScheduled(_ context.Context, userID, id uint) (*models.ScheduledProject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.scheduled[id]
	if !ok || sp.UserID != userID {
		return nil, fmt.Errorf("scheduled project: %w", database.ErrNotFound)
	}
	j := s.joined(sp)
	return &j, nil
}

func (s *fakeStore) CreateScheduled(_ context.Context, sp *models.ScheduledProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(sp)
	return nil
}

func (s *fakeStore) insertLocked(sp *models.ScheduledProject) {
	s.nextScheduled++
	sp.ID = s.nextScheduled
	cp := *sp
	cp.Project = nil
	s.scheduled[sp.ID] = &cp
}

func (s *fakeStore) CreateScheduledBatch(_ context.Context, items []models.ScheduledProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		s.insertLocked(&items[i])
	}
	return nil
}

func (s *fakeStore) UpdateScheduled(ctx context.Context, userID, id uint, patch database.ScheduledPatch) (*models.ScheduledProject, error) {
	s.mu.Lock()
	sp, ok := s.scheduled[id]
	if !ok || sp.UserID != userID {
		s.mu.Unlock()
		return nil, fmt.Errorf("scheduled project %d: %w", id, database.ErrNotFound)
	}
	if patch.Date != nil {
		sp.Date = models.DateOf(*patch.Date)
	}
	if patch.Time != nil {
		sp.Time = *patch.Time
	}
	if patch.Section != nil {
		sp.Section = *patch.Section
	}
	if patch.Completed != nil {
		sp.Completed = *patch.Completed
	}
	s.mu.Unlock()
	return s.GetScheduled(ctx, userID, id)
}

func (s *fakeStore) DeleteScheduled(_ context.Context, userID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.scheduled[id]
	if !ok || sp.UserID != userID {
		return fmt.Errorf("scheduled project %d: %w", id, database.ErrNotFound)
	}
	delete(s.scheduled, id)
	return nil
}

func (s *fakeStore) WriteAudit(_ context.Context, userID uint, entity string, entityID uint, action, details string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAudit++
	s.audit = append(s.audit, models.AuditLog{
		ID:        s.nextAudit,
		CreatedAt: time.Now(),
		UserID:    userID,
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		Details:   details,
	})
	return nil
}

func (s *fakeStore) ListAudit(_ context.Context, userID uint, limit int) ([]models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AuditLog
	for i := len(s.audit) - 1; i >= 0 && len(out) < limit; i-- {
		if s.audit[i].UserID == userID {
			out = append(out, s.audit[i])
		}
	}
	return out, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
