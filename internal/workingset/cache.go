// Package workingset keeps the latest schedule snapshot per user and drops it
// whenever a change notification arrives, so the next read re-fetches.
package workingset

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"service-scheduler/internal/metrics"
	"service-scheduler/internal/models"
	"service-scheduler/internal/notify"
)

// Loader fetches the full schedule of a user, joined with projects.
type Loader func(ctx context.Context, userID uint) ([]models.ScheduledProject, error)

// Cache holds one immutable snapshot per user. Snapshots are replaced as a
// whole and never modified in place; callers must not modify returned slices.
type Cache struct {
	load   Loader
	logger *zap.Logger

	mu        sync.RWMutex
	snapshots map[uint][]models.ScheduledProject
	// поколение растёт при каждой инвалидации; загрузка, начатая до неё, не сохраняется
	generation map[uint]uint64
	epoch      uint64

	group singleflight.Group
}

func New(load Loader, logger *zap.Logger) *Cache {
	return &Cache{
		load:       load,
		logger:     logger,
		snapshots:  make(map[uint][]models.ScheduledProject),
		generation: make(map[uint]uint64),
	}
}

// Get returns the user's snapshot, loading it on a miss. Concurrent misses
// for the same user share a single load.
func (c *Cache) Get(ctx context.Context, userID uint) ([]models.ScheduledProject, error) {
	c.mu.RLock()
	snap, ok := c.snapshots[userID]
	c.mu.RUnlock()
	metrics.IncLookup(ok)
	if ok {
		return snap, nil
	}

	// в ключе поколение: чтение после инвалидации не присоединяется к старой загрузке
	gen := c.currentGeneration(userID)
	key := strconv.FormatUint(uint64(userID), 10) + "/" + strconv.FormatUint(gen, 10)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// загрузка общая для всех ждущих, отмена первого запроса её не прерывает
		items, err := c.load(context.WithoutCancel(ctx), userID)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []models.ScheduledProject{}
		}

		c.mu.Lock()
		if c.generationLocked(userID) == gen {
			c.snapshots[userID] = items
		}
		c.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.ScheduledProject), nil
}

// Invalidate drops the snapshot of one user; userID 0 drops all of them.
func (c *Cache) Invalidate(userID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if userID == 0 {
		c.epoch++
		c.snapshots = make(map[uint][]models.ScheduledProject)
	} else {
		c.generation[userID]++
		delete(c.snapshots, userID)
	}
	metrics.WorkingSetInvalidations.Inc()
}

// Run listens for changes until ctx is done. Projects are joined into every
// schedule entry, so catalog changes invalidate as well.
func (c *Cache) Run(ctx context.Context, n notify.Notifier) error {
	changes, err := n.Subscribe(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ch, ok := <-changes:
			if !ok {
				return nil
			}
			c.logger.Debug("working set invalidated",
				zap.String("table", ch.Table),
				zap.Uint("user_id", ch.UserID),
			)
			c.Invalidate(ch.UserID)
		}
	}
}

func (c *Cache) currentGeneration(userID uint) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generationLocked(userID)
}

func (c *Cache) generationLocked(userID uint) uint64 {
	return c.generation[userID] + c.epoch
}
