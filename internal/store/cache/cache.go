// Package cache provides a cache-aside decorator for survey reads.
//
// Reads go through a TTL cache keyed by survey id; any write to a survey
// invalidates its entry so the next read observes the stored state. The
// delivery engine stays unaware of caching, it just receives a SurveyStore.
package cache

import (
	"context"
	"sync"
	"time"

	"surveyd/internal/domain"
	"surveyd/internal/store"
	"surveyd/pkg/logx"
)

const defaultTTL = 30 * time.Minute

type entry struct {
	survey domain.Survey
	until  time.Time
}

// SurveyStore wraps another store.SurveyStore with id-keyed read caching.
type SurveyStore struct {
	inner store.SurveyStore
	log   logx.Logger
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]entry
	maxSize int
}

var _ store.SurveyStore = (*SurveyStore)(nil)

func New(inner store.SurveyStore, ttl time.Duration, log logx.Logger) *SurveyStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &SurveyStore{
		inner:   inner,
		log:     log,
		ttl:     ttl,
		entries: map[string]entry{},
		maxSize: 2048,
	}
}

func (c *SurveyStore) GetByID(ctx context.Context, id string) (domain.Survey, error) {
	now := time.Now()

	c.mu.Lock()
	if e, ok := c.entries[id]; ok && now.Before(e.until) {
		c.mu.Unlock()
		c.log.Trace("survey cache hit", logx.String("survey", id))
		return e.survey, nil
	}
	c.mu.Unlock()

	s, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return domain.Survey{}, err
	}

	c.mu.Lock()
	if len(c.entries) >= c.maxSize {
		c.evictExpiredLocked(now)
	}
	c.entries[id] = entry{survey: s, until: now.Add(c.ttl)}
	c.mu.Unlock()
	return s, nil
}

// FindDue is a point-in-time scheduling query; caching it would delay
// delivery by up to the TTL, so it always goes to the inner store.
func (c *SurveyStore) FindDue(ctx context.Context, now time.Time) ([]domain.Survey, error) {
	return c.inner.FindDue(ctx, now)
}

func (c *SurveyStore) Insert(ctx context.Context, s domain.Survey) error {
	if err := c.inner.Insert(ctx, s); err != nil {
		return err
	}
	c.invalidate(s.ID)
	return nil
}

func (c *SurveyStore) Save(ctx context.Context, s domain.Survey) error {
	if err := c.inner.Save(ctx, s); err != nil {
		return err
	}
	c.invalidate(s.ID)
	return nil
}

func (c *SurveyStore) Delete(ctx context.Context, id string) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(id)
	return nil
}

func (c *SurveyStore) invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

func (c *SurveyStore) evictExpiredLocked(now time.Time) {
	for id, e := range c.entries {
		if !now.Before(e.until) {
			delete(c.entries, id)
		}
	}
	// Still full of live entries: drop arbitrary ones rather than grow.
	for id := range c.entries {
		if len(c.entries) < c.maxSize {
			break
		}
		delete(c.entries, id)
	}
}
