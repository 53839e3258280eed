package services

import (
	"sync"
	"time"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

// CategoryCache maps category titles to remote ids.
// It is refreshed from every category fetch and trusted for at most ttl.
// A zero ttl never expires.
type CategoryCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	now       func() time.Time
	byTitle   map[string]string
	refreshed time.Time
}

// NewCategoryCache creates an empty cache.
func NewCategoryCache(ttl time.Duration) *CategoryCache {
	return &CategoryCache{
		ttl:     ttl,
		now:     time.Now,
		byTitle: make(map[string]string),
	}
}

// Replace swaps the cache contents for the given categories.
// When titles repeat, the first category wins.
func (c *CategoryCache) Replace(categories domain.Collection) {
	byTitle := make(map[string]string, len(categories))
	for _, rec := range categories {
		title := rec.Title()
		if _, seen := byTitle[title]; !seen {
			byTitle[title] = rec.ID
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.byTitle = byTitle
	c.refreshed = c.now()
}

// Lookup returns the id for an exact title.
// ok is false when the title is unknown or the cache is stale.
func (c *CategoryCache) Lookup(title string) (id string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.staleLocked() {
		return "", false
	}
	id, ok = c.byTitle[title]
	return id, ok
}

// Put records a single mapping, e.g. after creating a category.
func (c *CategoryCache) Put(title, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, seen := c.byTitle[title]; !seen {
		c.byTitle[title] = id
	}
}

// Remove drops every mapping pointing at id.
func (c *CategoryCache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for title, v := range c.byTitle {
		if v == id {
			delete(c.byTitle, title)
		}
	}
}

// Invalidate marks the cache stale so the next Lookup misses.
func (c *CategoryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byTitle = make(map[string]string)
	c.refreshed = time.Time{}
}

// Stale reports whether the cache needs a refresh.
func (c *CategoryCache) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.staleLocked()
}

func (c *CategoryCache) staleLocked() bool {
	if c.refreshed.IsZero() {
		return true
	}
	return c.ttl > 0 && c.now().Sub(c.refreshed) > c.ttl
}

// Len returns the number of cached titles.
func (c *CategoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byTitle)
}
