// Package refresh owns the published article collection and the background
// loop that rebuilds it.
package refresh

import (
	"sync/atomic"
	"time"

	"github.com/hoanghai1803/vnfinews/internal/models"
)

// Collection holds the current snapshot. Readers never block and always see
// a complete snapshot from a single run.
type Collection struct {
	current atomic.Pointer[models.Snapshot]
}

// NewCollection returns an empty collection that has never been updated.
func NewCollection() *Collection {
	c := &Collection{}
	c.current.Store(&models.Snapshot{Articles: []models.Article{}})
	return c
}

// Load returns the current snapshot. The returned value must not be modified.
func (c *Collection) Load() *models.Snapshot {
	return c.current.Load()
}

// Publish replaces the current snapshot with one holding articles, stamped
// with at, and returns it.
func (c *Collection) Publish(articles []models.Article, at time.Time) *models.Snapshot {
	owned := make([]models.Article, len(articles))
	copy(owned, articles)
	at = at.UTC()

	snap := &models.Snapshot{Articles: owned, LastUpdate: &at}
	c.current.Store(snap)
	return snap
}
