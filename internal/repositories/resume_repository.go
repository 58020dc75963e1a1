package repositories

import (
	"context"
	"sync"
	"time"

	"resumebuilder/internal/models"
)

// ResumeRepository defines data access for resume headers and their five
// child collections.
type ResumeRepository interface {
	// Create assigns ID and CreatedAt on header and persists it together with
	// every child row.
	Create(ctx context.Context, header *models.Resume, children models.Children) error
	GetAll(ctx context.Context) ([]models.Resume, error)
	GetByID(ctx context.Context, id string) (*models.Resume, error)
	GetChildren(ctx context.Context, id string, kind models.CollectionKind) (models.Children, error)
	CountChildren(ctx context.Context, id string, kind models.CollectionKind) (int64, error)
	// Delete removes child rows then the header. Unknown ids are a no-op.
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// createdAtClock hands out strictly increasing creation timestamps at
// microsecond precision, the finest resolution postgres keeps.
type createdAtClock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func newCreatedAtClock() *createdAtClock {
	return &createdAtClock{now: time.Now}
}

func (c *createdAtClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
