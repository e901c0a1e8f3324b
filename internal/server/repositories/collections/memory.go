package collections

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taxiikeeper/internal/common"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/models"
)

// MemoryRepository keeps collections in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.Collection
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]models.Collection), now: time.Now}
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Collection, 0, len(r.items))
	for _, c := range r.items {
		result = append(result, &c)
	}
	slices.SortFunc(result, func(a, b *models.Collection) int {
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return result, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, c *models.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	item := *c
	item.UpdatedAt = r.now().UTC()
	r.items[c.ID] = item
	return nil
}
