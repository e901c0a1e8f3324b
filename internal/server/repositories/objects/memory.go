package objects

import (
	"context"
	"iter"
	"slices"
	"sync"

	"github.com/dmitrijs2005/taxiikeeper/internal/stix"
)

type revisionKey struct {
	id      string
	version int64
}

type memoryCollection struct {
	objects []*stix.Object
	index   map[revisionKey]int
}

// MemoryRepository keeps object revisions in process memory.
type MemoryRepository struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{collections: make(map[string]*memoryCollection)}
}

func (r *MemoryRepository) snapshot(collectionID, objectID string) []*stix.Object {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collections[collectionID]
	if !ok {
		return nil
	}
	result := make([]*stix.Object, 0, len(c.objects))
	for _, o := range c.objects {
		if objectID == "" || o.ID == objectID {
			result = append(result, o)
		}
	}
	slices.SortStableFunc(result, func(a, b *stix.Object) int {
		return a.Created.Time.Compare(b.Created.Time)
	})
	return result
}

func (r *MemoryRepository) Stream(ctx context.Context, collectionID, objectID string) iter.Seq2[*stix.Object, error] {
	return func(yield func(*stix.Object, error) bool) {
		for _, o := range r.snapshot(collectionID, objectID) {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(o, nil) {
				return
			}
		}
	}
}

func (r *MemoryRepository) List(ctx context.Context, collectionID, objectID string) ([]*stix.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.snapshot(collectionID, objectID), nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, collectionID string, obj *stix.Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.collections[collectionID]
	if !ok {
		c = &memoryCollection{index: make(map[revisionKey]int)}
		r.collections[collectionID] = c
	}

	key := revisionKey{id: obj.ID, version: obj.VersionTime().UnixNano()}
	if i, ok := c.index[key]; ok {
		c.objects[i] = obj
		return nil
	}
	c.index[key] = len(c.objects)
	c.objects = append(c.objects, obj)
	return nil
}
