package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/taxiikeeper/internal/server/repositories/collections"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/repositories/objects"
)

// InMemoryRepositoryManager serves repositories held in process memory. It is
// selected when no database DSN is configured.
type InMemoryRepositoryManager struct {
	txMu        sync.Mutex
	collections *collections.MemoryRepository
	objects     *objects.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		collections: collections.NewMemoryRepository(),
		objects:     objects.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *InMemoryRepositoryManager) Ping(context.Context) error          { return nil }
func (m *InMemoryRepositoryManager) Close() error                        { return nil }

func (m *InMemoryRepositoryManager) Collections() collections.Repository {
	return m.collections
}

func (m *InMemoryRepositoryManager) Objects() objects.Repository {
	return m.objects
}

// WithTx serialises writers. Writes already made when fn fails are kept.
func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, Repositories{Collections: m.collections, Objects: m.objects})
}
