package repomanager

import (
	"context"

	"github.com/dmitrijs2005/taxiikeeper/internal/server/repositories/collections"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/repositories/objects"
)

// Repositories is the set of repositories bound to one handle, either the
// shared connection or a transaction.
type Repositories struct {
	Collections collections.Repository
	Objects     objects.Repository
}

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Collections() collections.Repository
	Objects() objects.Repository
	// WithTx runs fn with repositories that commit together when fn returns nil.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Close() error
}
