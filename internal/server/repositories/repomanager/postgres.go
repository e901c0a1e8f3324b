// Package repomanager provides concrete RepositoryManagers for PostgreSQL and
// process memory, wiring together repository constructors and database
// migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/taxiikeeper/internal/dbx"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/migrations"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/repositories/collections"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/repositories/objects"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct {
	db *sql.DB
}

// sqlOpen is a seam for testing sql.Open.
var sqlOpen = sql.Open

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Collections returns a collections.Repository bound to the shared connection.
func (m *PostgresRepositoryManager) Collections() collections.Repository {
	return collections.NewPostgresRepository(m.db)
}

// Objects returns an objects.Repository bound to the shared connection.
func (m *PostgresRepositoryManager) Objects() objects.Repository {
	return objects.NewPostgresRepository(m.db)
}

// WithTx runs fn inside a transaction via dbx.WithTx.
func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, Repositories{
			Collections: collections.NewPostgresRepository(tx),
			Objects:     objects.NewPostgresRepository(tx),
		})
	})
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the managed connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

func (m *PostgresRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

// NewPostgresRepositoryManager opens a pgx-backed connection pool for dsn.
// The pool connects lazily; call Ping or RunMigrations to verify it.
func NewPostgresRepositoryManager(dsn string) (*PostgresRepositoryManager, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return newPostgresRepositoryManager(db), nil
}

func newPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{db: db}
}
