// Package collections provides repositories for the TAXII collections
// served under the API root.
package collections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taxiikeeper/internal/common"
	"github.com/dmitrijs2005/taxiikeeper/internal/dbx"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/models"
)

// PostgresRepository implements collection storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns every collection ordered by title.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Collection, error) {
	query := `SELECT id, title, description, alias, source, updated_at FROM collections ORDER BY title, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select collections: %w", err)
	}
	defer rows.Close()

	var result []*models.Collection
	for rows.Next() {
		var item models.Collection
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Alias, &item.Source, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Get returns the collection with the given id or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Collection, error) {
	query := `SELECT id, title, description, alias, source, updated_at FROM collections WHERE id = $1`

	var item models.Collection
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&item.ID, &item.Title, &item.Description, &item.Alias, &item.Source, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select collection: %w", err)
	}
	return &item, nil
}

// Upsert inserts the collection or refreshes its descriptive fields.
func (r *PostgresRepository) Upsert(ctx context.Context, c *models.Collection) error {
	query := `
		INSERT INTO collections (id, title, description, alias, source, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (id)
		DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			alias = EXCLUDED.alias,
			source = EXCLUDED.source,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.db.ExecContext(ctx, query, c.ID, c.Title, c.Description, c.Alias, c.Source); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
