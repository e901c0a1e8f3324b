// Package objects provides repositories for the STIX object revisions held
// in each collection.
package objects

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/dmitrijs2005/taxiikeeper/internal/dbx"
	"github.com/dmitrijs2005/taxiikeeper/internal/stix"
)

// PostgresRepository implements object storage over a dbx.DBTX (*sql.DB or *sql.Tx).
// Only the raw document is read back; the filterable header is decoded from it.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func selectQuery(collectionID, objectID string) (string, []any) {
	if objectID == "" {
		return `SELECT raw FROM stix_objects WHERE collection_id = $1 ORDER BY created, seq`,
			[]any{collectionID}
	}
	return `SELECT raw FROM stix_objects WHERE collection_id = $1 AND id = $2 ORDER BY created, seq`,
		[]any{collectionID, objectID}
}

func scanObject(rows *sql.Rows) (*stix.Object, error) {
	var raw []byte
	if err := rows.Scan(&raw); err != nil {
		return nil, err
	}
	return stix.Decode(json.RawMessage(raw))
}

// Stream yields candidates row by row. The query is issued on first
// iteration, and rows are closed when the consumer stops early.
func (r *PostgresRepository) Stream(ctx context.Context, collectionID, objectID string) iter.Seq2[*stix.Object, error] {
	return func(yield func(*stix.Object, error) bool) {
		query, args := selectQuery(collectionID, objectID)
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(nil, fmt.Errorf("failed to select objects: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			obj, err := scanObject(rows)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(obj, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// List returns every candidate at once.
func (r *PostgresRepository) List(ctx context.Context, collectionID, objectID string) ([]*stix.Object, error) {
	var result []*stix.Object
	for obj, err := range r.Stream(ctx, collectionID, objectID) {
		if err != nil {
			return nil, err
		}
		result = append(result, obj)
	}
	return result, nil
}

// Upsert stores one revision. A revision is identified by collection, id and
// version instant; storing it again replaces the document.
func (r *PostgresRepository) Upsert(ctx context.Context, collectionID string, obj *stix.Object) error {
	query := `
		INSERT INTO stix_objects (collection_id, id, version_at, type, spec_version, created, raw)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (collection_id, id, version_at)
		DO UPDATE SET
			type = EXCLUDED.type,
			spec_version = EXCLUDED.spec_version,
			created = EXCLUDED.created,
			raw = EXCLUDED.raw;
	`
	_, err := r.db.ExecContext(ctx, query,
		collectionID, obj.ID, obj.VersionTime(), obj.Type, obj.SpecVersion, obj.Created.Time, []byte(obj.Raw))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
