package objects

import (
	"context"
	"iter"

	"github.com/dmitrijs2005/taxiikeeper/internal/stix"
)

// Repository stores STIX object revisions per collection. Reads return
// candidates ordered ascending by created, ties in insertion order. An empty
// objectID selects every identity in the collection.
type Repository interface {
	List(ctx context.Context, collectionID, objectID string) ([]*stix.Object, error)
	Stream(ctx context.Context, collectionID, objectID string) iter.Seq2[*stix.Object, error]
	Upsert(ctx context.Context, collectionID string, obj *stix.Object) error
}
