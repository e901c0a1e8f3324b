package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"testing"

	"github.com/dmitrijs2005/taxiikeeper/internal/server/models"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/repositories/collections"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/repositories/objects"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taxiikeeper/internal/stix"
	"github.com/stretchr/testify/require"
)

// -------- fixtures --------

const collectionID = "95ecc380-afe9-11e4-9b6c-751b66dd541e"

func rawObject(id, typ, specVersion, created, modified string) string {
	sv := ""
	if specVersion != "" {
		sv = fmt.Sprintf(`,"spec_version":%q`, specVersion)
	}
	mod := ""
	if modified != "" {
		mod = fmt.Sprintf(`,"modified":%q`, modified)
	}
	return fmt.Sprintf(`{"type":%q,"id":%q,"created":%q%s%s}`, typ, id, created, mod, sv)
}

func seed(t *testing.T, raws ...string) *repomanager.InMemoryRepositoryManager {
	t.Helper()
	ctx := context.Background()
	m := repomanager.NewInMemoryRepositoryManager()
	require.NoError(t, m.Collections().Upsert(ctx, &models.Collection{ID: collectionID, Title: "Enterprise ATT&CK"}))
	for _, raw := range raws {
		obj, err := stix.Decode([]byte(raw))
		require.NoError(t, err)
		require.NoError(t, m.Objects().Upsert(ctx, collectionID, obj))
	}
	return m
}

var errDown = errors.New("store is down")

// failingManager serves the seeded data but fails collection listing and
// object reads with err.
type failingManager struct {
	*repomanager.InMemoryRepositoryManager
	err error
}

func (f *failingManager) Collections() collections.Repository {
	return failingCollections{Repository: f.InMemoryRepositoryManager.Collections(), err: f.err}
}

func (f *failingManager) Objects() objects.Repository {
	return failingObjects{Repository: f.InMemoryRepositoryManager.Objects(), err: f.err}
}

type failingCollections struct {
	collections.Repository
	err error
}

func (f failingCollections) List(context.Context) ([]*models.Collection, error) {
	return nil, f.err
}

// failingObjects yields the first stored candidate, then fails.
type failingObjects struct {
	objects.Repository
	err error
}

func (f failingObjects) List(context.Context, string, string) ([]*stix.Object, error) {
	return nil, f.err
}

func (f failingObjects) Stream(ctx context.Context, collectionID, objectID string) iter.Seq2[*stix.Object, error] {
	return func(yield func(*stix.Object, error) bool) {
		for obj, err := range f.Repository.Stream(ctx, collectionID, objectID) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(obj, nil) {
				return
			}
			break
		}
		yield(nil, f.err)
	}
}
