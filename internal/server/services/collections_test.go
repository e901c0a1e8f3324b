package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/taxiikeeper/internal/common"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionService_List(t *testing.T) {
	m := seed(t)
	require.NoError(t, m.Collections().Upsert(context.Background(), &models.Collection{ID: "c2", Title: "Mobile ATT&CK"}))

	svc := NewCollectionService(m, []string{"application/stix+json;version=2.1"})
	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Collections, 2)

	first := got.Collections[0]
	assert.Equal(t, collectionID, first.ID)
	assert.True(t, first.CanRead)
	assert.False(t, first.CanWrite)
	assert.Equal(t, []string{"application/stix+json;version=2.1"}, first.MediaTypes)
}

func TestCollectionService_ListError(t *testing.T) {
	svc := NewCollectionService(&failingManager{InMemoryRepositoryManager: seed(t), err: errDown}, nil)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, errDown)
}

func TestCollectionService_Get(t *testing.T) {
	svc := NewCollectionService(seed(t), nil)

	got, err := svc.Get(context.Background(), collectionID)
	require.NoError(t, err)
	assert.Equal(t, "Enterprise ATT&CK", got.Title)

	_, err = svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
