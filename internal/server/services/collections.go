// Package services implements the read side of the TAXII API and the
// hydration job that fills the store from object storage.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taxiikeeper/internal/server/models"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taxiikeeper/internal/taxii"
)

// CollectionService serves the collection resources of the API root.
type CollectionService struct {
	repomanager repomanager.RepositoryManager
	mediaTypes  []string
}

// NewCollectionService returns a service advertising mediaTypes on every collection.
func NewCollectionService(repomanager repomanager.RepositoryManager, mediaTypes []string) *CollectionService {
	return &CollectionService{repomanager: repomanager, mediaTypes: mediaTypes}
}

func (s *CollectionService) toResource(c *models.Collection) *taxii.Collection {
	return &taxii.Collection{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Alias:       c.Alias,
		CanRead:     true,
		CanWrite:    false,
		MediaTypes:  s.mediaTypes,
	}
}

// List returns every collection.
func (s *CollectionService) List(ctx context.Context) (*taxii.Collections, error) {
	items, err := s.repomanager.Collections().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	result := &taxii.Collections{}
	for _, c := range items {
		result.Collections = append(result.Collections, s.toResource(c))
	}
	return result, nil
}

// Get returns one collection. Unknown ids yield common.ErrorNotFound.
func (s *CollectionService) Get(ctx context.Context, id string) (*taxii.Collection, error) {
	c, err := s.repomanager.Collections().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", id, err)
	}
	return s.toResource(c), nil
}
