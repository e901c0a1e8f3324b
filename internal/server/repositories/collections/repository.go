package collections

import (
	"context"

	"github.com/dmitrijs2005/taxiikeeper/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Collection, error)
	Get(ctx context.Context, id string) (*models.Collection, error)
	Upsert(ctx context.Context, c *models.Collection) error
}
