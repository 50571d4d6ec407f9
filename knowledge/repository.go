// Package knowledge holds the local knowledge base: one Repository interface,
// a database-backed implementation for the server and a file-backed one for
// fully local deployments. Both share the same matching rules.
package knowledge

import (
	"context"
	"errors"

	"valeai/models"
)

var (
	ErrNotFound     = errors.New("knowledge entry not found")
	ErrMissingField = errors.New("missing required field")
)

// Repository stores KnowledgeEntry rows. All listings come back in insertion order.
type Repository interface {
	All(ctx context.Context) ([]models.KnowledgeEntry, error)
	Search(ctx context.Context, query string) ([]models.KnowledgeEntry, error)
	Create(ctx context.Context, entry *models.KnowledgeEntry) error
	CreateBatch(ctx context.Context, entries []models.KnowledgeEntry) (int, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
