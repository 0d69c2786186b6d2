package locate

import (
	"context"

	"github.com/openstax/openstax-resource-names/internal/domain/resource"
	"github.com/openstax/openstax-resource-names/internal/domain/search/index"
)

// CacheStore persists resolved records by the name they were requested with.
// GetItem returns (nil, nil) on a miss. PutItem must be idempotent.
type CacheStore interface {
	GetItem(ctx context.Context, orn string) (resource.Resource, error)
	PutItem(ctx context.Context, orn string, item resource.Resource) error
}

// Locator resolves names in batches. Implemented by Engine.
type Locator interface {
	LocateAll(ctx context.Context, names []string, opts ...Option) ([]resource.Resource, error)
}

// IndexSearcher queries the full-text search index.
type IndexSearcher interface {
	Search(ctx context.Context, q index.Query) (index.Result, error)
}
