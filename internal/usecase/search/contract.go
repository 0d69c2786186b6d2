package search

import (
	"context"

	"github.com/openstax/openstax-resource-names/internal/domain/resource"
	"github.com/openstax/openstax-resource-names/internal/usecase/locate"
)

// PatternSource lists the searchable patterns in dispatch order.
type PatternSource interface {
	Patterns() []locate.Pattern
	ByKind(kind resource.Type) (locate.Pattern, bool)
}

// Locator resolves scope names and materializes ranked results.
type Locator interface {
	LocateAll(ctx context.Context, names []string, opts ...locate.Option) ([]resource.Resource, error)
}
