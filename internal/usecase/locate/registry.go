package locate

import (
	"context"
	"fmt"

	"github.com/openstax/openstax-resource-names/internal/domain/orn"
	"github.com/openstax/openstax-resource-names/internal/domain/relevance"
	"github.com/openstax/openstax-resource-names/internal/domain/resource"
)

// ResolveFunc fetches the record for matched params.
type ResolveFunc func(ctx context.Context, params orn.Params) (resource.Resource, error)

// SearchFunc finds records of one kind matching a query.
type SearchFunc func(ctx context.Context, env SearchEnv, q SearchQuery) ([]resource.Resource, error)

// SearchEnv carries the collaborators a SearchFunc may use. Index may be nil.
type SearchEnv struct {
	Locator Locator
	Index   IndexSearcher
}

// SearchQuery is a validated search handed to one pattern.
type SearchQuery struct {
	Text     string
	Terms    relevance.Query
	Limit    int
	Strategy string
	// Scope holds the resolved scope resources; nil means the full library.
	Scope []resource.Resource
}

// Pattern binds a name template to the resolver for that kind of resource.
type Pattern struct {
	Name      string
	Kind      resource.Type
	Template  *orn.Template
	Resolve   ResolveFunc
	Search    SearchFunc // optional
	Cacheable bool
}

// Registry is the ordered, immutable pattern table. The first matching pattern wins.
type Registry struct {
	patterns []Pattern
}

// NewRegistry validates and freezes patterns in the given order.
func NewRegistry(patterns ...Pattern) (*Registry, error) {
	names := make(map[string]bool, len(patterns))
	kinds := make(map[resource.Type]bool, len(patterns))
	for i, p := range patterns {
		switch {
		case p.Name == "":
			return nil, fmt.Errorf("pattern %d: name is required", i)
		case p.Kind == "":
			return nil, fmt.Errorf("pattern %q: kind is required", p.Name)
		case p.Template == nil:
			return nil, fmt.Errorf("pattern %q: template is required", p.Name)
		case p.Resolve == nil:
			return nil, fmt.Errorf("pattern %q: resolver is required", p.Name)
		case names[p.Name]:
			return nil, fmt.Errorf("pattern %q registered twice", p.Name)
		case kinds[p.Kind]:
			return nil, fmt.Errorf("pattern %q: kind %q registered twice", p.Name, p.Kind)
		}
		names[p.Name] = true
		kinds[p.Kind] = true
	}

	frozen := make([]Pattern, len(patterns))
	copy(frozen, patterns)
	return &Registry{patterns: frozen}, nil
}

// Dispatch returns the first pattern whose template matches name.
func (r *Registry) Dispatch(name string) (Pattern, orn.Params, bool) {
	for _, p := range r.patterns {
		if params, ok := p.Template.Match(name); ok {
			return p, params, true
		}
	}
	return Pattern{}, nil, false
}

// Patterns returns the patterns in registration order.
func (r *Registry) Patterns() []Pattern {
	out := make([]Pattern, len(r.patterns))
	copy(out, r.patterns)
	return out
}

// ByKind returns the pattern registered for kind.
func (r *Registry) ByKind(kind resource.Type) (Pattern, bool) {
	for _, p := range r.patterns {
		if p.Kind == kind {
			return p, true
		}
	}
	return Pattern{}, false
}
