package request

import (
	"fmt"
	"strings"

	"github.com/openstax/openstax-resource-names/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength  = 1024
	DefaultLimit    = 5
	MaxLimit        = 100
	DefaultStrategy = "s1"
)

// Request is a validated search query.
type Request struct {
	query    string
	limit    int
	types    []string
	scope    []string
	strategy string
}

// New validates and normalizes search parameters.
// Defaults: limit=5, strategy=s1. types and scope may be empty.
func New(query string, limit int, types, scope []string, strategy string) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("%w: a query string is required", domain.ErrInvalidRequest)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidRequest)
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if strategy == "" {
		strategy = DefaultStrategy
	}

	return Request{
		query:    query,
		limit:    limit,
		types:    compact(types),
		scope:    compact(scope),
		strategy: strategy,
	}, nil
}

// SplitList splits a comma-separated parameter, dropping empty items.
func SplitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return compact(strings.Split(raw, ","))
}

func compact(items []string) []string {
	var out []string
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Limit returns the maximum results per resource type.
func (r *Request) Limit() int { return r.limit }

// Types returns the resource types to search; empty means all.
func (r *Request) Types() []string { return r.types }

// Scope returns the resource names results must fall under; empty means the full library.
func (r *Request) Scope() []string { return r.scope }

// Strategy returns the index search strategy.
func (r *Request) Strategy() string { return r.strategy }
