// Package index holds the request and hit shapes of the full-text search index.
package index

import json "github.com/goccy/go-json"

// Index strategies select which prebuilt index is queried.
const (
	StrategyElements = "i1"
	StrategyBooks    = "i2"
	StrategyPages    = "i3"
)

// Query is a search index request.
type Query struct {
	Q              string
	Books          []string
	IndexStrategy  string
	SearchStrategy string
}

// Hit is one index hit. Source is untrusted and must be validated before use.
type Hit struct {
	Index  string          `json:"index"`
	ID     string          `json:"_id,omitempty"`
	Score  float64         `json:"score,omitempty"`
	Source json.RawMessage `json:"source"`
}

// Result is an index response.
type Result struct {
	Hits struct {
		Total int   `json:"total"`
		Hits  []Hit `json:"hits"`
	} `json:"hits"`
}

// Top returns at most limit hits.
func (r Result) Top(limit int) []Hit {
	hits := r.Hits.Hits
	if limit >= 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
