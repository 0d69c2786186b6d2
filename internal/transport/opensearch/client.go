// Package opensearch queries the OpenStax full-text search service.
package opensearch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/openstax/openstax-resource-names/internal/domain"
	"github.com/openstax/openstax-resource-names/internal/domain/search/index"
)

// Client calls {host}/api/v0/search through a domain.Fetcher.
type Client struct {
	host  string
	fetch domain.Fetcher
}

// New creates a search client for host, e.g. "https://openstax.org/open-search".
func New(host string, fetch domain.Fetcher) *Client {
	return &Client{host: strings.TrimSuffix(host, "/"), fetch: fetch}
}

type wireHit struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

type wireResult struct {
	Hits struct {
		Total int       `json:"total"`
		Hits  []wireHit `json:"hits"`
	} `json:"hits"`
}

// Search runs one index query.
func (c *Client) Search(ctx context.Context, q index.Query) (index.Result, error) {
	u := c.host + "/api/v0/search?" + url.Values{
		"q":               {q.Q},
		"books":           {strings.Join(q.Books, ",")},
		"index_strategy":  {q.IndexStrategy},
		"search_strategy": {q.SearchStrategy},
	}.Encode()

	resp, err := c.fetch.Get(ctx, u)
	if err != nil {
		return index.Result{}, fmt.Errorf("search index: %w", err)
	}
	if err := domain.AcceptResponse(resp); err != nil {
		return index.Result{}, fmt.Errorf("search index: %w", err)
	}

	var wire wireResult
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return index.Result{}, domain.Malformed("search index response: %v", err)
	}

	var out index.Result
	out.Hits.Total = wire.Hits.Total
	out.Hits.Hits = make([]index.Hit, len(wire.Hits.Hits))
	for i, h := range wire.Hits.Hits {
		out.Hits.Hits[i] = index.Hit(h)
	}
	return out, nil
}
