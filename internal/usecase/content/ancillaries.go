package content

import (
	"context"
	"fmt"
	"net/url"

	"github.com/openstax/openstax-resource-names/internal/domain"
	"github.com/openstax/openstax-resource-names/internal/domain/orn"
	"github.com/openstax/openstax-resource-names/internal/domain/resource"
)

// Ancillaries resolves and searches supplementary materials.
type Ancillaries struct {
	host  string
	fetch domain.Fetcher
}

// NewAncillaries creates the ancillary adapter. host must end with a slash.
func NewAncillaries(host string, fetch domain.Fetcher) *Ancillaries {
	if host == "" {
		host = DefaultAncillariesHost
	}
	return &Ancillaries{host: host, fetch: fetch}
}

type ancillaryType struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
	Icon      *struct {
		URL string `json:"url"`
	} `json:"icon"`
}

type ancillaryData struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Type          *ancillaryType `json:"type"`
	DefaultFormat *struct {
		LatestURL string `json:"latestUrl"`
	} `json:"defaultFormat"`
}

// Ancillary fetches the compiled ancillary record.
func (a *Ancillaries) Ancillary(ctx context.Context, id string) (*resource.Ancillary, error) {
	var data ancillaryData
	if err := getJSON(ctx, a.fetch, a.host+"api/v0/ancillaries/"+url.PathEscape(id)+"/compiled", &data); err != nil {
		return nil, fmt.Errorf("ancillary %s: %w", id, err)
	}
	if data.Type == nil {
		return nil, fmt.Errorf("ancillary %s: %w", id, domain.Malformed("compiled ancillary has no type"))
	}
	return a.format(&data), nil
}

// Search finds published ancillaries matching query, at most limit of them.
func (a *Ancillaries) Search(ctx context.Context, query string, limit int) ([]resource.Resource, error) {
	var page struct {
		Items []*ancillaryData `json:"items"`
	}
	q := url.Values{"query": {query}, "publicationState": {"published"}}
	if err := getJSON(ctx, a.fetch, a.host+"api/v0/ancillaries?"+q.Encode(), &page); err != nil {
		return nil, fmt.Errorf("ancillary search: %w", err)
	}

	items := page.Items
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]resource.Resource, 0, len(items))
	for _, item := range items {
		if item == nil || item.Type == nil {
			return nil, domain.Malformed("received non-ancillary result from ancillarySearch")
		}
		out = append(out, a.format(item))
	}
	return out, nil
}

func (a *Ancillaries) format(d *ancillaryData) *resource.Ancillary {
	anc := &resource.Ancillary{
		ID:          d.ID,
		ORN:         orn.Ancillary.Format(orn.Params{orn.ParamID: d.ID}),
		Type:        resource.TypeAncillary,
		Title:       d.Name,
		Description: d.Description,
		AncillaryType: resource.AncillaryType{
			Name:      d.Type.Name,
			ID:        d.Type.ID,
			Timestamp: d.Type.Timestamp,
		},
	}
	if d.Type.Icon != nil {
		anc.AncillaryType.Icon = &resource.Icon{URL: a.host + d.Type.Icon.URL}
	}
	if d.DefaultFormat != nil {
		anc.URLs.Main = a.host + d.DefaultFormat.LatestURL
	}
	return anc
}
