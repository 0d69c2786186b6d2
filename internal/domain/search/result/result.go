package result

import (
	"bytes"

	json "github.com/goccy/go-json"

	"github.com/openstax/openstax-resource-names/internal/domain/resource"
)

// Group holds the hits of one resource type.
type Group struct {
	Type  string              `json:"-"`
	Name  string              `json:"name"`
	Items []resource.Resource `json:"items"`
}

// Result is the ordered set of non-empty groups of a search.
type Result struct {
	groups []Group
}

// Add appends a group; empty groups are dropped.
func (r *Result) Add(g Group) {
	if len(g.Items) > 0 {
		r.groups = append(r.groups, g)
	}
}

// Groups returns the groups in search order.
func (r *Result) Groups() []Group { return r.groups }

// Len returns the number of non-empty groups.
func (r *Result) Len() int { return len(r.groups) }

// MarshalJSON encodes the groups as an object keyed by type, preserving order.
func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range r.groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Type)
		if err != nil {
			return nil, err //nolint:wrapcheck // encoder error
		}
		val, err := json.Marshal(g)
		if err != nil {
			return nil, err //nolint:wrapcheck // encoder error
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
