// Package tree builds and walks book table-of-contents trees.
package tree

import (
	"strings"

	json "github.com/goccy/go-json"
)

// RawNode is an archive table-of-contents entry. A node with a non-nil
// Contents slice is a subtree, anything else is a page.
type RawNode struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug,omitempty"`
	TocType       string     `json:"toc_type,omitempty"`
	TocTargetType string     `json:"toc_target_type,omitempty"`
	Contents      []*RawNode `json:"contents,omitempty"`
}

// UnmarshalJSON accepts both the "data-toc-*" and "toc_*" spellings.
func (n *RawNode) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID                string     `json:"id"`
		Title             string     `json:"title"`
		Slug              string     `json:"slug"`
		DataTocType       *string    `json:"data-toc-type"`
		TocType           *string    `json:"toc_type"`
		DataTocTargetType *string    `json:"data-toc-target-type"`
		TocTargetType     *string    `json:"toc_target_type"`
		Contents          []*RawNode `json:"contents"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err //nolint:wrapcheck // decoder error surfaces to the caller of Unmarshal
	}
	n.ID = aux.ID
	n.Title = aux.Title
	n.Slug = aux.Slug
	n.TocType = firstSet(aux.DataTocType, aux.TocType)
	n.TocTargetType = firstSet(aux.DataTocTargetType, aux.TocTargetType)
	n.Contents = aux.Contents
	return nil
}

func firstSet(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ""
}

// IsSubtree reports whether the node has a contents list.
func (n *RawNode) IsSubtree() bool { return n.Contents != nil }

// BareID strips the "@version" suffix archive ids carry.
func BareID(id string) string {
	before, _, _ := strings.Cut(id, "@")
	return before
}
