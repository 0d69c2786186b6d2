package tree

import (
	"strings"

	"github.com/openstax/openstax-resource-names/internal/domain/resource"
)

// ContextSeparator joins breadcrumb labels in a context title.
const ContextSeparator = " / "

// PageContext is the breadcrumb of a page inside its book.
type PageContext struct {
	Node          *resource.Node
	Context       map[string]*resource.Node
	ContextTitle  string
	ContextTitles []string
}

// Context locates pageID under root and builds its breadcrumb from the path
// root → page. Ancestors are keyed by toc type in Context; the page itself
// is excluded. ok is false when the page is not in the tree.
func (m Mapper) Context(root *RawNode, pageID string) (PageContext, bool) {
	path := PathTo(root, func(n *RawNode) bool { return BareID(n.ID) == pageID })
	if path == nil {
		return PageContext{}, false
	}

	nodes := make([]*resource.Node, len(path))
	for i, raw := range path {
		nodes[i] = m.NodeData(raw)
	}
	return buildContext(nodes, pageID), true
}

func buildContext(nodes []*resource.Node, pageID string) PageContext {
	self := nodes[len(nodes)-1]

	ctx := make(map[string]*resource.Node)
	titles := make([]string, 0, len(nodes))
	labels := make([]string, 0, len(nodes))
	for i, n := range nodes {
		titles = append(titles, n.TitleParts.Title)
		if i < len(nodes)-1 {
			labels = append(labels, n.TitleParts.Label())
		}
		if n.TocType != "" && n.ID != pageID {
			ctx[n.TocType] = n
		}
	}
	labels = append(labels, self.TitleParts.Title)

	return PageContext{
		Node:          self,
		Context:       ctx,
		ContextTitle:  strings.Join(labels, ContextSeparator),
		ContextTitles: titles,
	}
}

// ContextTitles returns the titles from the root down to node without mapping
// the nodes. ancestors is the path Walk passes to its callback.
func ContextTitles(ancestors []*RawNode, node *RawNode) []string {
	out := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		out = append(out, SplitTitle(a.Title).Title)
	}
	return append(out, SplitTitle(node.Title).Title)
}
