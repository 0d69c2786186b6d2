package tree

import (
	"slices"

	"github.com/openstax/openstax-resource-names/internal/domain/orn"
	"github.com/openstax/openstax-resource-names/internal/domain/resource"
)

// Mapper turns raw archive nodes of one book into resource nodes.
type Mapper struct {
	Book orn.BookRef
}

// NewMapper creates a Mapper for the given book identity.
func NewMapper(ref orn.BookRef) Mapper {
	return Mapper{Book: ref}
}

// Map converts raw and all of its descendants.
func (m Mapper) Map(raw *RawNode) *resource.Node {
	node := m.NodeData(raw)
	if raw.IsSubtree() {
		node.Contents = m.MapAll(raw.Contents)
	}
	return node
}

// MapAll converts a list of raw siblings.
func (m Mapper) MapAll(raws []*RawNode) []*resource.Node {
	out := make([]*resource.Node, 0, len(raws))
	for _, r := range raws {
		out = append(out, m.Map(r))
	}
	return out
}

// NodeData converts raw without its children. Subtrees get the first page
// beneath them as default page.
func (m Mapper) NodeData(raw *RawNode) *resource.Node {
	id := BareID(raw.ID)
	node := &resource.Node{
		ID:            id,
		Title:         raw.Title,
		TitleParts:    SplitTitle(raw.Title),
		TocType:       raw.TocType,
		TocTargetType: raw.TocTargetType,
	}

	if raw.IsSubtree() {
		node.Type = resource.TypeSubbook
		node.ORN = orn.Subbook.Format(m.Book.With(false, orn.ParamSubbookID, id))
		node.VersionedORN = orn.Subbook.Format(m.Book.With(true, orn.ParamSubbookID, id))
		if leaf := FirstPage(raw); leaf != nil {
			node.DefaultPage = m.Map(leaf)
		}
		return node
	}

	node.Type = resource.TypePage
	node.Slug = raw.Slug
	node.ORN = orn.Page.Format(m.Book.With(false, orn.ParamPageID, id))
	node.VersionedORN = orn.Page.Format(m.Book.With(true, orn.ParamPageID, id))
	return node
}

// Find returns the first node, in depth-first pre-order, that satisfies pred.
func Find(root *RawNode, pred func(*RawNode) bool) *RawNode {
	path := PathTo(root, pred)
	if path == nil {
		return nil
	}
	return path[len(path)-1]
}

// FindByID finds a node by id, ignoring version suffixes.
func FindByID(root *RawNode, id string) *RawNode {
	return Find(root, func(n *RawNode) bool { return BareID(n.ID) == id })
}

// FindBySlug finds a node by slug.
func FindBySlug(root *RawNode, slug string) *RawNode {
	return Find(root, func(n *RawNode) bool { return n.Slug == slug })
}

// FirstPage returns the first leaf under root, or root itself when it is a leaf.
func FirstPage(root *RawNode) *RawNode {
	return Find(root, func(n *RawNode) bool { return !n.IsSubtree() })
}

// PathTo returns the nodes from root down to the first node satisfying pred,
// both ends included, or nil when no node matches.
func PathTo(root *RawNode, pred func(*RawNode) bool) []*RawNode {
	if root == nil {
		return nil
	}
	if pred(root) {
		return []*RawNode{root}
	}
	for _, child := range root.Contents {
		if sub := PathTo(child, pred); sub != nil {
			return append([]*RawNode{root}, sub...)
		}
	}
	return nil
}

// Walk visits root and its descendants depth-first. ancestors runs from the
// root down to the visited node's parent and must not be retained by fn.
func Walk(root *RawNode, fn func(node *RawNode, ancestors []*RawNode)) {
	var walk func(n *RawNode, path []*RawNode)
	walk = func(n *RawNode, path []*RawNode) {
		fn(n, path)
		path = append(path, n)
		for _, c := range n.Contents {
			walk(c, path)
		}
	}
	if root != nil {
		walk(root, nil)
	}
}

// FilterByType collects root and every descendant whose type is in types, depth-first.
func FilterByType(root *resource.Node, types ...resource.Type) []*resource.Node {
	var out []*resource.Node
	var walk func(*resource.Node)
	walk = func(n *resource.Node) {
		if slices.Contains(types, n.Type) {
			out = append(out, n)
		}
		for _, c := range n.Contents {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// FilterAllByType applies FilterByType to each node of a forest in order.
func FilterAllByType(roots []*resource.Node, types ...resource.Type) []*resource.Node {
	var out []*resource.Node
	for _, r := range roots {
		out = append(out, FilterByType(r, types...)...)
	}
	return out
}
