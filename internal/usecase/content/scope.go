package content

import (
	"context"
	"strings"

	"github.com/openstax/openstax-resource-names/internal/domain/orn"
	"github.com/openstax/openstax-resource-names/internal/domain/relevance"
	"github.com/openstax/openstax-resource-names/internal/domain/resource"
	"github.com/openstax/openstax-resource-names/internal/domain/tree"
	"github.com/openstax/openstax-resource-names/internal/pool"
)

// scopeRoot is a book tree, optionally narrowed to the subtree rooted at RootID.
type scopeRoot struct {
	Book   orn.BookRef
	RootID string
}

// bookRef recovers the identity, versions included, a book record was built for.
func bookRef(b *resource.Book) orn.BookRef {
	if params, ok := orn.Book.Match(b.VersionedORN); ok {
		return orn.BookRefFrom(params)
	}
	return orn.BookRef{ID: b.ID}
}

// scopeRoots expands resolved scope resources into the trees they cover.
func scopeRoots(scope []resource.Resource) []scopeRoot {
	var roots []scopeRoot
	for _, s := range scope {
		switch r := s.(type) {
		case *resource.Library:
			for _, b := range r.Contents {
				roots = append(roots, scopeRoot{Book: bookRef(b)})
			}
		case *resource.Book:
			roots = append(roots, scopeRoot{Book: bookRef(r)})
		case *resource.Subbook:
			if r.Book != nil {
				roots = append(roots, scopeRoot{Book: bookRef(r.Book), RootID: r.ID})
			}
		case *resource.Page:
			if r.Book != nil {
				roots = append(roots, scopeRoot{Book: bookRef(r.Book), RootID: r.ID})
			}
		}
	}
	return roots
}

// scopeBooks returns the books a scope names directly or through a library.
func scopeBooks(scope []resource.Resource) []*resource.Book {
	var books []*resource.Book
	for _, s := range scope {
		switch r := s.(type) {
		case *resource.Library:
			books = append(books, r.Contents...)
		case *resource.Book:
			books = append(books, r)
		}
	}
	return books
}

// roots returns the scope trees, or every library book when scope is empty.
func (b *Books) roots(ctx context.Context, scope []resource.Resource) ([]scopeRoot, error) {
	if len(scope) > 0 {
		return scopeRoots(scope), nil
	}
	lib, err := b.Library(ctx, "all")
	if err != nil {
		return nil, err
	}
	return scopeRoots([]resource.Resource{lib}), nil
}

// treeCandidates collects the nodes of kind inside roots. Pages are scored on
// their joined context titles, subbooks on their title.
func (b *Books) treeCandidates(ctx context.Context, roots []scopeRoot, kind resource.Type) ([]relevance.Candidate, error) {
	archives, err := pool.Map(b.cfg.LibraryFanout, roots, func(_ int, r scopeRoot) (*ArchiveBook, error) {
		return b.Archive(ctx, r.Book)
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []relevance.Candidate
	for i, root := range roots {
		archiveTree := archives[i].Tree
		var texts map[string]string
		if kind == resource.TypePage {
			texts = pageContextTexts(archiveTree)
		}

		for _, n := range tree.FilterAllByType(scopeNodes(tree.NewMapper(root.Book), archiveTree, root.RootID), kind) {
			c := relevance.Candidate{ORN: n.VersionedORN, Text: n.TitleParts.Title}
			if kind == resource.TypePage {
				c.Text = texts[n.ID]
			}
			if !seen[c.ORN] {
				seen[c.ORN] = true
				out = append(out, c)
			}
		}
	}
	return out, nil
}

// scopeNodes maps the part of a book tree a scope root covers: the node named
// by rootID, or every top-level node when rootID is empty.
func scopeNodes(m tree.Mapper, archiveTree *tree.RawNode, rootID string) []*resource.Node {
	if archiveTree == nil {
		return nil
	}
	if rootID == "" {
		return m.MapAll(archiveTree.Contents)
	}
	raw := tree.FindByID(archiveTree, rootID)
	if raw == nil {
		return nil
	}
	return []*resource.Node{m.Map(raw)}
}

// pageContextTexts maps page ids to their context titles joined by spaces.
func pageContextTexts(archiveTree *tree.RawNode) map[string]string {
	texts := make(map[string]string)
	tree.Walk(archiveTree, func(n *tree.RawNode, ancestors []*tree.RawNode) {
		if !n.IsSubtree() {
			texts[tree.BareID(n.ID)] = strings.Join(tree.ContextTitles(ancestors, n), " ")
		}
	})
	return texts
}
