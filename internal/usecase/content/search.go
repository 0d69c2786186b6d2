package content

import (
	"context"
	"fmt"
	"regexp"

	json "github.com/goccy/go-json"

	"github.com/openstax/openstax-resource-names/internal/domain"
	"github.com/openstax/openstax-resource-names/internal/domain/orn"
	"github.com/openstax/openstax-resource-names/internal/domain/relevance"
	"github.com/openstax/openstax-resource-names/internal/domain/resource"
	"github.com/openstax/openstax-resource-names/internal/domain/search/index"
	"github.com/openstax/openstax-resource-names/internal/domain/tree"
	"github.com/openstax/openstax-resource-names/internal/usecase/locate"
)

var elementIndexBook = regexp.MustCompile(`__(.*)@`)

// locateRanked ranks candidates and resolves the winners through the locator.
func locateRanked(
	ctx context.Context, env locate.SearchEnv, q locate.SearchQuery, cands []relevance.Candidate,
) ([]resource.Resource, error) {
	ranked := relevance.Rank(q.Terms, cands, q.Limit)
	if len(ranked) == 0 {
		return nil, nil
	}
	out, err := env.Locator.LocateAll(ctx, relevance.ORNs(ranked))
	if err != nil {
		return nil, fmt.Errorf("locate ranked results: %w", err)
	}
	return out, nil
}

// searchLibraries ranks the language libraries by title. Libraries are never
// inside a scope.
func (b *Books) searchLibraries(ctx context.Context, env locate.SearchEnv, q locate.SearchQuery) ([]resource.Resource, error) {
	if len(q.Scope) > 0 {
		return nil, nil
	}
	cands := make([]relevance.Candidate, 0, len(Libraries))
	for _, lang := range Libraries {
		lib := libraryData(lang)
		cands = append(cands, relevance.Candidate{ORN: lib.ORN, Text: lib.Title})
	}
	return locateRanked(ctx, env, q, cands)
}

// releaseHits queries the index over the current release.
func (b *Books) releaseHits(
	ctx context.Context, env locate.SearchEnv, q locate.SearchQuery, strategy string,
) ([]index.Hit, error) {
	rel, err := b.Release(ctx)
	if err != nil {
		return nil, err
	}
	res, err := env.Index.Search(ctx, index.Query{
		Q:              q.Text,
		Books:          []string{rel.ID},
		IndexStrategy:  strategy,
		SearchStrategy: q.Strategy,
	})
	if err != nil {
		return nil, fmt.Errorf("index search %s: %w", strategy, err)
	}
	return res.Top(q.Limit), nil
}

// searchBooks uses the book index for unscoped searches and ranks book titles
// locally otherwise.
func (b *Books) searchBooks(ctx context.Context, env locate.SearchEnv, q locate.SearchQuery) ([]resource.Resource, error) {
	if env.Index != nil && len(q.Scope) == 0 {
		hits, err := b.releaseHits(ctx, env, q, index.StrategyBooks)
		if err != nil {
			return nil, err
		}
		out := make([]resource.Resource, 0, len(hits))
		for _, h := range hits {
			r, err := resource.Decode(h.Source)
			book, ok := r.(*resource.Book)
			if err != nil || !ok {
				return nil, domain.Malformed("received non-book result from bookSearch")
			}
			out = append(out, book)
		}
		return out, nil
	}

	books := scopeBooks(q.Scope)
	if len(q.Scope) == 0 {
		lib, err := b.Library(ctx, "all")
		if err != nil {
			return nil, err
		}
		books = lib.Contents
	}
	cands := make([]relevance.Candidate, 0, len(books))
	for _, book := range books {
		cands = append(cands, relevance.Candidate{ORN: book.VersionedORN, Text: book.Title})
	}
	return locateRanked(ctx, env, q, cands)
}

// searchSubbooks ranks unit and chapter titles inside the scope.
func (b *Books) searchSubbooks(ctx context.Context, env locate.SearchEnv, q locate.SearchQuery) ([]resource.Resource, error) {
	roots, err := b.roots(ctx, q.Scope)
	if err != nil {
		return nil, err
	}
	cands, err := b.treeCandidates(ctx, roots, resource.TypeSubbook)
	if err != nil {
		return nil, err
	}
	return locateRanked(ctx, env, q, cands)
}

// searchPages uses the page index for unscoped searches and ranks page
// context titles locally otherwise.
func (b *Books) searchPages(ctx context.Context, env locate.SearchEnv, q locate.SearchQuery) ([]resource.Resource, error) {
	if env.Index != nil && len(q.Scope) == 0 {
		hits, err := b.releaseHits(ctx, env, q, index.StrategyPages)
		if err != nil {
			return nil, err
		}
		out := make([]resource.Resource, 0, len(hits))
		for _, h := range hits {
			r, err := resource.Decode(h.Source)
			page, ok := r.(*resource.Page)
			if err != nil || !ok {
				return nil, domain.Malformed("received non-page result from pageSearch")
			}
			out = append(out, page)
		}
		return out, nil
	}

	roots, err := b.roots(ctx, q.Scope)
	if err != nil {
		return nil, err
	}
	cands, err := b.treeCandidates(ctx, roots, resource.TypePage)
	if err != nil {
		return nil, err
	}
	return locateRanked(ctx, env, q, cands)
}

type elementSource struct {
	PageID      string
	ElementType string
	ElementID   string
}

// decodeElementSource validates an element hit payload.
func decodeElementSource(raw json.RawMessage) (elementSource, error) {
	malformed := domain.Malformed("received non-element result from elementSearch")

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return elementSource{}, malformed
	}
	var src elementSource
	for key, dst := range map[string]*string{
		"pageId": &src.PageID, "elementType": &src.ElementType, "elementId": &src.ElementID,
	} {
		s, ok := fields[key].(string)
		if !ok {
			return elementSource{}, malformed
		}
		*dst = s
	}
	if _, ok := fields["pagePosition"].(float64); !ok {
		return elementSource{}, malformed
	}
	return src, nil
}

// searchElements queries the element index over the scope's books, or over
// every released book. Without an index there are no element results.
func (b *Books) searchElements(ctx context.Context, env locate.SearchEnv, q locate.SearchQuery) ([]resource.Resource, error) {
	if env.Index == nil {
		return nil, nil
	}

	var bookIDs []string
	if len(q.Scope) > 0 {
		seen := make(map[string]bool)
		for _, r := range scopeRoots(q.Scope) {
			if !seen[r.Book.ID] {
				seen[r.Book.ID] = true
				bookIDs = append(bookIDs, r.Book.ID)
			}
		}
	} else {
		rel, err := b.Release(ctx)
		if err != nil {
			return nil, err
		}
		bookIDs = rel.BookIDs()
	}
	if len(bookIDs) == 0 {
		return nil, nil
	}

	res, err := env.Index.Search(ctx, index.Query{
		Q:              q.Text,
		Books:          bookIDs,
		IndexStrategy:  index.StrategyElements,
		SearchStrategy: q.Strategy,
	})
	if err != nil {
		return nil, fmt.Errorf("index search %s: %w", index.StrategyElements, err)
	}

	hits := res.Top(q.Limit)
	names := make([]string, 0, len(hits))
	for _, h := range hits {
		m := elementIndexBook.FindStringSubmatch(h.Index)
		if m == nil {
			return nil, domain.Malformed("element hit index %q names no book", h.Index)
		}
		src, err := decodeElementSource(h.Source)
		if err != nil {
			return nil, err
		}
		names = append(names, orn.Element.Format(orn.Params{
			orn.ParamBookID:    m[1],
			orn.ParamPageID:    tree.BareID(src.PageID),
			orn.ParamElementID: src.ElementID,
		}))
	}
	if len(names) == 0 {
		return nil, nil
	}
	out, err := env.Locator.LocateAll(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("locate element results: %w", err)
	}
	return out, nil
}

// searchAncillaries delegates to the ancillaries service. Ancillaries are
// never inside a scope.
func (a *Ancillaries) searchAncillaries(ctx context.Context, _ locate.SearchEnv, q locate.SearchQuery) ([]resource.Resource, error) {
	if len(q.Scope) > 0 {
		return nil, nil
	}
	return a.Search(ctx, q.Text, q.Limit)
}
