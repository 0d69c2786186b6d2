package content

import (
	"context"

	"github.com/openstax/openstax-resource-names/internal/domain/orn"
	"github.com/openstax/openstax-resource-names/internal/domain/resource"
	"github.com/openstax/openstax-resource-names/internal/usecase/locate"
)

func resolved[T resource.Resource](r T, err error) (resource.Resource, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Patterns returns the resource name table in dispatch order. Library and
// ancillary records change with the CMS and are not cached.
func Patterns(books *Books, ancillaries *Ancillaries) []locate.Pattern {
	return []locate.Pattern{
		{
			Name:     "Library",
			Kind:     resource.TypeLibrary,
			Template: orn.Library,
			Resolve: func(ctx context.Context, p orn.Params) (resource.Resource, error) {
				return resolved(books.Library(ctx, p.Get(orn.ParamLanguage)))
			},
			Search: books.searchLibraries,
		},
		{
			Name:     "Book",
			Kind:     resource.TypeBook,
			Template: orn.Book,
			Resolve: func(ctx context.Context, p orn.Params) (resource.Resource, error) {
				return resolved(books.BookDetail(ctx, orn.BookRefFrom(p)))
			},
			Search:    books.searchBooks,
			Cacheable: true,
		},
		{
			Name:     "Subbook",
			Kind:     resource.TypeSubbook,
			Template: orn.Subbook,
			Resolve: func(ctx context.Context, p orn.Params) (resource.Resource, error) {
				return resolved(books.Subbook(ctx, orn.BookRefFrom(p), p.Get(orn.ParamSubbookID)))
			},
			Search:    books.searchSubbooks,
			Cacheable: true,
		},
		{
			Name:     "Page",
			Kind:     resource.TypePage,
			Template: orn.Page,
			Resolve: func(ctx context.Context, p orn.Params) (resource.Resource, error) {
				return resolved(books.Page(ctx, orn.BookRefFrom(p), p.Get(orn.ParamPageID)))
			},
			Search:    books.searchPages,
			Cacheable: true,
		},
		{
			Name:     "Element",
			Kind:     resource.TypeElement,
			Template: orn.Element,
			Resolve: func(ctx context.Context, p orn.Params) (resource.Resource, error) {
				return resolved(books.Element(ctx, orn.BookRefFrom(p), p.Get(orn.ParamPageID), p.Get(orn.ParamElementID)))
			},
			Search:    books.searchElements,
			Cacheable: true,
		},
		{
			Name:     "Ancillary",
			Kind:     resource.TypeAncillary,
			Template: orn.Ancillary,
			Resolve: func(ctx context.Context, p orn.Params) (resource.Resource, error) {
				return resolved(ancillaries.Ancillary(ctx, p.Get(orn.ParamID)))
			},
			Search: ancillaries.searchAncillaries,
		},
	}
}
