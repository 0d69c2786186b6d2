package content

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/openstax/openstax-resource-names/internal/domain"
	"github.com/openstax/openstax-resource-names/internal/domain/orn"
	"github.com/openstax/openstax-resource-names/internal/domain/resource"
	"github.com/openstax/openstax-resource-names/internal/domain/tree"
	"github.com/openstax/openstax-resource-names/internal/memo"
	"github.com/openstax/openstax-resource-names/internal/pool"
)

// Libraries lists the library languages, "all" first.
var Libraries = []string{"all", "en", "es", "pl"}

const (
	libraryTitle       = "OpenStax Textbooks"
	subjectsURL        = "https://openstax.org/subjects"
	licenseHolder      = "OpenStax"
	elementTitlePrefix = "Element in "
)

var defaultPageSlug = regexp.MustCompile(`/books/.*/pages/(.*)$`)

// Books resolves library, book, subbook, page and element resources from the
// release manifest, the CMS and the content archive.
type Books struct {
	cfg   Config
	fetch domain.Fetcher

	release  *memo.Cache[*Release]
	archives *memo.Cache[*ArchiveBook]
	common   *memo.Cache[*bookData]

	mu   sync.RWMutex
	live map[string]*oswebBook
}

// NewBooks creates the book adapter. Its caches live as long as the adapter.
func NewBooks(cfg Config, fetch domain.Fetcher) *Books {
	return &Books{
		cfg:      cfg.withDefaults(),
		fetch:    fetch,
		release:  memo.New[*Release](),
		archives: memo.New[*ArchiveBook](),
		common:   memo.New[*bookData](),
		live:     make(map[string]*oswebBook),
	}
}

// bookData is a book summary with the archive document it was built from.
type bookData struct {
	book    *resource.Book
	archive *ArchiveBook
	ref     orn.BookRef
}

func (d *bookData) mapper() tree.Mapper { return tree.NewMapper(d.ref) }

// libraryData is a library record without contents.
func libraryData(lang string) *resource.Library {
	title := libraryTitle
	if lang != "all" {
		title += " (" + display.English.Languages().Name(language.Make(lang)) + ")"
	}
	return &resource.Library{
		ID:    "library/" + lang,
		ORN:   orn.Library.Format(orn.Params{orn.ParamLanguage: lang}),
		Type:  resource.TypeLibrary,
		Title: title,
		URLs:  resource.URLs{Main: subjectsURL},
	}
}

// Library lists the released live books in a language ("all" for every language).
func (b *Books) Library(ctx context.Context, lang string) (*resource.Library, error) {
	if lang == "" {
		lang = "all"
	}
	live, err := b.refreshLiveBooks(ctx)
	if err != nil {
		return nil, err
	}
	rel, err := b.Release(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, id := range rel.BookIDs() {
		if live[id] {
			ids = append(ids, id)
		}
	}

	books, err := pool.Map(b.cfg.LibraryFanout, ids, func(_ int, id string) (*resource.Book, error) {
		return b.Book(ctx, orn.BookRef{ID: id})
	})
	if err != nil {
		return nil, fmt.Errorf("library %s: %w", lang, err)
	}

	lib := libraryData(lang)
	lib.Contents = make([]*resource.Book, 0, len(books))
	for _, book := range books {
		if lang == "all" || book.Language == lang {
			lib.Contents = append(lib.Contents, book)
		}
	}
	return lib, nil
}

func (b *Books) bookData(ctx context.Context, ref orn.BookRef) (*bookData, error) {
	return b.common.Do(ctx, ref.Key(), func(ctx context.Context) (*bookData, error) {
		cms, err := b.oswebBook(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		archive, err := b.Archive(ctx, ref)
		if err != nil {
			return nil, err
		}
		return &bookData{book: buildBook(ref, cms, archive), archive: archive, ref: ref}, nil
	})
}

func buildBook(ref orn.BookRef, cms *oswebBook, archive *ArchiveBook) *resource.Book {
	book := &resource.Book{
		ID:           ref.ID,
		ORN:          orn.Book.Format(ref.Params(false)),
		VersionedORN: orn.Book.Format(ref.Params(true)),
		Type:         resource.TypeBook,
		State:        cms.BookState,
		Title:        cms.Title,
		Subjects:     make([]resource.Subject, 0, len(cms.Subjects)),
		Categories:   make([]resource.Category, 0, len(cms.Categories)),
		Language:     archive.Language,
		Slug:         cms.Meta.Slug,
		Theme:        cms.CoverColor,
		License: resource.License{
			Holder: licenseHolder,
			Name:   archive.License.Name,
			URL:    archive.License.URL,
		},
		URLs: resource.URLs{
			Main:        cms.Meta.HTMLURL,
			Information: cms.Meta.HTMLURL,
			Experience:  cms.WebviewRexLink,
		},
		Images: resource.Images{
			Main:   cms.CoverURL,
			Square: cms.CoverURL,
			Wide:   cms.TitleImageURL,
		},
	}
	if cms.PromoteImage != nil {
		book.Images.Promotional = cms.PromoteImage.Meta.DownloadURL
	}
	for _, s := range cms.Subjects {
		book.Subjects = append(book.Subjects, resource.Subject{ID: s.ID, Name: s.SubjectName})
	}
	for _, c := range cms.Categories {
		book.Categories = append(book.Categories, resource.Category{
			ID: c.ID, Name: c.SubjectCategory, SubjectName: c.SubjectName,
		})
	}
	if m := defaultPageSlug.FindStringSubmatch(cms.WebviewRexLink); m != nil {
		if raw := tree.FindBySlug(archive.Tree, m[1]); raw != nil {
			book.DefaultPage = tree.NewMapper(ref).Map(raw)
		}
	}
	return book
}

// Book returns the book summary without its table of contents.
func (b *Books) Book(ctx context.Context, ref orn.BookRef) (*resource.Book, error) {
	d, err := b.bookData(ctx, ref)
	if err != nil {
		return nil, err
	}
	return d.book, nil
}

// BookDetail returns the book with its table of contents.
func (b *Books) BookDetail(ctx context.Context, ref orn.BookRef) (*resource.Book, error) {
	d, err := b.bookData(ctx, ref)
	if err != nil {
		return nil, err
	}
	detail := *d.book
	detail.Contents = d.mapper().MapAll(d.archive.Tree.Contents)
	return &detail, nil
}

// Subbook returns a unit or chapter with its contents.
func (b *Books) Subbook(ctx context.Context, ref orn.BookRef, subbookID string) (*resource.Subbook, error) {
	d, err := b.bookData(ctx, ref)
	if err != nil {
		return nil, err
	}
	raw := tree.FindByID(d.archive.Tree, subbookID)
	if raw == nil || !raw.IsSubtree() {
		return nil, fmt.Errorf("subbook %s in book %s: %w", subbookID, ref.ID, domain.ErrNotFound)
	}

	m := d.mapper()
	node := m.NodeData(raw)
	return &resource.Subbook{
		ID:           subbookID,
		ORN:          node.ORN,
		VersionedORN: node.VersionedORN,
		Type:         resource.TypeSubbook,
		Title:        node.Title,
		TitleParts:   node.TitleParts,
		Book:         d.book,
		DefaultPage:  node.DefaultPage,
		Contents:     m.MapAll(raw.Contents),
	}, nil
}

// Page returns a page with its breadcrumb context.
func (b *Books) Page(ctx context.Context, ref orn.BookRef, pageID string) (*resource.Page, error) {
	d, err := b.bookData(ctx, ref)
	if err != nil {
		return nil, err
	}
	pc, ok := d.mapper().Context(d.archive.Tree, pageID)
	if !ok || pc.Node.Type != resource.TypePage {
		return nil, fmt.Errorf("page %s in book %s: %w", pageID, ref.ID, domain.ErrNotFound)
	}

	doc, err := b.archivePage(ctx, ref, pageID)
	if err != nil {
		return nil, err
	}
	rexURL := resource.PageURL(d.book.Slug, doc.Slug)

	return &resource.Page{
		ID:            pc.Node.ID,
		Title:         doc.Title,
		TitleParts:    pc.Node.TitleParts,
		ORN:           pc.Node.ORN,
		VersionedORN:  pc.Node.VersionedORN,
		Type:          resource.TypePage,
		Slug:          doc.Slug,
		TocType:       pc.Node.TocType,
		TocTargetType: pc.Node.TocTargetType,
		Context:       pc.Context,
		ContextTitle:  pc.ContextTitle,
		ContextTitles: pc.ContextTitles,
		Book:          d.book,
		URLs:          resource.URLs{Main: rexURL, Experience: rexURL},
	}, nil
}

// Element returns an anchor inside a page.
func (b *Books) Element(ctx context.Context, ref orn.BookRef, pageID, elementID string) (*resource.Element, error) {
	page, err := b.Page(ctx, ref, pageID)
	if err != nil {
		return nil, err
	}
	url := page.URLs.Experience + "#" + elementID
	return &resource.Element{
		ORN:          orn.Element.Format(ref.With(false, orn.ParamPageID, pageID, orn.ParamElementID, elementID)),
		VersionedORN: orn.Element.Format(ref.With(true, orn.ParamPageID, pageID, orn.ParamElementID, elementID)),
		ID:           elementID,
		Title:        elementTitlePrefix + page.ContextTitle,
		Type:         resource.TypeElement,
		Page:         page,
		URLs:         resource.URLs{Main: url, Experience: url},
	}, nil
}
