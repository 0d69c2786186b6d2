// Package resource defines the records a resource name resolves to.
package resource

// Type discriminates resource records. It is serialized as the "type" field.
type Type string

// Resource types.
const (
	TypeLibrary   Type = "library"
	TypeBook      Type = "book"
	TypeSubbook   Type = "book:subbook"
	TypePage      Type = "book:page"
	TypeElement   Type = "book:page:element"
	TypeAncillary Type = "ancillary"
	TypeNotFound  Type = "not-found"
)

// Resource is any record returned by a lookup.
type Resource interface {
	ResourceName() string
	Kind() Type
}

// Visitable is implemented by resources that have a browsable location.
type Visitable interface {
	MainURL() string
}

// URLs lists the browsable locations of a resource.
type URLs struct {
	Main        string `json:"main"`
	Information string `json:"information,omitempty"`
	Experience  string `json:"experience,omitempty"`
}

// TitleParts is a title split into its numbering and text spans.
type TitleParts struct {
	Title      string `json:"title"`
	Number     string `json:"number,omitempty"`
	ShortTitle string `json:"shortTitle,omitempty"`
}

// Label returns the numbering text when present, else the full title.
func (t TitleParts) Label() string {
	if t.Number != "" {
		return t.Number
	}
	return t.Title
}

// Node is a content tree entry: a subbook (with Contents) or a page leaf.
// Nodes are built once from an archive tree and never mutated.
type Node struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	TitleParts    TitleParts `json:"titleParts"`
	ORN           string     `json:"orn"`
	VersionedORN  string     `json:"versionedOrn"`
	Type          Type       `json:"type"`
	Slug          string     `json:"slug,omitempty"`
	TocType       string     `json:"tocType,omitempty"`
	TocTargetType string     `json:"tocTargetType,omitempty"`
	DefaultPage   *Node      `json:"default_page,omitempty"`
	Contents      []*Node    `json:"contents,omitempty"`
}

// Library is a language-filtered listing of live books.
type Library struct {
	ID       string  `json:"id"`
	ORN      string  `json:"orn"`
	Type     Type    `json:"type"`
	Title    string  `json:"title"`
	URLs     URLs    `json:"urls"`
	Contents []*Book `json:"contents,omitempty"`
}

func (l *Library) ResourceName() string { return l.ORN }
func (l *Library) Kind() Type           { return TypeLibrary }
func (l *Library) MainURL() string      { return l.URLs.Main }

// Subject is a book subject.
type Subject struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Category is a subject category a book is listed under.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	SubjectName string `json:"subject_name"`
}

// License describes the terms a book is published under.
type License struct {
	Holder string `json:"holder"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}

// Images lists book artwork.
type Images struct {
	Main        string `json:"main,omitempty"`
	Square      string `json:"square,omitempty"`
	Wide        string `json:"wide,omitempty"`
	Promotional string `json:"promotional,omitempty"`
}

// Book is a published book. Contents is set only for detailed lookups.
type Book struct {
	ID           string     `json:"id"`
	ORN          string     `json:"orn"`
	VersionedORN string     `json:"versionedOrn"`
	Type         Type       `json:"type"`
	State        string     `json:"state"`
	Title        string     `json:"title"`
	Subjects     []Subject  `json:"subjects"`
	Categories   []Category `json:"categories"`
	Language     string     `json:"language"`
	Slug         string     `json:"slug"`
	DefaultPage  *Node      `json:"default_page,omitempty"`
	Theme        string     `json:"theme"`
	License      License    `json:"license"`
	URLs         URLs       `json:"urls"`
	Images       Images     `json:"images"`
	Contents     []*Node    `json:"contents,omitempty"`
}

func (b *Book) ResourceName() string { return b.ORN }
func (b *Book) Kind() Type           { return TypeBook }
func (b *Book) MainURL() string      { return b.URLs.Main }

// Subbook is a unit or chapter inside a book.
type Subbook struct {
	ID           string     `json:"id"`
	ORN          string     `json:"orn"`
	VersionedORN string     `json:"versionedOrn"`
	Type         Type       `json:"type"`
	Title        string     `json:"title"`
	TitleParts   TitleParts `json:"titleParts"`
	Book         *Book      `json:"book"`
	DefaultPage  *Node      `json:"default_page,omitempty"`
	Contents     []*Node    `json:"contents"`
}

func (s *Subbook) ResourceName() string { return s.ORN }
func (s *Subbook) Kind() Type           { return TypeSubbook }

// MainURL is the subbook's default page when it has one.
func (s *Subbook) MainURL() string {
	if s.DefaultPage == nil || s.Book == nil || s.DefaultPage.Slug == "" {
		return ""
	}
	return PageURL(s.Book.Slug, s.DefaultPage.Slug)
}

// Page is a single book page with its breadcrumb context.
type Page struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	TitleParts    TitleParts       `json:"titleParts"`
	ORN           string           `json:"orn"`
	VersionedORN  string           `json:"versionedOrn"`
	Type          Type             `json:"type"`
	Slug          string           `json:"slug"`
	TocType       string           `json:"tocType,omitempty"`
	TocTargetType string           `json:"tocTargetType,omitempty"`
	Context       map[string]*Node `json:"context"`
	ContextTitle  string           `json:"contextTitle"`
	ContextTitles []string         `json:"contextTitles"`
	Book          *Book            `json:"book"`
	URLs          URLs             `json:"urls"`
}

func (p *Page) ResourceName() string { return p.ORN }
func (p *Page) Kind() Type           { return TypePage }
func (p *Page) MainURL() string      { return p.URLs.Main }

// Element is an anchor inside a page.
type Element struct {
	ORN          string `json:"orn"`
	VersionedORN string `json:"versionedOrn"`
	ID           string `json:"id"`
	Title        string `json:"title"`
	Type         Type   `json:"type"`
	Page         *Page  `json:"page"`
	URLs         URLs   `json:"urls"`
}

func (e *Element) ResourceName() string { return e.ORN }
func (e *Element) Kind() Type           { return TypeElement }
func (e *Element) MainURL() string      { return e.URLs.Main }

// Icon is an ancillary type icon.
type Icon struct {
	URL string `json:"url"`
}

// AncillaryType describes the kind of an ancillary resource.
type AncillaryType struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Icon      *Icon  `json:"icon,omitempty"`
}

// Ancillary is supplementary material published alongside books.
type Ancillary struct {
	ID            string        `json:"id"`
	ORN           string        `json:"orn"`
	Type          Type          `json:"type"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	AncillaryType AncillaryType `json:"ancillaryType"`
	URLs          URLs          `json:"urls"`
}

func (a *Ancillary) ResourceName() string { return a.ORN }
func (a *Ancillary) Kind() Type           { return TypeAncillary }
func (a *Ancillary) MainURL() string      { return a.URLs.Main }

// NotFound is returned for names that match no registered pattern.
type NotFound struct {
	Type Type   `json:"type"`
	ORN  string `json:"orn"`
}

// NewNotFound creates the not-found record for name.
func NewNotFound(name string) *NotFound {
	return &NotFound{Type: TypeNotFound, ORN: name}
}

func (n *NotFound) ResourceName() string { return n.ORN }
func (n *NotFound) Kind() Type           { return TypeNotFound }

// PageURL is the reading experience URL of a page.
func PageURL(bookSlug, pageSlug string) string {
	return "https://openstax.org/books/" + bookSlug + "/pages/" + pageSlug
}
