package orn

// Prefix is the scheme and host shared by every resource name.
const Prefix = "https://openstax.org/orn/"

// Parameter names used by the content templates.
const (
	ParamLanguage       = "language"
	ParamBookID         = "bookId"
	ParamContentVersion = "bookContentVersion"
	ParamArchiveVersion = "bookArchiveVersion"
	ParamSubbookID      = "subbookId"
	ParamPageID         = "pageId"
	ParamElementID      = "elementId"
	ParamID             = "id"
)

const bookIdentity = "{bookId}[@{bookContentVersion}[:{bookArchiveVersion}]]"

// Content templates. Each one formats both the unversioned and the versioned
// name of a resource: the versioned form is produced by setting the version params.
var (
	Library   = MustCompile(Prefix + "library[/{language}]")
	Book      = MustCompile(Prefix + "book/" + bookIdentity)
	Subbook   = MustCompile(Prefix + "book:subbook/" + bookIdentity + ":{subbookId}")
	Page      = MustCompile(Prefix + "book:page/" + bookIdentity + ":{pageId}")
	Element   = MustCompile(Prefix + "book:page:element/" + bookIdentity + ":{pageId}:{elementId}")
	Ancillary = MustCompile(Prefix + "ancillary/{id}")
)

// BookRef identifies a book and, optionally, the content and archive versions it was read at.
type BookRef struct {
	ID             string
	ContentVersion string
	ArchiveVersion string
}

// BookRefFrom reads the book identity out of matched params.
func BookRefFrom(p Params) BookRef {
	return BookRef{
		ID:             p.Get(ParamBookID),
		ContentVersion: p.Get(ParamContentVersion),
		ArchiveVersion: p.Get(ParamArchiveVersion),
	}
}

// Params returns the book identity as template params. When versioned is false
// the version params are left out.
func (r BookRef) Params(versioned bool) Params {
	p := Params{ParamBookID: r.ID}
	if versioned {
		p[ParamContentVersion] = r.ContentVersion
		p[ParamArchiveVersion] = r.ArchiveVersion
	}
	return p
}

// With returns the book params extended with extra key/value pairs.
func (r BookRef) With(versioned bool, kv ...string) Params {
	p := r.Params(versioned)
	for i := 0; i+1 < len(kv); i += 2 {
		p[kv[i]] = kv[i+1]
	}
	return p
}

// Key is a stable string form used for memoization.
func (r BookRef) Key() string {
	return r.ID + "@" + r.ContentVersion + ":" + r.ArchiveVersion
}
