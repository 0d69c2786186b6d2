package content

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/openstax/openstax-resource-names/internal/domain"
	"github.com/openstax/openstax-resource-names/internal/domain/orn"
	"github.com/openstax/openstax-resource-names/internal/domain/tree"
)

const archivePrefix = "/apps/archive/"

// Release is the published release manifest.
type Release struct {
	ID         string                  `json:"id"`
	ArchiveURL string                  `json:"archiveUrl"`
	Books      map[string]ReleasedBook `json:"books"`
}

// ReleasedBook is the release configuration of one book.
type ReleasedBook struct {
	DefaultVersion  string `json:"defaultVersion"`
	ArchiveOverride string `json:"archiveOverride,omitempty"`
	Retired         bool   `json:"retired,omitempty"`
}

// BookIDs returns the ids of books that are not retired, sorted.
func (r *Release) BookIDs() []string {
	ids := make([]string, 0, len(r.Books))
	for id, b := range r.Books {
		if !b.Retired {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// ArchiveInfo is where and at which version a book's archive is read.
type ArchiveInfo struct {
	Path        string
	BookVersion string
}

// ArchiveBook is a book document from the content archive.
type ArchiveBook struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Language string `json:"language"`
	License  struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"license"`
	Tree *tree.RawNode `json:"tree"`
}

// archivePage is a page document from the content archive.
type archivePage struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Release returns the release manifest, preferring the preload directory.
func (b *Books) Release(ctx context.Context) (*Release, error) {
	return b.release.Do(ctx, "release", func(ctx context.Context) (*Release, error) {
		var rel Release
		if b.cfg.readPreloaded("release.json", &rel) {
			return &rel, nil
		}
		if err := getJSON(ctx, b.fetch, b.cfg.ReleaseURL, &rel); err != nil {
			return nil, fmt.Errorf("release manifest: %w", err)
		}
		return &rel, nil
	})
}

// HealthCheck fetches the release manifest, bypassing memoization.
func (b *Books) HealthCheck(ctx context.Context) error {
	var rel Release
	if err := getJSON(ctx, b.fetch, b.cfg.ReleaseURL, &rel); err != nil {
		return fmt.Errorf("release manifest: %w", err)
	}
	return nil
}

// ArchiveInfo resolves the archive path and version of a book. An explicit
// content and archive version win; gaps are filled from the release manifest.
func (b *Books) ArchiveInfo(ctx context.Context, ref orn.BookRef) (ArchiveInfo, error) {
	var path string
	if ref.ArchiveVersion != "" {
		path = archivePrefix + ref.ArchiveVersion
		if ref.ContentVersion != "" {
			return ArchiveInfo{Path: path, BookVersion: ref.ContentVersion}, nil
		}
	}

	rel, err := b.Release(ctx)
	if err != nil {
		return ArchiveInfo{}, err
	}
	cfg, ok := rel.Books[ref.ID]
	if !ok {
		return ArchiveInfo{}, fmt.Errorf("book %s is not released: %w", ref.ID, domain.ErrNotFound)
	}

	info := ArchiveInfo{Path: path, BookVersion: ref.ContentVersion}
	if info.Path == "" {
		info.Path = cfg.ArchiveOverride
	}
	if info.Path == "" {
		info.Path = rel.ArchiveURL
	}
	if info.BookVersion == "" {
		info.BookVersion = cfg.DefaultVersion
	}
	return info, nil
}

// preloadName is the file name a preloaded archive book is stored under.
func preloadName(info ArchiveInfo, bookID string) string {
	return strings.TrimPrefix(info.Path, archivePrefix) + "-" + bookID + "@" + info.BookVersion + ".json"
}

// Archive returns the archive document of a book.
func (b *Books) Archive(ctx context.Context, ref orn.BookRef) (*ArchiveBook, error) {
	info, err := b.ArchiveInfo(ctx, ref)
	if err != nil {
		return nil, err
	}
	key := preloadName(info, ref.ID)
	return b.archives.Do(ctx, key, func(ctx context.Context) (*ArchiveBook, error) {
		var book ArchiveBook
		if b.cfg.readPreloaded(key, &book) && book.Tree != nil {
			return &book, nil
		}
		book = ArchiveBook{}
		url := b.cfg.Host + info.Path + "/contents/" + ref.ID + "@" + info.BookVersion + ".json"
		if err := getJSON(ctx, b.fetch, url, &book); err != nil {
			return nil, fmt.Errorf("archive book %s: %w", ref.ID, err)
		}
		if book.Tree == nil {
			return nil, fmt.Errorf("archive book %s: %w", ref.ID, domain.Malformed("missing tree"))
		}
		return &book, nil
	})
}

func (b *Books) archivePage(ctx context.Context, ref orn.BookRef, pageID string) (*archivePage, error) {
	info, err := b.ArchiveInfo(ctx, ref)
	if err != nil {
		return nil, err
	}
	url := b.cfg.Host + info.Path + "/contents/" + ref.ID + "@" + info.BookVersion + ":" + pageID + ".json"
	var page archivePage
	if err := getJSON(ctx, b.fetch, url, &page); err != nil {
		return nil, fmt.Errorf("archive page %s: %w", pageID, err)
	}
	return &page, nil
}
