package content

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/openstax/openstax-resource-names/internal/domain"
)

const oswebFields = "cnx_id,authors,publish_date,cover_color,amazon_link,book_state,book_subjects," +
	"book_categories,promote_image,webview_rex_link,cover_url,title_image_url"

const oswebPageSize = 100

// oswebBook is a book page from the CMS.
type oswebBook struct {
	CnxID          string `json:"cnx_id"`
	Title          string `json:"title"`
	BookState      string `json:"book_state"`
	CoverColor     string `json:"cover_color"`
	CoverURL       string `json:"cover_url"`
	TitleImageURL  string `json:"title_image_url"`
	WebviewRexLink string `json:"webview_rex_link"`
	Subjects       []struct {
		ID          int    `json:"id"`
		SubjectName string `json:"subject_name"`
	} `json:"book_subjects"`
	Categories []struct {
		ID              int    `json:"id"`
		SubjectName     string `json:"subject_name"`
		SubjectCategory string `json:"subject_category"`
	} `json:"book_categories"`
	PromoteImage *struct {
		Meta struct {
			DownloadURL string `json:"download_url"`
		} `json:"meta"`
	} `json:"promote_image"`
	Meta struct {
		Slug    string `json:"slug"`
		HTMLURL string `json:"html_url"`
	} `json:"meta"`
}

type oswebListing struct {
	Meta struct {
		TotalCount int `json:"total_count"`
	} `json:"meta"`
	Items []*oswebBook `json:"items"`
}

func (b *Books) oswebQuery(params url.Values) string {
	params.Set("type", "books.Book")
	params.Set("fields", oswebFields)
	return b.cfg.CMSPagesURL + "?" + params.Encode()
}

// refreshLiveBooks pages through the live books listing, records every book
// seen and returns the set of live book ids.
func (b *Books) refreshLiveBooks(ctx context.Context) (map[string]bool, error) {
	live := make(map[string]bool)
	total, offset := 1, 0
	for offset < total {
		var page oswebListing
		q := b.oswebQuery(url.Values{
			"book_state": {"live"},
			"offset":     {strconv.Itoa(offset)},
			"limit":      {strconv.Itoa(oswebPageSize)},
		})
		if err := getJSON(ctx, b.fetch, q, &page); err != nil {
			return nil, fmt.Errorf("live books: %w", err)
		}
		if len(page.Items) == 0 {
			break
		}

		b.mu.Lock()
		for _, item := range page.Items {
			b.live[item.CnxID] = item
			live[item.CnxID] = true
		}
		b.mu.Unlock()

		total = page.Meta.TotalCount
		offset += len(page.Items)
	}
	return live, nil
}

// oswebBook returns the CMS record of a book, from the live listing when it
// has been seen there.
func (b *Books) oswebBook(ctx context.Context, id string) (*oswebBook, error) {
	b.mu.RLock()
	cached, ok := b.live[id]
	b.mu.RUnlock()
	if ok {
		return cached, nil
	}

	var listing oswebListing
	if err := getJSON(ctx, b.fetch, b.oswebQuery(url.Values{"cnx_id": {id}}), &listing); err != nil {
		return nil, fmt.Errorf("cms book %s: %w", id, err)
	}
	if len(listing.Items) == 0 {
		return nil, fmt.Errorf("cms book %s: %w", id, domain.ErrNotFound)
	}
	return listing.Items[0], nil
}
