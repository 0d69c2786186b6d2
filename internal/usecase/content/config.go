// Package content resolves and searches OpenStax library, book and ancillary resources.
package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/openstax/openstax-resource-names/internal/domain"
)

// Default upstream locations.
const (
	DefaultHost            = "https://openstax.org"
	DefaultCMSPagesURL     = "https://openstax.org/apps/cms/api/v2/pages"
	DefaultReleaseURL      = "https://openstax.org/rex/release.json"
	DefaultAncillariesHost = "https://ancillaries.openstax.org/"
	DefaultLibraryFanout   = 2
)

// Config locates the upstream content services.
type Config struct {
	Host        string
	CMSPagesURL string
	ReleaseURL  string
	// PreloadDir optionally holds release.json and archive book files
	// consulted before the network.
	PreloadDir    string
	LibraryFanout int
}

// DefaultConfig returns the production upstream locations.
func DefaultConfig() Config {
	return Config{
		Host:          DefaultHost,
		CMSPagesURL:   DefaultCMSPagesURL,
		ReleaseURL:    DefaultReleaseURL,
		LibraryFanout: DefaultLibraryFanout,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Host == "" {
		c.Host = d.Host
	}
	if c.CMSPagesURL == "" {
		c.CMSPagesURL = d.CMSPagesURL
	}
	if c.ReleaseURL == "" {
		c.ReleaseURL = d.ReleaseURL
	}
	if c.LibraryFanout <= 0 {
		c.LibraryFanout = d.LibraryFanout
	}
	return c
}

// getJSON fetches url, checks the status and decodes the body into out.
func getJSON(ctx context.Context, f domain.Fetcher, url string, out any) error {
	resp, err := f.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	if err := domain.AcceptResponse(resp); err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, domain.Malformed("%v", err))
	}
	return nil
}

// readPreloaded decodes a file from the preload directory. ok is false when
// preloading is disabled or the file is absent or unreadable.
func (c Config) readPreloaded(name string, out any) bool {
	if c.PreloadDir == "" {
		return false
	}
	data, err := os.ReadFile(filepath.Join(c.PreloadDir, filepath.Base(name)))
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}
