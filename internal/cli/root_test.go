package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/openstax/openstax-resource-names/internal/domain/resource"
	"github.com/openstax/openstax-resource-names/internal/domain/search/request"
	"github.com/openstax/openstax-resource-names/internal/domain/search/result"
	"github.com/openstax/openstax-resource-names/internal/usecase/locate"
)

type mockLocator struct {
	names []string
	opts  int
}

func (m *mockLocator) LocateAll(_ context.Context, names []string, opts ...locate.Option) ([]resource.Resource, error) {
	m.names, m.opts = names, len(opts)
	out := make([]resource.Resource, len(names))
	for i, n := range names {
		out[i] = resource.NewNotFound(n)
	}
	return out, nil
}

type mockSearcher struct {
	req *request.Request
}

func (m *mockSearcher) Search(_ context.Context, req *request.Request) (result.Result, error) {
	m.req = req
	return result.Result{}, nil
}

type mockCache struct {
	evicted []string
	purged  int
	err     error
}

func (m *mockCache) Evict(_ context.Context, name string) error {
	m.evicted = append(m.evicted, name)
	return m.err
}

func (m *mockCache) Purge(context.Context) (int, error) {
	return m.purged, m.err
}

func run(t *testing.T, deps *Deps, args ...string) (string, error) {
	t.Helper()
	var called, closed bool
	factory := func(context.Context, string) (*Deps, func(), error) {
		called = true
		return deps, func() { closed = true }, nil
	}
	root := NewRootCmd(factory)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	if called && !closed {
		t.Error("cleanup was not called")
	}
	return out.String(), err
}

func TestLocateCmd(t *testing.T) {
	loc := &mockLocator{}
	out, err := run(t, &Deps{Locator: loc}, "locate", "--skip-cache", "-c", "3", "a", "b")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if len(loc.names) != 2 || loc.opts != 2 {
		t.Errorf("names=%v opts=%d", loc.names, loc.opts)
	}

	var body struct {
		Items []map[string]string `json:"items"`
	}
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(body.Items) != 2 || body.Items[1]["orn"] != "b" {
		t.Errorf("items: %+v", body.Items)
	}
}

func TestLocateCmd_RequiresArgs(t *testing.T) {
	if _, err := run(t, &Deps{Locator: &mockLocator{}}, "locate"); err == nil {
		t.Fatal("expected error without names")
	}
}

func TestSearchCmd(t *testing.T) {
	s := &mockSearcher{}
	out, err := run(t, &Deps{Searcher: s}, "search", "newton's", "laws", "-t", "book,book:page", "-l", "7")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if s.req.Query() != "newton's laws" || s.req.Limit() != 7 || len(s.req.Types()) != 2 {
		t.Errorf("request: %q %d %v", s.req.Query(), s.req.Limit(), s.req.Types())
	}
	if strings.TrimSpace(out) != "{}" {
		t.Errorf("output: %q", out)
	}
}

func TestCacheCmds(t *testing.T) {
	c := &mockCache{purged: 4}

	out, err := run(t, &Deps{Cache: c}, "cache", "evict", "a", "b")
	if err != nil {
		t.Fatalf("evict: %v", err)
	}
	if len(c.evicted) != 2 || !strings.Contains(out, "evicted 2") {
		t.Errorf("evicted=%v out=%q", c.evicted, out)
	}

	out, err = run(t, &Deps{Cache: c}, "cache", "purge")
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if !strings.Contains(out, "purged 4") {
		t.Errorf("out=%q", out)
	}
}

func TestCacheCmds_Disabled(t *testing.T) {
	if _, err := run(t, &Deps{}, "cache", "purge"); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("purge: got %v, want ErrCacheDisabled", err)
	}
	if _, err := run(t, &Deps{}, "cache", "evict", "a"); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("evict: got %v, want ErrCacheDisabled", err)
	}
}

func TestCacheCmds_Error(t *testing.T) {
	boom := errors.New("store down")
	if _, err := run(t, &Deps{Cache: &mockCache{err: boom}}, "cache", "evict", "a"); !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}
}

func TestVersionCmd_SkipsFactory(t *testing.T) {
	root := NewRootCmd(func(context.Context, string) (*Deps, func(), error) {
		t.Fatal("factory must not run for version")
		return nil, nil, nil
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--json"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out.String(), `"version"`) {
		t.Errorf("out=%q", out.String())
	}
}

func TestFactoryError(t *testing.T) {
	root := NewRootCmd(func(context.Context, string) (*Deps, func(), error) {
		return nil, nil, errors.New("no config")
	})
	root.SetArgs([]string{"locate", "a"})
	if err := root.Execute(); err == nil || err.Error() != "no config" {
		t.Errorf("got %v", err)
	}
}
