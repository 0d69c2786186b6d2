package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openstax/openstax-resource-names/internal/domain/resource"
	"github.com/openstax/openstax-resource-names/internal/domain/search/request"
	"github.com/openstax/openstax-resource-names/internal/domain/search/result"
	"github.com/openstax/openstax-resource-names/internal/usecase/locate"
)

type mockLocator struct {
	locateAllFn func(ctx context.Context, names []string, opts []locate.Option) ([]resource.Resource, error)
}

func (m *mockLocator) LocateAll(ctx context.Context, names []string, opts ...locate.Option) ([]resource.Resource, error) {
	return m.locateAllFn(ctx, names, opts)
}

type mockSearcher struct {
	searchFn func(ctx context.Context, req *request.Request) (result.Result, error)
}

func (m *mockSearcher) Search(ctx context.Context, req *request.Request) (result.Result, error) {
	return m.searchFn(ctx, req)
}

func callRequest(name string, args any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Request: mcp.Request{Method: "tools/call"},
		Params:  mcp.CallToolParams{Name: name, Arguments: args},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", res.Content[0])
	}
	return text.Text
}

func TestNewServer(t *testing.T) {
	if s := NewServer(&mockLocator{}, nil, 0); s == nil {
		t.Fatal("NewServer() returned nil")
	}
	if s := NewServer(&mockLocator{}, &mockSearcher{}, 4); s == nil {
		t.Fatal("NewServer() returned nil")
	}
}

func TestLocateHandler(t *testing.T) {
	var gotNames []string
	var gotOpts int
	loc := &mockLocator{
		locateAllFn: func(_ context.Context, names []string, opts []locate.Option) ([]resource.Resource, error) {
			gotNames, gotOpts = names, len(opts)
			out := make([]resource.Resource, len(names))
			for i, n := range names {
				out[i] = resource.NewNotFound(n)
			}
			return out, nil
		},
	}
	args := LocateArgs{ORN: "a, b", SkipCache: true}

	res, err := locateHandler(loc, 3)(context.Background(), callRequest("locate", args), args)
	if err != nil {
		t.Fatalf("locate returned error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if len(gotNames) != 2 || gotNames[1] != "b" {
		t.Errorf("names: got %v", gotNames)
	}
	if gotOpts != 2 {
		t.Errorf("options: got %d, want 2", gotOpts)
	}

	var body struct {
		Items []map[string]string `json:"items"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 2 || body.Items[0]["type"] != "not-found" || body.Items[0]["orn"] != "a" {
		t.Errorf("items: %+v", body.Items)
	}
}

func TestLocateHandler_Validation(t *testing.T) {
	args := LocateArgs{ORN: " , "}
	res, err := locateHandler(&mockLocator{}, 0)(context.Background(), callRequest("locate", args), args)
	if err != nil {
		t.Fatalf("locate returned error: %v", err)
	}
	if !res.IsError || resultText(t, res) != "orn is required" {
		t.Errorf("expected validation error, got %+v", res)
	}
}

func TestLocateHandler_Failure(t *testing.T) {
	loc := &mockLocator{
		locateAllFn: func(context.Context, []string, []locate.Option) ([]resource.Resource, error) {
			return nil, errors.New("upstream down")
		},
	}
	args := LocateArgs{ORN: "a"}
	res, err := locateHandler(loc, 0)(context.Background(), callRequest("locate", args), args)
	if err != nil {
		t.Fatalf("locate returned error: %v", err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "upstream down") {
		t.Errorf("expected tool error, got %+v", res)
	}
}

func TestSearchHandler(t *testing.T) {
	var got *request.Request
	s := &mockSearcher{
		searchFn: func(_ context.Context, req *request.Request) (result.Result, error) {
			got = req
			var res result.Result
			res.Add(result.Group{Type: "book", Name: "Book", Items: []resource.Resource{
				&resource.Book{ID: "b1", Type: resource.TypeBook, Title: "Physics"},
			}})
			return res, nil
		},
	}
	args := SearchArgs{Query: "physics", Limit: 2, Type: "book"}

	res, err := searchHandler(s)(context.Background(), callRequest("search", args), args)
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if got.Limit() != 2 || len(got.Types()) != 1 || got.Strategy() != request.DefaultStrategy {
		t.Errorf("request: limit=%d types=%v strategy=%q", got.Limit(), got.Types(), got.Strategy())
	}
	if !strings.Contains(resultText(t, res), `"book":{"name":"Book"`) {
		t.Errorf("body: %s", resultText(t, res))
	}
}

func TestSearchHandler_Validation(t *testing.T) {
	called := false
	s := &mockSearcher{
		searchFn: func(context.Context, *request.Request) (result.Result, error) {
			called = true
			return result.Result{}, nil
		},
	}
	args := SearchArgs{}
	res, err := searchHandler(s)(context.Background(), callRequest("search", args), args)
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "a query string is required") {
		t.Errorf("expected validation error, got %+v", res)
	}
	if called {
		t.Error("searcher should not run for invalid requests")
	}
}
