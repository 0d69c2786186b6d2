package result

import (
	"testing"

	json "github.com/goccy/go-json"

	"github.com/openstax/openstax-resource-names/internal/domain/resource"
)

func TestResult_DropsEmptyGroups(t *testing.T) {
	var r Result
	r.Add(Group{Type: "book", Name: "Books"})
	r.Add(Group{Type: "library", Name: "Libraries", Items: []resource.Resource{resource.NewNotFound("x")}})
	if r.Len() != 1 || r.Groups()[0].Type != "library" {
		t.Fatalf("unexpected groups %+v", r.Groups())
	}
}

func TestResult_MarshalKeepsOrder(t *testing.T) {
	var r Result
	r.Add(Group{Type: "library", Name: "Libraries", Items: []resource.Resource{resource.NewNotFound("a")}})
	r.Add(Group{Type: "book", Name: "Books", Items: []resource.Resource{resource.NewNotFound("b")}})

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"library":{"name":"Libraries","items":[{"type":"not-found","orn":"a"}]},` +
		`"book":{"name":"Books","items":[{"type":"not-found","orn":"b"}]}}`
	if string(data) != want {
		t.Errorf("got  %s\nwant %s", data, want)
	}
}

func TestResult_MarshalEmpty(t *testing.T) {
	data, err := json.Marshal(Result{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("got %s", data)
	}
}
