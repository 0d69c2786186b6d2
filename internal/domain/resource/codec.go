package resource

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/openstax/openstax-resource-names/internal/domain"
)

// Decode restores a record from JSON using its "type" field.
func Decode(data []byte) (Resource, error) {
	var head struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, domain.Malformed("decode resource: %v", err)
	}

	var r Resource
	switch head.Type {
	case TypeLibrary:
		r = &Library{}
	case TypeBook:
		r = &Book{}
	case TypeSubbook:
		r = &Subbook{}
	case TypePage:
		r = &Page{}
	case TypeElement:
		r = &Element{}
	case TypeAncillary:
		r = &Ancillary{}
	case TypeNotFound:
		r = &NotFound{}
	default:
		return nil, domain.Malformed("unknown resource type %q", head.Type)
	}

	if err := json.Unmarshal(data, r); err != nil {
		return nil, domain.Malformed("decode %s: %v", head.Type, err)
	}
	return r, nil
}

// Encode serializes a record.
func Encode(r Resource) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.Kind(), err)
	}
	return data, nil
}
