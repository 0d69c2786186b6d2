package domain

import (
	"errors"
	"testing"
)

func TestAcceptResponse_DefaultOK(t *testing.T) {
	if err := AcceptResponse(&Response{Status: 200, Body: []byte("OK")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAcceptResponse_CustomCodes(t *testing.T) {
	if err := AcceptResponse(&Response{Status: 201}, 201); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := AcceptResponse(&Response{Status: 200, Body: []byte("OK")}, 201)
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if err.Error() != "upstream error: OK" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestAcceptResponse_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{400, ErrInvalidRequest},
		{401, ErrUnauthorized},
		{404, ErrNotFound},
		{500, ErrUpstream},
		{201, ErrUpstream},
	}
	for _, tc := range tests {
		err := AcceptResponse(&Response{Status: tc.status, Body: []byte("body")})
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
		var se *StatusError
		if !errors.As(err, &se) || se.Status != tc.status || se.Message != "body" {
			t.Errorf("status %d: expected StatusError carrying body, got %#v", tc.status, err)
		}
	}
}

func TestMalformed(t *testing.T) {
	err := Malformed("received non-%s result from %sSearch", "book", "book")
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
	if err.Error() != "malformed payload: received non-book result from bookSearch" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
