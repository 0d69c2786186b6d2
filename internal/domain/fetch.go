package domain

import (
	"context"
	"slices"
)

// Response is a fully read upstream HTTP response.
type Response struct {
	Status int
	Body   []byte
}

// Fetcher performs GET requests against upstream content services.
type Fetcher interface {
	Get(ctx context.Context, url string) (*Response, error)
}

// AcceptResponse returns nil when the status is one of statusCodes (200 when none given).
// Any other status becomes a StatusError carrying the response body as its message.
func AcceptResponse(resp *Response, statusCodes ...int) error {
	if len(statusCodes) == 0 {
		statusCodes = []int{200}
	}
	if slices.Contains(statusCodes, resp.Status) {
		return nil
	}
	return NewStatusError(resp.Status, string(resp.Body))
}
