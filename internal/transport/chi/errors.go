package chi

import (
	"errors"
	"net/http"

	"github.com/openstax/openstax-resource-names/internal/domain"
)

// Error codes returned in the "code" field of error responses.
const (
	codeBadRequest    = "bad_request"
	codeNotFound      = "not_found"
	codeUnauthorized  = "unauthorized"
	codeUpstreamError = "upstream_error"
	codeInternalError = "internal_error"
)

// errorResponse is the body of every JSON error.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		// Caller input errors carry the reason, which is safe to echo back.
		func(w http.ResponseWriter, err error) bool {
			if !errors.Is(err, domain.ErrInvalidRequest) {
				return false
			}
			writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
			return true
		},
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized),
		sentinelHandler(domain.ErrMalformedPayload, http.StatusBadGateway, codeUpstreamError),
		sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, codeUpstreamError),
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error
// and reports only the sentinel text.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
