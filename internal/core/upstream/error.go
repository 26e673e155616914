package upstream

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// MaxBodyLength bounds how much of an upstream response body is kept for diagnostics.
const MaxBodyLength = 500

// Error describes a non-2xx or malformed response from Seal or Shopify.
type Error struct {
	// Service names the remote API, e.g. "seal" or "shopify".
	Service string
	// Operation names the call, e.g. "search" or "tagsAdd".
	Operation string
	// Status is the HTTP status code returned, 0 when the body was malformed.
	Status int
	// Body is the truncated response body.
	Body string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: malformed response: %s", e.Service, e.Operation, e.Body)
	}
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Service, e.Operation, e.Status, e.Body)
}

// New builds an Error, truncating body to MaxBodyLength bytes.
func New(service, operation string, status int, body []byte) *Error {
	return &Error{
		Service:   service,
		Operation: operation,
		Status:    status,
		Body:      Truncate(string(body), MaxBodyLength),
	}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// Truncate shortens s to at most n bytes, marking the cut with an ellipsis.
// The cut never splits a multi-byte character.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
