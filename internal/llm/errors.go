package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrConfig covers missing or rejected credentials. It is never retried.
	ErrConfig = errors.New("llm configuration error")
	// ErrRateLimit means the provider throttled us or the account is out of quota.
	ErrRateLimit = errors.New("llm rate limited")
	// ErrEmptyReply is returned when the provider answered without any content.
	ErrEmptyReply = errors.New("llm returned an empty reply")
)

// FailureKind is the user-facing category of a backend failure.
type FailureKind string

const (
	FailureNone      FailureKind = ""
	FailureConfig    FailureKind = "configuration"
	FailureRateLimit FailureKind = "rate_limit"
	FailureTransient FailureKind = "transient"
)

// APIError is a non-200 response from the provider.
type APIError struct {
	Status int
	Body   string
	kind   error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error { return e.kind }

// newAPIError classifies a failed response. The status decides first; the
// body only matters for statuses that say nothing specific.
func newAPIError(status int, body string) *APIError {
	e := &APIError{Status: status, Body: body}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.kind = ErrConfig
		return e
	case http.StatusTooManyRequests:
		e.kind = ErrRateLimit
		return e
	}

	lower := strings.ToLower(body)
	switch {
	case containsAny(lower, "rate limit", "quota", "credits"):
		e.kind = ErrRateLimit
	case containsAny(lower, "api key", "api_key"):
		e.kind = ErrConfig
	}
	return e
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Classify maps err to the failure category shown to the user.
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrConfig):
		return FailureConfig
	case errors.Is(err, ErrRateLimit):
		return FailureRateLimit
	}
	return FailureTransient
}
