package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is the caller-facing category of a gateway failure.
type Kind int

const (
	KindUnavailable Kind = iota
	KindRateLimited
	KindAuthInvalid
	KindNotConfigured
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindAuthInvalid:
		return "auth_invalid"
	case KindNotConfigured:
		return "not_configured"
	default:
		return "unavailable"
	}
}

// Error is a classified provider failure.
type Error struct {
	Kind     Kind
	Provider string
	// Status is the upstream HTTP status, zero when the call never got one.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Provider == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotConfigured) match any not-configured error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == KindNotConfigured && e.Kind == KindNotConfigured
}

// ErrNotConfigured is returned when no provider has credentials.
var ErrNotConfigured = &Error{Kind: KindNotConfigured, Err: errors.New("AI service not configured")}

// StatusError is a non-2xx answer from a provider's HTTP API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// Classify wraps err into an *Error. Rate limiting is checked first, so a 403
// that reports an exhausted quota counts as RateLimited.
func Classify(provider string, err error) *Error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	out := &Error{Kind: KindUnavailable, Provider: provider, Err: err}

	var se *StatusError
	if errors.As(err, &se) {
		out.Status = se.StatusCode
	}

	msg := strings.ToLower(err.Error())
	switch {
	case out.Status == http.StatusTooManyRequests,
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "quota"):
		out.Kind = KindRateLimited
	case out.Status == http.StatusUnauthorized, out.Status == http.StatusForbidden:
		out.Kind = KindAuthInvalid
	}
	return out
}

// KindOf reports the Kind of any error, Unavailable for unclassified ones.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnavailable
}
