package api

import (
	"fmt"
	"time"
)

// Kind classifies an API error for retry and display decisions
type Kind string

const (
	NetworkError        Kind = "network_error"
	AuthenticationError Kind = "authentication_error"
	ValidationError     Kind = "validation_error"
	ServerError         Kind = "server_error"
	TimeoutError        Kind = "timeout_error"
)

// CodeRateLimited is the backend error code for throttled requests
const CodeRateLimited = "RATE_LIMITED"

// Retry policy defaults. The rate-limited delay is mandatory before any
// retry of a throttled request, regardless of attempt count.
const (
	RetryBaseDelay   = 1 * time.Second
	RetryMaxDelay    = 30 * time.Second
	RateLimitedDelay = 5 * time.Second
)

// Error is the uniform typed error value produced at the validation
// boundary. It is returned, never panicked.
type Error struct {
	Kind       Kind
	Message    string
	Code       string
	StatusCode int
	Details    any
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable reports whether a caller may retry the request that produced
// this error. Authentication and validation failures require user action
// and are never retryable.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case NetworkError, TimeoutError, ServerError:
		return true
	default:
		return false
	}
}

// RetryDelay returns how long a caller should wait before retry attempt
// number attempt (starting at 1). Rate-limited errors use a fixed delay;
// all other retryable errors back off exponentially up to a cap.
func (e *Error) RetryDelay(attempt int) time.Duration {
	if e.Code == CodeRateLimited {
		return RateLimitedDelay
	}
	return Backoff(RetryBaseDelay, RetryMaxDelay, attempt)
}

// Backoff computes the exponential delay for the given attempt (1-based),
// doubling the base per attempt up to max.
func Backoff(base, max time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := base << (attempt - 1)
	if d > max || d < base {
		return max
	}
	return d
}

var userMessages = map[Kind]string{
	NetworkError:        "Unable to reach the server. Please check your connection.",
	AuthenticationError: "Your session has expired. Please sign in again.",
	ValidationError:     "Something went wrong with this request. Please try again later.",
	ServerError:         "The server could not complete your request. Please try again.",
	TimeoutError:        "The request took too long. Please try again.",
}

// UserMessage maps the error kind to a human-readable message suitable
// for display
func (e *Error) UserMessage() string {
	if msg, ok := userMessages[e.Kind]; ok {
		return msg
	}
	return userMessages[ServerError]
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}
