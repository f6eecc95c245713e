package apiclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/go-faster/errors"
)

// Kind classifies the outcome of an API call.
type Kind string

const (
	Success   Kind = "success"
	Retryable Kind = "retryable"
	Fatal     Kind = "fatal"
)

// ErrUnsuccessful is wrapped when the API answers 2xx with success=false.
var ErrUnsuccessful = errors.New("api reported failure")

// Error is a failed call with its classification.
type Error struct {
	Op     string
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Op, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf classifies err. A nil error is a success; errors not produced by this
// package are fatal unless they are network errors or timeouts.
func KindOf(err error) Kind {
	if err == nil {
		return Success
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return classifyTransport(err)
}

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	return KindOf(err) == Retryable
}

func classifyStatus(status int) Kind {
	switch {
	case status >= 200 && status < 300:
		return Success
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests:
		return Retryable
	case status >= 500:
		return Retryable
	default:
		return Fatal
	}
}

func classifyTransport(err error) Kind {
	if errors.Is(err, context.Canceled) {
		return Fatal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Retryable
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Retryable
	}
	return Fatal
}
