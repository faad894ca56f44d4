package github

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidReference = errors.New("invalid repository reference")
	ErrNotFound         = errors.New("repository not found")
	ErrRateLimited      = errors.New("rate limited by hosting API")
	ErrUnavailable      = errors.New("hosting API unavailable")
)

// StatusError is a non-success response from the hosting API.
type StatusError struct {
	Op         string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: GitHub API returned %s", e.Op, e.Status)
}

// StatusText is the upstream reason phrase without the numeric code, e.g. "Bad Gateway".
func (e *StatusError) StatusText() string {
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return e.Status
}

func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusForbidden, http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrUnavailable
	}
}
