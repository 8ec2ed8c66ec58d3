package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized     = errors.New("unauthorized: log in again")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCompleted = errors.New("habit already completed today")
)

// StatusError is returned for any non-2xx reply without a dedicated sentinel.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("habit service returned %d %s", e.Code, http.StatusText(e.Code))
	}
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("habit service returned %d %s: %s", e.Code, http.StatusText(e.Code), body)
}

func statusError(code int, body []byte) error {
	switch code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return &StatusError{Code: code, Body: string(body)}
	}
}
