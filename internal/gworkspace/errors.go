package gworkspace

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"docdigest/internal/document"
)

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusForbidden || gerr.Code == http.StatusUnauthorized
	}
	return false
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusNotFound
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	return false
}

// documentError maps a Docs API error onto the document package sentinels.
func documentError(id string, err error) error {
	switch {
	case IsNotFound(err):
		return fmt.Errorf("document %s: %w: %w", id, document.ErrNotFound, err)
	case IsForbidden(err):
		return fmt.Errorf("document %s: %w: %w", id, document.ErrPermission, err)
	default:
		return fmt.Errorf("get document %s: %w", id, err)
	}
}
