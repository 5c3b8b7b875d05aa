package google

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

// Common Google API errors. Each wraps the matching domain error where
// one exists so callers can test with errors.Is either way.
var (
	// ErrUnauthorized indicates an invalid or expired access token.
	ErrUnauthorized = fmt.Errorf("google: unauthorised: %w", domain.ErrAuthRequired)

	// ErrForbidden indicates the token lacks a required scope.
	ErrForbidden = errors.New("google: forbidden (insufficient permissions)")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = fmt.Errorf("google: resource %w", domain.ErrNotFound)

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = fmt.Errorf("google: %w", domain.ErrRateLimited)
)

// statusCode extracts the HTTP status from a googleapi error.
func statusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || statusCode(err) == http.StatusUnauthorized
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited) || statusCode(err) == http.StatusTooManyRequests
}

// WrapError converts a Google API error to one of the errors above,
// keeping the API message.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	var sentinel error
	switch gerr.Code {
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusForbidden:
		sentinel = ErrForbidden
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	default:
		return err
	}
	if gerr.Message == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, gerr.Message)
}
