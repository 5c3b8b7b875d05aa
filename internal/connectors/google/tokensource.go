package google

import (
	"strings"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

// NewTokenSource wraps a caller-supplied access token. The token is never
// refreshed: it belongs to the requester and lives for one request.
func NewTokenSource(accessToken string) (oauth2.TokenSource, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, domain.ErrAuthRequired
	}
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}), nil
}
