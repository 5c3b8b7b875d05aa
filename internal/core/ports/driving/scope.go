package driving

import "github.com/custodia-labs/askwork/internal/core/domain"

// ScopeService exposes the permission engine's derived views.
type ScopeService interface {
	// ComputeScope derives what the requester may see.
	ComputeScope(requester *domain.RequesterContext) domain.PermissionScope

	// DescribeScope renders the scope as a disclosure string.
	DescribeScope(requester *domain.RequesterContext) string
}
