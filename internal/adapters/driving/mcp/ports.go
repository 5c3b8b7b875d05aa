package mcp

import (
	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
	"github.com/custodia-labs/askwork/internal/core/ports/driving"
)

// Ports are the services behind the MCP tools.
type Ports struct {
	// Answer answers questions. Required.
	Answer driving.AnswerService

	// Identity resolves the user_id argument of every tool. Required.
	Identity driven.IdentityService

	// Retrieval, Sync, Classifier and Scope are optional. A tool is only
	// registered when its service is set.
	Retrieval  driving.RetrievalService
	Sync       driving.SyncService
	Classifier driving.ClassifierService
	Scope      driving.ScopeService

	// ExternalToken is the OAuth access token for calendar and mail.
	// It is forwarded only on requests made by its owner.
	ExternalToken domain.DelegatedToken

	// Version is reported to clients. Defaults to "dev".
	Version string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Identity == nil {
		return ErrMissingIdentityService
	}
	return nil
}
