package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for askwork resources.
	uriScheme = "askwork://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Scope != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "users/{userId}/scope",
			Name:        "user-scope",
			Description: "What data a user is allowed to see",
			MIMEType:    "application/json",
		}, s.handleScopeResource)
	}

	if s.ports.Sync != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "users/{userId}/sync",
			Name:        "user-sync",
			Description: "The latest sync result for a user",
			MIMEType:    "application/json",
		}, s.handleSyncResource)
	}
}

// handleScopeResource returns a user's permission scope.
func (s *Server) handleScopeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	userID := extractUserID(req.Params.URI, "scope")
	if userID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	requester, err := s.requester(ctx, userID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return jsonResource(req.Params.URI, s.scopeOutput(requester))
}

// handleSyncResource returns a user's sync result, syncing when no
// recent result is cached.
func (s *Server) handleSyncResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	userID := extractUserID(req.Params.URI, "sync")
	if userID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	requester, err := s.requester(ctx, userID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	result, err := s.ports.Sync.SyncAll(ctx, requester.UserID, s.ports.ExternalToken.For(requester.UserID))
	if err != nil {
		return nil, fmt.Errorf("syncing: %w", err)
	}

	return jsonResource(req.Params.URI, syncOutput(result))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractUserID extracts the user ID from a URI like askwork://users/{userId}/{suffix}.
func extractUserID(uri, suffix string) string {
	const prefix = uriScheme + "users/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, "/"+suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, "/"+suffix)
}
