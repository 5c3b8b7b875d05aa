// Package mcp provides an MCP (Model Context Protocol) server adapter for askwork.
// It lets AI assistants ask questions about a user's work through the same
// permission-checked services the CLI uses.
package mcp

import "errors"

var (
	// ErrMissingAnswerService is returned when the answer service is not provided.
	ErrMissingAnswerService = errors.New("mcp: answer service is required")

	// ErrMissingIdentityService is returned when no identity service is provided.
	ErrMissingIdentityService = errors.New("mcp: identity service is required")
)
