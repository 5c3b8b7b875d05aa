package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/logger"
)

// shutdownTimeout bounds how long in-flight HTTP requests may finish.
const shutdownTimeout = 5 * time.Second

// Server exposes askwork to MCP clients. Every tool call names the user
// it acts for.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer registers the tools and resources the ports allow.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	version := ports.Version
	if version == "" {
		version = "dev"
	}
	impl := &mcp.Implementation{Name: "askwork", Version: version}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves over stdio until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("MCP server on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is done.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("MCP server on http://%s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down MCP server: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requester resolves a tool's user_id. Unknown users are an
// authorisation gap.
func (s *Server) requester(ctx context.Context, userID string) (*domain.RequesterContext, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidInput)
	}

	requester, err := s.ports.Identity.RequesterContext(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving requester: %w", err)
	}
	if requester == nil {
		logger.Warn("MCP: unknown requester %q", userID)
		return nil, fmt.Errorf("%w: %s", domain.ErrAuthorizationGap, userID)
	}
	return requester, nil
}
