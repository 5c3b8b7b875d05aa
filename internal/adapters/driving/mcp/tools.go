package mcp

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

// TurnInput is one prior conversation turn.
type TurnInput struct {
	Role    string `json:"role" jsonschema:"either user or assistant"`
	Content string `json:"content" jsonschema:"the message text"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	UserID     string      `json:"user_id" jsonschema:"the ID or email of the person asking"`
	Query      string      `json:"query" jsonschema:"the question to answer"`
	History    []TurnInput `json:"history,omitempty" jsonschema:"prior turns of the conversation, oldest first"`
	MaxSources int         `json:"max_sources,omitempty" jsonschema:"maximum number of sources to cite (default 5)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer           string           `json:"answer"`
	Sources          []CitationOutput `json:"sources"`
	ScopeDescription string           `json:"scope_description"`
	TokensUsed       int              `json:"tokens_used"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
	Fallback         bool             `json:"fallback"`
}

// CitationOutput represents a single cited document.
type CitationOutput struct {
	DocumentID string  `json:"document_id"`
	Source     string  `json:"source"`
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet"`
	URL        string  `json:"url,omitempty"`
	Relevance  float64 `json:"relevance"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	UserID    string   `json:"user_id" jsonschema:"the ID or email of the person searching"`
	Query     string   `json:"query" jsonschema:"the search query"`
	TopK      int      `json:"top_k,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Threshold float64  `json:"threshold,omitempty" jsonschema:"minimum similarity on the embedding path (default 0.3)"`
	Sources   []string `json:"sources,omitempty" jsonschema:"restrict to these source kinds: message, issue, calendar_event, mail, shared_document, announcement"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results          []CitationOutput `json:"results"`
	Count            int              `json:"count"`
	Strategy         string           `json:"strategy"`
	ScopeDescription string           `json:"scope_description"`
}

// MessageInput is one message to classify.
type MessageInput struct {
	ID       string   `json:"id,omitempty" jsonschema:"message ID"`
	Subject  string   `json:"subject" jsonschema:"subject line"`
	From     string   `json:"from" jsonschema:"sender, either an address or Name <address>"`
	Snippet  string   `json:"snippet,omitempty" jsonschema:"short preview of the body"`
	Date     string   `json:"date,omitempty" jsonschema:"RFC 3339 timestamp"`
	ThreadID string   `json:"thread_id,omitempty" jsonschema:"thread ID"`
	To       []string `json:"to,omitempty" jsonschema:"recipients"`
	Cc       []string `json:"cc,omitempty" jsonschema:"carbon-copy recipients"`
}

// ClassifyInput is the input schema for the classify tool.
type ClassifyInput struct {
	Messages []MessageInput `json:"messages" jsonschema:"the messages to triage"`
}

// ClassifiedOutput is one triaged message.
type ClassifiedOutput struct {
	ID       string `json:"id,omitempty"`
	Subject  string `json:"subject"`
	From     string `json:"from"`
	Priority string `json:"priority"`
	Reason   string `json:"reason"`
	Category string `json:"category"`
}

// ClassifyOutput is the output schema for the classify tool.
type ClassifyOutput struct {
	Messages []ClassifiedOutput `json:"messages"`
}

// UserInput is the input schema for tools that only need a user.
type UserInput struct {
	UserID string `json:"user_id" jsonschema:"the ID or email of the person"`
}

// ScopeOutput is the output schema for the scope tool.
type ScopeOutput struct {
	Description             string   `json:"description"`
	CanAccessOwnData        bool     `json:"can_access_own_data"`
	CanAccessChannels       []string `json:"can_access_channels"`
	CanAccessTeamArtifacts  bool     `json:"can_access_team_artifacts"`
	CanAccessDepartmentData bool     `json:"can_access_department_data"`
	CanAccessOrgInsights    bool     `json:"can_access_org_insights"`
}

// SyncInput is the input schema for the sync tool.
type SyncInput struct {
	UserID  string `json:"user_id" jsonschema:"the ID or email of the person"`
	Refresh bool   `json:"refresh,omitempty" jsonschema:"ignore the cached result and pull every source again"`
}

// SyncCountOutput is the number of documents indexed from one source.
type SyncCountOutput struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// SyncOutput is the output schema for the sync tool.
type SyncOutput struct {
	Synced      []SyncCountOutput `json:"synced"`
	Errors      []string          `json:"errors"`
	Total       int               `json:"total"`
	CompletedAt string            `json:"completed_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question about the user's work from the data they are allowed to see",
	}, s.handleAsk)

	if s.ports.Retrieval != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "retrieve",
			Description: "Find the documents most relevant to a query among those the user may see",
		}, s.handleRetrieve)
	}

	if s.ports.Classifier != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "classify",
			Description: "Triage messages into critical, important, normal and low priority",
		}, s.handleClassify)
	}

	if s.ports.Scope != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "scope",
			Description: "Describe what data the user is allowed to see",
		}, s.handleScope)
	}

	if s.ports.Sync != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "sync",
			Description: "Refresh the user's documents from every configured source",
		}, s.handleSync)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	requester, err := s.requester(ctx, input.UserID)
	if err != nil {
		return nil, AskOutput{}, err
	}

	history := make([]domain.ConversationTurn, 0, len(input.History))
	for _, turn := range input.History {
		history = append(history, domain.ConversationTurn{Role: turn.Role, Content: turn.Content})
	}

	result, err := s.ports.Answer.Answer(ctx, domain.AnswerRequest{
		Query:         input.Query,
		Requester:     requester,
		History:       history,
		MaxSources:    input.MaxSources,
		ExternalToken: s.ports.ExternalToken.For(requester.UserID),
	})
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:           result.Answer,
		Sources:          citationOutputs(result.Sources),
		ScopeDescription: result.ScopeDescription,
		TokensUsed:       result.TokensUsed,
		ProcessingTimeMs: result.ProcessingTimeMs(),
		Fallback:         result.Fallback,
	}, nil
}

// handleRetrieve handles the retrieve tool invocation. The user's
// documents are synced first so the index is populated.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	requester, err := s.requester(ctx, input.UserID)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	sources, err := parseSourceKinds(input.Sources)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	if s.ports.Sync != nil {
		token := s.ports.ExternalToken.For(requester.UserID)
		if _, err := s.ports.Sync.SyncAll(ctx, requester.UserID, token); err != nil {
			return nil, RetrieveOutput{}, fmt.Errorf("syncing: %w", err)
		}
	}

	result, err := s.ports.Retrieval.Retrieve(ctx, requester, input.Query, domain.RetrieveOptions{
		TopK:      input.TopK,
		Threshold: input.Threshold,
		Sources:   sources,
	})
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	return nil, RetrieveOutput{
		Results:          citationOutputs(result.Sources),
		Count:            len(result.Sources),
		Strategy:         string(result.Strategy),
		ScopeDescription: result.ScopeDescription,
	}, nil
}

// handleClassify handles the classify tool invocation.
func (s *Server) handleClassify(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ClassifyInput,
) (*mcp.CallToolResult, ClassifyOutput, error) {
	classified := make([]domain.ClassifiedMessage, 0, len(input.Messages))
	for i := range input.Messages {
		msg, err := input.Messages[i].toDomain()
		if err != nil {
			return nil, ClassifyOutput{}, fmt.Errorf("message %d: %w", i, err)
		}
		classified = append(classified, s.ports.Classifier.Classify(msg))
	}

	sorted := s.ports.Classifier.SortByPriority(classified)
	output := ClassifyOutput{Messages: make([]ClassifiedOutput, len(sorted))}
	for i := range sorted {
		output.Messages[i] = ClassifiedOutput{
			ID:       sorted[i].ID,
			Subject:  sorted[i].Subject,
			From:     sorted[i].From,
			Priority: sorted[i].Priority.String(),
			Reason:   sorted[i].PriorityReason,
			Category: sorted[i].Category,
		}
	}
	return nil, output, nil
}

// handleScope handles the scope tool invocation.
func (s *Server) handleScope(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UserInput,
) (*mcp.CallToolResult, ScopeOutput, error) {
	requester, err := s.requester(ctx, input.UserID)
	if err != nil {
		return nil, ScopeOutput{}, err
	}
	return nil, s.scopeOutput(requester), nil
}

// handleSync handles the sync tool invocation.
func (s *Server) handleSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SyncInput,
) (*mcp.CallToolResult, SyncOutput, error) {
	requester, err := s.requester(ctx, input.UserID)
	if err != nil {
		return nil, SyncOutput{}, err
	}

	if input.Refresh {
		s.ports.Sync.Invalidate(requester.UserID)
	}

	result, err := s.ports.Sync.SyncAll(ctx, requester.UserID, s.ports.ExternalToken.For(requester.UserID))
	if err != nil {
		return nil, SyncOutput{}, err
	}
	return nil, syncOutput(result), nil
}

func (s *Server) scopeOutput(requester *domain.RequesterContext) ScopeOutput {
	scope := s.ports.Scope.ComputeScope(requester)
	channels := make([]string, 0, len(scope.CanAccessChannels))
	for id, ok := range scope.CanAccessChannels {
		if ok {
			channels = append(channels, id)
		}
	}
	slices.Sort(channels)

	return ScopeOutput{
		Description:             s.ports.Scope.DescribeScope(requester),
		CanAccessOwnData:        scope.CanAccessOwnData,
		CanAccessChannels:       channels,
		CanAccessTeamArtifacts:  scope.CanAccessTeamArtifacts,
		CanAccessDepartmentData: scope.CanAccessDepartmentData,
		CanAccessOrgInsights:    scope.CanAccessOrgInsights,
	}
}

func syncOutput(result *domain.SyncResult) SyncOutput {
	output := SyncOutput{
		Synced:      make([]SyncCountOutput, len(result.Synced)),
		Errors:      append([]string{}, result.Errors...),
		Total:       result.Total(),
		CompletedAt: result.CompletedAt.Format(time.RFC3339),
	}
	for i, c := range result.Synced {
		output.Synced[i] = SyncCountOutput{Source: string(c.Source), Count: c.Count}
	}
	return output
}

func citationOutputs(citations []domain.Citation) []CitationOutput {
	out := make([]CitationOutput, len(citations))
	for i, c := range citations {
		out[i] = CitationOutput{
			DocumentID: c.DocumentID,
			Source:     c.Source.String(),
			Title:      c.Title,
			Snippet:    c.Snippet,
			URL:        c.URL,
			Relevance:  c.Relevance,
		}
	}
	return out
}

func parseSourceKinds(values []string) ([]domain.SourceKind, error) {
	kinds := make([]domain.SourceKind, 0, len(values))
	for _, v := range values {
		kind := domain.SourceKind(strings.TrimSpace(v))
		if !kind.IsValid() {
			return nil, fmt.Errorf("%w: unknown source %q", domain.ErrInvalidInput, v)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func (m *MessageInput) toDomain() (domain.InboundMessage, error) {
	msg := domain.InboundMessage{
		ID:       m.ID,
		Subject:  m.Subject,
		From:     m.From,
		Snippet:  m.Snippet,
		ThreadID: m.ThreadID,
		To:       m.To,
		Cc:       m.Cc,
	}
	if m.Date != "" {
		date, err := time.Parse(time.RFC3339, m.Date)
		if err != nil {
			return domain.InboundMessage{}, fmt.Errorf("%w: date %q", domain.ErrInvalidInput, m.Date)
		}
		msg.Date = date
	}
	return msg, nil
}
