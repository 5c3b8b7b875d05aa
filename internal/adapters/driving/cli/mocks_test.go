package cli

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

// mockAnswerService records requests and echoes the question.
type mockAnswerService struct {
	requests []domain.AnswerRequest
	err      error
}

func (m *mockAnswerService) Answer(_ context.Context, req domain.AnswerRequest) (*domain.AnswerResult, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.AnswerResult{
		Answer: "Answer to: " + req.Query,
		Sources: []domain.Citation{{
			DocumentID: "doc-1",
			Source:     domain.SourceIssue,
			Title:      "api#12: Fix login",
			URL:        "https://github.com/acme/api/issues/12",
		}},
		ScopeDescription: "You can see your own data.",
		TokensUsed:       42,
	}, nil
}

// mockIdentityService knows a single user.
type mockIdentityService struct{}

func (m *mockIdentityService) RequesterContext(_ context.Context, userID string) (*domain.RequesterContext, error) {
	if userID != testRequester.UserID && userID != testRequester.Email {
		return nil, nil
	}
	return testRequester, nil
}

// mockRetrievalService returns fixed citations.
type mockRetrievalService struct {
	opts  domain.RetrieveOptions
	query string
	empty bool
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	_ *domain.RequesterContext,
	query string,
	opts domain.RetrieveOptions,
) (*domain.RetrievalResult, error) {
	m.query = query
	m.opts = opts
	if m.empty {
		return &domain.RetrievalResult{Strategy: domain.StrategyKeyword}, nil
	}
	return &domain.RetrievalResult{
		Sources: []domain.Citation{{
			DocumentID: "doc-1",
			Source:     domain.SourceIssue,
			Title:      "api#12: Fix login",
			Snippet:    "SSO broken",
			Relevance:  0.87,
		}},
		ScopeDescription: "You can see your own data.",
		Strategy:         domain.StrategyKeyword,
	}, nil
}

// mockSyncService implements driving.SyncService for testing.
type mockSyncService struct {
	result      *domain.SyncResult
	err         error
	calls       int
	invalidated []string
	token       string
}

func (m *mockSyncService) SyncAll(_ context.Context, _, token string) (*domain.SyncResult, error) {
	m.calls++
	m.token = token
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.SyncResult{
		Synced: []domain.SourceCount{
			{Source: domain.SyncSourceIssues, Count: 3},
			{Source: domain.SyncSourceDateContext, Count: 1},
		},
		CompletedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}, nil
}

func (m *mockSyncService) Invalidate(requesterID string) {
	m.invalidated = append(m.invalidated, requesterID)
}

// mockClassifierService marks anything mentioning "outage" critical.
type mockClassifierService struct{}

func (m *mockClassifierService) Classify(msg domain.InboundMessage) domain.ClassifiedMessage {
	if strings.Contains(strings.ToLower(msg.Subject), "outage") {
		return domain.ClassifiedMessage{
			InboundMessage: msg,
			Priority:       domain.PriorityCritical,
			PriorityReason: "urgent keyword",
			Category:       "Urgent",
		}
	}
	return domain.ClassifiedMessage{
		InboundMessage: msg,
		Priority:       domain.PriorityNormal,
		PriorityReason: "no rule matched",
		Category:       "General",
	}
}

func (m *mockClassifierService) SortByPriority(msgs []domain.ClassifiedMessage) []domain.ClassifiedMessage {
	out := make([]domain.ClassifiedMessage, 0, len(msgs))
	for _, p := range []domain.Priority{domain.PriorityCritical, domain.PriorityNormal} {
		for _, msg := range msgs {
			if msg.Priority == p {
				out = append(out, msg)
			}
		}
	}
	return out
}

// mockScopeService implements driving.ScopeService for testing.
type mockScopeService struct{}

func (m *mockScopeService) ComputeScope(requester *domain.RequesterContext) domain.PermissionScope {
	channels := map[string]bool{}
	for _, id := range requester.Channels() {
		channels[id] = true
	}
	return domain.PermissionScope{
		CanAccessOwnData:  true,
		CanAccessChannels: channels,
	}
}

func (m *mockScopeService) DescribeScope(requester *domain.RequesterContext) string {
	return "Scope for " + requester.DisplayName
}

// mockSettingsService keeps settings in memory.
type mockSettingsService struct {
	settings *domain.Settings
	saved    int
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	copied := *m.settings
	return &copied, nil
}

func (m *mockSettingsService) Save(settings *domain.Settings) error {
	next := *settings
	if next.LLM.APIKey == "" {
		next.LLM.APIKey = m.settings.LLM.APIKey
	}
	if next.Embedding.APIKey == "" {
		next.Embedding.APIKey = m.settings.Embedding.APIKey
	}
	if next.IssueTracker.Token == "" {
		next.IssueTracker.Token = m.settings.IssueTracker.Token
	}
	m.settings = &next
	m.saved++
	return nil
}

// mockMailService returns two messages.
type mockMailService struct {
	token string
	limit int
}

func (m *mockMailService) ListMessages(_ context.Context, token string, maxResults int) ([]domain.MailRecord, error) {
	m.token = token
	m.limit = maxResults
	return []domain.MailRecord{
		{ID: "m1", Subject: "Lunch?", From: "bob@acme.com"},
		{ID: "m2", Subject: "Database outage", From: "ops@acme.com"},
	}, nil
}

// lineScript feeds fixed lines to converse.
type lineScript struct {
	lines []string
}

func (s *lineScript) ReadLine() (string, error) {
	if len(s.lines) == 0 {
		return "", errEOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

var testRequester = &domain.RequesterContext{
	UserID:             "u-alice",
	Email:              "alice@acme.com",
	DisplayName:        "Alice Smith",
	ChannelMemberships: map[string]bool{"eng": true, "general": true},
}
