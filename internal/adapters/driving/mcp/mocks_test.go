package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	result *domain.AnswerResult
	err    error
	got    domain.AnswerRequest
}

func (m *mockAnswerService) Answer(_ context.Context, req domain.AnswerRequest) (*domain.AnswerResult, error) {
	m.got = req
	return m.result, m.err
}

// mockIdentityService is a mock implementation of driven.IdentityService.
type mockIdentityService struct {
	users map[string]*domain.RequesterContext
	err   error
}

func (m *mockIdentityService) RequesterContext(_ context.Context, userID string) (*domain.RequesterContext, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users[userID], nil
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	result *domain.RetrievalResult
	err    error
	opts   domain.RetrieveOptions
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	_ *domain.RequesterContext,
	_ string,
	opts domain.RetrieveOptions,
) (*domain.RetrievalResult, error) {
	m.opts = opts
	return m.result, m.err
}

// mockSyncService is a mock implementation of driving.SyncService.
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
	return m.result, m.err
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
		PriorityReason: "default",
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

// mockScopeService is a mock implementation of driving.ScopeService.
type mockScopeService struct{}

func (m *mockScopeService) ComputeScope(requester *domain.RequesterContext) domain.PermissionScope {
	channels := map[string]bool{}
	for _, id := range requester.Channels() {
		channels[id] = true
	}
	return domain.PermissionScope{
		CanAccessOwnData:       true,
		CanAccessChannels:      channels,
		CanAccessTeamArtifacts: requester.IsManager,
	}
}

func (m *mockScopeService) DescribeScope(requester *domain.RequesterContext) string {
	return "scope of " + requester.UserID
}

var testRequester = &domain.RequesterContext{
	UserID:             "u-alice",
	Email:              "alice@acme.com",
	DisplayName:        "Alice",
	ChannelMemberships: map[string]bool{"eng": true, "announcements": true},
	IsManager:          true,
}

func testIdentity() *mockIdentityService {
	return &mockIdentityService{users: map[string]*domain.RequesterContext{"u-alice": testRequester}}
}

func testSyncResult() *domain.SyncResult {
	return &domain.SyncResult{
		Synced: []domain.SourceCount{
			{Source: domain.SyncSourceIssues, Count: 3},
			{Source: domain.SyncSourceDateContext, Count: 1},
		},
		Errors:      []string{"calendar: authentication required"},
		CompletedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}
