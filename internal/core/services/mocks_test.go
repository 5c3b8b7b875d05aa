package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
)

// --- Mock implementations shared by service tests ---

// mockEmbedder implements driven.EmbeddingService. Vectors are looked up
// by exact text; unknown text gets fallback.
type mockEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	err      error
	calls    atomic.Int32
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 3 }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return m.err }
func (m *mockEmbedder) Close() error                 { return nil }

// mockChat implements driven.ChatService.
type mockChat struct {
	mu       sync.Mutex
	reply    string
	err      error
	delay    time.Duration
	usage    [2]int
	messages []driven.ChatMessage
	calls    int
}

func (m *mockChat) Complete(
	ctx context.Context, messages []driven.ChatMessage, _ driven.ChatOptions,
) (*driven.Completion, error) {
	m.mu.Lock()
	m.calls++
	m.messages = messages
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.delay):
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &driven.Completion{
		Content:          m.reply,
		PromptTokens:     m.usage[0],
		CompletionTokens: m.usage[1],
	}, nil
}

func (m *mockChat) ModelName() string            { return "mock-chat" }
func (m *mockChat) Ping(_ context.Context) error { return nil }
func (m *mockChat) Close() error                 { return nil }

func (m *mockChat) lastMessages() []driven.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages
}

// mockIssueTracker implements driven.IssueTracker.
type mockIssueTracker struct {
	issues []domain.IssueRecord
	err    error
	calls  atomic.Int32
}

func (m *mockIssueTracker) ListIssues(_ context.Context) ([]domain.IssueRecord, error) {
	m.calls.Add(1)
	return m.issues, m.err
}

// mockCalendar implements driven.CalendarService.
type mockCalendar struct {
	events    []domain.CalendarEventRecord
	err       error
	calls     atomic.Int32
	lastToken string
}

func (m *mockCalendar) ListEvents(_ context.Context, token string, _, _ time.Time) ([]domain.CalendarEventRecord, error) {
	m.calls.Add(1)
	m.lastToken = token
	return m.events, m.err
}

// mockMail implements driven.MailService.
type mockMail struct {
	messages []domain.MailRecord
	err      error
	calls    atomic.Int32
}

func (m *mockMail) ListMessages(_ context.Context, _ string, _ int) ([]domain.MailRecord, error) {
	m.calls.Add(1)
	return m.messages, m.err
}

// mockKnowledge implements driven.KnowledgeBase.
type mockKnowledge struct {
	members   []domain.TeamMember
	entries   []domain.KnowledgeEntry
	dirErr    error
	entryErr  error
	dirCalls  atomic.Int32
	kbCalls   atomic.Int32
	blockOnce chan struct{}
}

func (m *mockKnowledge) TeamDirectory(_ context.Context) ([]domain.TeamMember, error) {
	m.dirCalls.Add(1)
	if m.blockOnce != nil {
		<-m.blockOnce
	}
	return m.members, m.dirErr
}

func (m *mockKnowledge) CompanyKnowledge(_ context.Context) ([]domain.KnowledgeEntry, error) {
	m.kbCalls.Add(1)
	return m.entries, m.entryErr
}
