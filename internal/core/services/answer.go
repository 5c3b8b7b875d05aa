package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
	"github.com/custodia-labs/askwork/internal/core/ports/driving"
	"github.com/custodia-labs/askwork/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// DisabledAnswer is returned when no chat model is configured.
const DisabledAnswer = "Sorry, the assistant is not available right now because no language model " +
	"is configured. Please ask an administrator to set one up."

// DefaultPersona opens the system prompt unless overridden with SetPersona.
const DefaultPersona = "You are askwork, an internal assistant that answers questions about the user's work. " +
	"Use only the context below and the conversation so far. Refer to sources by their title. " +
	"If the context does not contain the answer, say so plainly. Keep answers short and concrete."

const (
	limitedContextNotice = "Limited context: nothing in the user's connected sources matched this question. " +
		"Acknowledge that you could not find relevant information, then suggest one concrete " +
		"follow-up question the user could ask instead."

	// maxContextChars bounds each document's content in the prompt.
	maxContextChars = 1200

	answerMaxTokens   = 800
	answerTemperature = 0.3
)

// gapPhrases mark an answer that already admits missing information.
var gapPhrases = []string{
	"couldn't find", "could not find", "don't have", "do not have",
	"no information", "not enough information", "limited context",
	"no relevant", "unable to find",
}

// topic selects the follow-up and fallback templates.
type topic int

const (
	topicGeneral topic = iota
	topicTask
	topicMeeting
	topicMail
)

var topicKeywords = []struct {
	topic    topic
	keywords []string
}{
	{topicTask, []string{"task", "todo", "issue", "ticket", "priority", "deadline", "due", "sprint", "bug"}},
	{topicMeeting, []string{"meeting", "calendar", "schedule", "event", "call", "agenda"}},
	{topicMail, []string{"email", "mail", "inbox", "message", "reply", "thread"}},
}

var followUps = map[topic]string{
	topicTask:    "Would you like me to list your open issues by priority or due date instead?",
	topicMeeting: "Would you like me to check your calendar for a specific day instead?",
	topicMail:    "Would you like me to summarise your most important recent emails instead?",
	topicGeneral: "Could you tell me which project, person or time frame you are interested in?",
}

// AnswerService answers questions from the requester's permitted data.
type AnswerService struct {
	sync        driving.SyncService
	retrieval   driving.RetrievalService
	permissions *PermissionEngine
	chat        driven.ChatService
	timeout     time.Duration
	persona     string
}

// NewAnswerService creates an answer service.
// The sync and chat parameters are optional (can be nil).
func NewAnswerService(
	sync driving.SyncService,
	retrieval driving.RetrievalService,
	permissions *PermissionEngine,
	chat driven.ChatService,
) *AnswerService {
	if permissions == nil {
		permissions = NewPermissionEngine()
	}
	return &AnswerService{
		sync:        sync,
		retrieval:   retrieval,
		permissions: permissions,
		chat:        chat,
		timeout:     domain.GenerationTimeout,
		persona:     DefaultPersona,
	}
}

// SetTimeout overrides the generation timeout.
func (s *AnswerService) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// SetPersona replaces the opening of the system prompt. Blank values
// are ignored.
func (s *AnswerService) SetPersona(persona string) {
	if strings.TrimSpace(persona) != "" {
		s.persona = strings.TrimSpace(persona)
	}
}

// Answer runs sync, retrieval, prompt composition and generation for
// one question. Generation failures produce a templated answer; the
// only error returned is domain.ErrAuthorizationGap for a missing
// requester.
func (s *AnswerService) Answer(ctx context.Context, req domain.AnswerRequest) (*domain.AnswerResult, error) {
	start := time.Now()
	if req.Requester == nil {
		return nil, domain.ErrAuthorizationGap
	}
	requester := req.Requester
	query := strings.TrimSpace(req.Query)

	logger.Section("Answer")
	logger.Debug("Requester: %s, query length: %d", requester.UserID, len(query))

	result := &domain.AnswerResult{
		Sources:          []domain.Citation{},
		ScopeDescription: s.permissions.DescribeScope(requester),
	}

	if s.chat == nil {
		logger.Warn("Answer unavailable: %v", domain.ErrLLMUnavailable)
		result.Answer = DisabledAnswer
		result.Fallback = true
		return s.finish(result, requester, nil, query, start), nil
	}

	if s.sync != nil {
		syncResult, err := s.sync.SyncAll(ctx, requester.UserID, req.ExternalToken)
		switch {
		case err != nil:
			logger.Warn("Sync failed, answering from existing data: %v", err)
		case len(syncResult.Errors) > 0:
			logger.Debug("Sync finished with %d errors", len(syncResult.Errors))
		}
	}

	maxSources := req.MaxSources
	if maxSources <= 0 {
		maxSources = domain.DefaultMaxSources
	}
	var chunks []domain.RetrievedChunk
	retrieved, err := s.retrieval.Retrieve(ctx, requester, query, domain.RetrieveOptions{TopK: maxSources})
	if err != nil {
		logger.Warn("Retrieval failed, answering without context: %v", err)
	} else {
		chunks = retrieved.Chunks
		result.Sources = retrieved.Sources
		result.ScopeDescription = retrieved.ScopeDescription
	}
	hasContext := len(chunks) > 0

	messages := composeMessages(s.persona, requester, result.ScopeDescription, chunks, req.History, query)

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	completion, err := s.chat.Complete(genCtx, messages, driven.ChatOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	timedOut := errors.Is(genCtx.Err(), context.DeadlineExceeded)
	cancel()

	if err == nil && strings.TrimSpace(completion.Content) == "" {
		err = errors.New("empty completion")
	}
	if err != nil {
		cause := domain.ErrGenerationFailed
		if timedOut || errors.Is(err, context.DeadlineExceeded) {
			cause = domain.ErrGenerationTimeout
		}
		logger.Warn("Using fallback answer: %v: %v", cause, err)
		result.Answer = fallbackAnswer(cause, query, result.Sources)
		result.Fallback = true
		return s.finish(result, requester, chunks, query, start), nil
	}

	answer := strings.TrimSpace(completion.Content)
	if !hasContext && !acknowledgesGap(answer) {
		answer += "\n\n" + followUps[detectTopic(query)]
	}
	result.Answer = answer
	result.TokensUsed = completion.TotalTokens()
	return s.finish(result, requester, chunks, query, start), nil
}

func (s *AnswerService) finish(
	result *domain.AnswerResult,
	requester *domain.RequesterContext,
	chunks []domain.RetrievedChunk,
	query string,
	start time.Time,
) *domain.AnswerResult {
	result.ProcessingTime = time.Since(start)
	logger.Audit(requester.UserID, "answer", chunkIDs(chunks), len(query))
	logger.Info("Answered in %dms (fallback=%t, sources=%d)", result.ProcessingTimeMs(), result.Fallback, len(result.Sources))
	return result
}

// composeMessages builds the system prompt, the trimmed history and
// the current question.
func composeMessages(
	persona string,
	requester *domain.RequesterContext,
	scope string,
	chunks []domain.RetrievedChunk,
	history []domain.ConversationTurn,
	query string,
) []driven.ChatMessage {
	var sb strings.Builder
	sb.WriteString(persona)
	sb.WriteString("\n\n")
	sb.WriteString(profileBlock(requester))
	sb.WriteString("\nAccess scope: ")
	sb.WriteString(scope)
	sb.WriteString("\n\n")
	if len(chunks) > 0 {
		sb.WriteString(contextBlock(chunks))
	} else {
		sb.WriteString(limitedContextNotice)
	}

	messages := []driven.ChatMessage{{Role: domain.RoleSystem, Content: sb.String()}}
	for _, turn := range trimHistory(history) {
		messages = append(messages, driven.ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	return append(messages, driven.ChatMessage{Role: domain.RoleUser, Content: query})
}

func profileBlock(r *domain.RequesterContext) string {
	var sb strings.Builder
	sb.WriteString("User profile:\n")
	fields := []struct{ label, value string }{
		{"Name", r.DisplayName},
		{"Email", r.Email},
		{"Role", r.Role},
		{"Department", r.Department},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(&sb, "- %s: %s\n", f.label, f.value)
		}
	}
	return sb.String()
}

func contextBlock(chunks []domain.RetrievedChunk) string {
	var sb strings.Builder
	sb.WriteString("Context:\n")
	for i := range chunks {
		doc := &chunks[i].Document
		fmt.Fprintf(&sb, "\n[%d] %s (%s)\n", i+1, doc.DisplayTitle(), doc.Source.Label())
		sb.WriteString(truncateRunes(doc.Content, maxContextChars))
		sb.WriteString("\n")
	}
	return sb.String()
}

// trimHistory keeps the last MaxHistoryTurns user and assistant turns.
func trimHistory(history []domain.ConversationTurn) []domain.ConversationTurn {
	kept := make([]domain.ConversationTurn, 0, len(history))
	for _, turn := range history {
		if turn.Role != domain.RoleUser && turn.Role != domain.RoleAssistant {
			continue
		}
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		kept = append(kept, turn)
	}
	if len(kept) > domain.MaxHistoryTurns {
		kept = kept[len(kept)-domain.MaxHistoryTurns:]
	}
	return kept
}

func acknowledgesGap(answer string) bool {
	lower := strings.ToLower(strings.ReplaceAll(answer, "’", "'"))
	return containsAny(lower, gapPhrases)
}

func detectTopic(query string) topic {
	q := strings.ToLower(query)
	for _, t := range topicKeywords {
		if containsAny(q, t.keywords) {
			return t.topic
		}
	}
	return topicGeneral
}

// fallbackAnswer is the templated reply used when generation fails.
func fallbackAnswer(cause error, query string, sources []domain.Citation) string {
	var sb strings.Builder
	if errors.Is(cause, domain.ErrGenerationTimeout) {
		sb.WriteString("The assistant took too long to respond, so here is a quick summary instead.")
	} else {
		sb.WriteString("The assistant is unavailable right now, so here is a quick summary instead.")
	}

	if len(sources) == 0 {
		sb.WriteString(" I couldn't find anything in your connected sources that matches your question.")
	} else {
		sb.WriteString(" These items look relevant:\n")
		for _, src := range sources {
			fmt.Fprintf(&sb, "\n- %s: %s", src.Title, src.Snippet)
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(followUps[detectTopic(query)])
	return sb.String()
}

func truncateRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
