// Package anthropic provides a chat-completion adapter for the Anthropic
// Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
)

// Ensure ChatService implements the interface.
var _ driven.ChatService = (*ChatService)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultTimeout   = 60 * time.Second
	DefaultMaxTokens = 1024

	anthropicVersion = "2023-06-01"
)

// ErrNoAPIKey is returned when the service is built without a key.
var ErrNoAPIKey = errors.New("anthropic: API key is required")

// Config holds configuration for the Anthropic chat service.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the chat model (default: claude-3-5-sonnet-latest).
	Model string

	// Timeout is the HTTP client ceiling.
	Timeout time.Duration

	// HTTPClient replaces the default client, mainly for tests.
	HTTPClient *http.Client
}

// ChatService runs completions against /v1/messages.
type ChatService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

type messagesRequest struct {
	Model       string            `json:"model"`
	Messages    []messagesMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	System      string            `json:"system,omitempty"`
	Temperature float64           `json:"temperature,omitempty"`
}

type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewChatService creates a new Anthropic chat service.
func NewChatService(cfg Config) (*ChatService, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultLLMModels()[domain.AIProviderAnthropic]
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &ChatService{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Complete runs one completion. System messages are lifted into the
// top-level system field and consecutive turns from the same role are
// merged, as the Messages API requires alternating roles.
func (s *ChatService) Complete(
	ctx context.Context,
	messages []driven.ChatMessage,
	opts driven.ChatOptions,
) (*driven.Completion, error) {
	system, turns := splitMessages(messages)

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	reqBody := messagesRequest{
		Model:       s.model,
		Messages:    turns,
		MaxTokens:   maxTokens,
		System:      system,
		Temperature: opts.Temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("anthropic: read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("anthropic: %w", domain.ErrRateLimited)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("anthropic: decode response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("anthropic error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, string(body))
	}
	if len(parsed.Content) == 0 {
		return nil, errors.New("anthropic: no response content returned")
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &driven.Completion{
		Content:          text.String(),
		PromptTokens:     parsed.Usage.InputTokens,
		CompletionTokens: parsed.Usage.OutputTokens,
	}, nil
}

func splitMessages(messages []driven.ChatMessage) (string, []messagesMessage) {
	var system []string
	turns := make([]messagesMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == domain.RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		if n := len(turns); n > 0 && turns[n-1].Role == msg.Role {
			turns[n-1].Content += "\n\n" + msg.Content
			continue
		}
		turns = append(turns, messagesMessage{Role: msg.Role, Content: msg.Content})
	}
	return strings.Join(system, "\n\n"), turns
}

func (s *ChatService) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
}

// ModelName returns the name of the chat model being used.
func (s *ChatService) ModelName() string {
	return s.model
}

// Ping checks the /v1/models endpoint.
func (s *ChatService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("anthropic: create ping request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("anthropic: API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// Close releases resources.
func (s *ChatService) Close() error {
	return nil
}
