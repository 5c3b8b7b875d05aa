// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	openaiembed "github.com/custodia-labs/askwork/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/askwork/internal/adapters/driven/llm/anthropic"
	openaillm "github.com/custodia-labs/askwork/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
	"github.com/custodia-labs/askwork/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation. A nil
// service means that capability is disabled.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	ChatService      driven.ChatService
	Warnings         []string // Non-fatal issues that disabled a service.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		_ = r.EmbeddingService.Close()
	}
	if r.ChatService != nil {
		_ = r.ChatService.Close()
	}
}

// Init builds and health-checks both services. Any failure disables the
// affected service and records a warning instead of returning an error:
// retrieval falls back to keywords and answers to the disabled reply.
func Init(ctx context.Context, settings *domain.Settings) *InitResult {
	result := &InitResult{}
	if settings == nil {
		return result
	}

	embed, err := CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		logger.Warn("embeddings disabled: %v", err)
	}
	result.EmbeddingService = embed

	chat, err := CreateAndValidateChatService(ctx, &settings.LLM)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		logger.Warn("answers disabled: %v", err)
	}
	result.ChatService = chat

	return result
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Unconfigured settings return nil without an error.
func CreateAndValidateEmbeddingService(
	ctx context.Context,
	settings *domain.EmbeddingSettings,
) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateChatService creates a chat service and validates connectivity.
// Unconfigured settings return nil without an error.
func CreateAndValidateChatService(ctx context.Context, settings *domain.LLMSettings) (driven.ChatService, error) {
	svc, err := CreateChatService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: %s has no embedding API", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateChatService creates the appropriate chat service based on settings.
// Returns nil if the provider is not configured.
func CreateChatService(settings *domain.LLMSettings) (driven.ChatService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		svc, err := openaillm.NewChatService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderAnthropic:
		svc, err := anthropicllm.NewChatService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, settings.Provider)
	}
}
