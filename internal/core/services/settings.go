package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
	"github.com/custodia-labs/askwork/internal/core/ports/driving"
)

// Verify interface compliance.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider       = "embedding.provider"
	keyEmbedModel          = "embedding.model"
	keyEmbedBaseURL        = "embedding.base_url"
	keyEmbedAPIKey         = "embedding.api_key"
	keyLLMProvider         = "llm.provider"
	keyLLMModel            = "llm.model"
	keyLLMBaseURL          = "llm.base_url"
	keyLLMAPIKey           = "llm.api_key"
	keyIssuesToken         = "issues.token"
	keyIssuesRepositories  = "issues.repositories"
	keyCompanyDomains      = "company.domains"
	keyCustomers           = "classifier.customers"
	keyUrgencyKeywords     = "classifier.urgency_keywords"
	keyPromotionalSenders  = "classifier.promotional_senders"
	keyPromotionalKeywords = "classifier.promotional_keywords"
	keyAutoReplyPatterns   = "classifier.auto_reply_patterns"
	keyKnowledgeFile       = "knowledge.file"
	keyGoogleUser          = "google.user"
)

// Environment variables that override stored secrets.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvGitHubToken  = "GITHUB_TOKEN"

	// EnvGoogleUser names the owner of GOOGLE_ACCESS_TOKEN.
	EnvGoogleUser = "GOOGLE_ACCESS_TOKEN_USER"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service. lookupEnv defaults
// to os.LookupEnv when nil.
func NewSettingsService(configStore driven.ConfigStore, lookupEnv func(string) (string, bool)) *SettingsService {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   lookupEnv,
	}
}

// Get retrieves current settings. Environment secrets take precedence
// over stored values.
func (s *SettingsService) Get() (*domain.Settings, error) {
	embedProvider := s.getProvider(keyEmbedProvider, domain.AIProviderOpenAI)
	if !embedProvider.SupportsEmbeddings() {
		embedProvider = domain.AIProviderOpenAI
	}
	llmProvider := s.getProvider(keyLLMProvider, domain.AIProviderOpenAI)

	settings := &domain.Settings{
		Embedding: domain.EmbeddingSettings{
			Provider: embedProvider,
			Model:    s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[embedProvider]),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL),
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: llmProvider,
			Model:    s.getString(keyLLMModel, domain.DefaultLLMModels()[llmProvider]),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		IssueTracker: domain.IssueTrackerSettings{
			Token:        s.configStore.GetString(keyIssuesToken),
			Repositories: s.configStore.GetStringSlice(keyIssuesRepositories),
		},
		Classifier:    s.classifierRules(),
		KnowledgeFile: s.configStore.GetString(keyKnowledgeFile),
		GoogleUser:    s.configStore.GetString(keyGoogleUser),
	}

	if key, ok := s.env(EnvOpenAIKey); ok && settings.Embedding.Provider == domain.AIProviderOpenAI {
		settings.Embedding.APIKey = key
	}
	if key, ok := s.env(s.llmKeyVar(settings.LLM.Provider)); ok {
		settings.LLM.APIKey = key
	}
	if token, ok := s.env(EnvGitHubToken); ok {
		settings.IssueTracker.Token = token
	}
	if user, ok := s.env(EnvGoogleUser); ok {
		settings.GoogleUser = user
	}

	return settings, nil
}

// Save persists settings. Empty secrets are not written so that values
// supplied through the environment never overwrite the file.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyIssuesRepositories, settings.IssueTracker.Repositories},
		{keyCompanyDomains, settings.Classifier.InternalDomains},
		{keyCustomers, settings.Classifier.CustomerNames},
		{keyKnowledgeFile, settings.KnowledgeFile},
		{keyGoogleUser, settings.GoogleUser},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	secrets := map[string]string{
		keyEmbedAPIKey: settings.Embedding.APIKey,
		keyLLMAPIKey:   settings.LLM.APIKey,
		keyIssuesToken: settings.IssueTracker.Token,
	}
	for key, value := range secrets {
		if value == "" {
			continue
		}
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// classifierRules starts from the built-in tables and replaces any
// table the config overrides. Customers and company domains have no
// built-in values.
func (s *SettingsService) classifierRules() domain.ClassifierRules {
	rules := domain.DefaultClassifierRules(s.configStore.GetStringSlice(keyCompanyDomains)...)
	rules.CustomerNames = s.configStore.GetStringSlice(keyCustomers)
	override := func(key string, table *[]string) {
		if vals := s.configStore.GetStringSlice(key); len(vals) > 0 {
			*table = vals
		}
	}
	override(keyUrgencyKeywords, &rules.UrgencyKeywords)
	override(keyPromotionalSenders, &rules.PromotionalSenders)
	override(keyPromotionalKeywords, &rules.PromotionalKeywords)
	override(keyAutoReplyPatterns, &rules.AutoReplyPatterns)
	return rules
}

func (s *SettingsService) llmKeyVar(provider domain.AIProvider) string {
	if provider == domain.AIProviderAnthropic {
		return EnvAnthropicKey
	}
	return EnvOpenAIKey
}

func (s *SettingsService) env(name string) (string, bool) {
	val, ok := s.lookupEnv(name)
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
