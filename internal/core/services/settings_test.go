package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askwork/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askwork/internal/core/domain"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(vals map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vals[name]
		return v, ok
	}
}

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(nil), nil)

	require.NotNil(t, service)
	assert.NotNil(t, service.lookupEnv)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(nil), noEnv)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
	assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", settings.LLM.Model)
	assert.False(t, settings.LLM.IsConfigured())
	assert.False(t, settings.IssueTracker.IsConfigured())
	assert.Empty(t, settings.Classifier.InternalDomains)
	assert.Equal(t, domain.DefaultClassifierRules().UrgencyKeywords, settings.Classifier.UrgencyKeywords)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"llm.provider":        "anthropic",
		"llm.api_key":         "sk-ant",
		"issues.token":        "ghp_x",
		"issues.repositories": []any{"acme/api", "acme/web"},
		"company.domains":     []any{"acme.com"},
		"classifier.customers": []any{
			"Globex",
		},
		"classifier.urgency_keywords": []any{"p0"},
		"knowledge.file":              "/etc/askwork/knowledge.toml",
		"google.user":                 "alice@acme.com",
	})
	service := NewSettingsService(store, noEnv)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", settings.LLM.Model)
	assert.True(t, settings.LLM.IsConfigured())
	assert.Equal(t, []string{"acme/api", "acme/web"}, settings.IssueTracker.Repositories)
	assert.True(t, settings.IssueTracker.IsConfigured())
	assert.Equal(t, []string{"acme.com"}, settings.Classifier.InternalDomains)
	assert.Equal(t, []string{"Globex"}, settings.Classifier.CustomerNames)
	assert.Equal(t, []string{"p0"}, settings.Classifier.UrgencyKeywords)
	assert.NotEmpty(t, settings.Classifier.PromotionalSenders)
	assert.Equal(t, "/etc/askwork/knowledge.toml", settings.KnowledgeFile)
	assert.Equal(t, "alice@acme.com", settings.GoogleUser)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"llm.provider":       "invalid_provider",
		"embedding.provider": "anthropic",
	})
	service := NewSettingsService(store, noEnv)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
}

func TestSettingsService_Get_EnvironmentOverrides(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"llm.provider": "anthropic",
		"llm.api_key":  "from-file",
		"issues.token": "from-file",
		"google.user":  "from-file",
	})
	service := NewSettingsService(store, envOf(map[string]string{
		EnvOpenAIKey:    "sk-openai",
		EnvAnthropicKey: "sk-ant",
		EnvGitHubToken:  "",
		EnvGoogleUser:   "bob",
	}))

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "sk-openai", settings.Embedding.APIKey)
	assert.Equal(t, "sk-ant", settings.LLM.APIKey)
	assert.Equal(t, "from-file", settings.IssueTracker.Token)
	assert.Equal(t, "bob", settings.GoogleUser)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{"llm.api_key": "keep-me"})
	service := NewSettingsService(store, noEnv)

	settings := &domain.Settings{
		Embedding: domain.EmbeddingSettings{
			Provider: domain.AIProviderOpenAI,
			Model:    "text-embedding-3-large",
			APIKey:   "sk-embed",
		},
		LLM: domain.LLMSettings{
			Provider: domain.AIProviderAnthropic,
			Model:    "claude-3-5-sonnet-latest",
		},
		IssueTracker: domain.IssueTrackerSettings{Repositories: []string{"acme/api"}},
		Classifier:   domain.ClassifierRules{InternalDomains: []string{"acme.com"}},
	}

	require.NoError(t, service.Save(settings))

	assert.Equal(t, "text-embedding-3-large", store.GetString("embedding.model"))
	assert.Equal(t, "sk-embed", store.GetString("embedding.api_key"))
	assert.Equal(t, "anthropic", store.GetString("llm.provider"))
	assert.Equal(t, "keep-me", store.GetString("llm.api_key"))
	assert.Equal(t, []string{"acme/api"}, store.GetStringSlice("issues.repositories"))

	loaded, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, []string{"acme.com"}, loaded.Classifier.InternalDomains)
}
