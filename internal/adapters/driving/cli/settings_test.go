package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsCmd_Show(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.settings.LLM.APIKey = "sk-1234567890abcdef"
	ts.settings.settings.IssueTracker.Repositories = []string{"acme/api"}

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Provider: OpenAI (cloud)")
	assert.Contains(t, out, "Model: gpt-4o-mini")
	assert.Contains(t, out, "API Key: sk-1...cdef")
	assert.Contains(t, out, "API Key: (not set)")
	assert.Contains(t, out, "Repositories: acme/api")
	assert.NotContains(t, out, "Answers are disabled")
}

func TestSettingsCmd_ShowWarnsWithoutLLM(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Answers are disabled until an LLM is configured.")
}

func TestSettingsCmd_LLM(t *testing.T) {
	ts := setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("2\n\nsk-ant-key\n"))

	out, err := execute(t, "settings", "llm")

	require.NoError(t, err)
	assert.Contains(t, out, "LLM provider configured: Anthropic (cloud) (claude-3-5-sonnet-latest)")
	assert.Equal(t, 1, ts.settings.saved)
	assert.Equal(t, domain.AIProviderAnthropic, ts.settings.settings.LLM.Provider)
	assert.Equal(t, "sk-ant-key", ts.settings.settings.LLM.APIKey)
}

func TestSettingsCmd_LLMRequiresKeyForNewProvider(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.settings.LLM.APIKey = "sk-openai"
	rootCmd.SetIn(strings.NewReader("2\n\n\n"))

	_, err := execute(t, "settings", "llm")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
	assert.Zero(t, ts.settings.saved)
}

func TestSettingsCmd_Embedding_KeepsExistingKey(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.settings.Embedding.APIKey = "sk-embed"
	rootCmd.SetIn(strings.NewReader("\ntext-embedding-3-large\n\n"))

	out, err := execute(t, "settings", "embedding")

	require.NoError(t, err)
	assert.Contains(t, out, "(text-embedding-3-large)")
	assert.Equal(t, "text-embedding-3-large", ts.settings.settings.Embedding.Model)
	assert.Equal(t, "sk-embed", ts.settings.settings.Embedding.APIKey)
}

func TestSettingsCmd_Issues(t *testing.T) {
	ts := setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("acme/api, acme/web ,\nghp_token\n"))

	out, err := execute(t, "settings", "issues")

	require.NoError(t, err)
	assert.Contains(t, out, "Issue tracker configured: acme/api, acme/web")
	assert.Equal(t, []string{"acme/api", "acme/web"}, ts.settings.settings.IssueTracker.Repositories)
	assert.Equal(t, "ghp_token", ts.settings.settings.IssueTracker.Token)
}

func TestSettingsCmd_ServiceNotConfigured(t *testing.T) {
	setupTestServices(t)
	settingsService = nil

	_, err := execute(t, "settings", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
