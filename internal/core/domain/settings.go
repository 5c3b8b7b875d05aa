package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or chat.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is the OpenAI cloud API (or any compatible endpoint).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// AllLLMProviders returns the providers that can serve chat completions.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOpenAI, AIProviderAnthropic}
}

// AllEmbeddingProviders returns the providers that can serve embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOpenAI}
}

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// SupportsEmbeddings returns true if the provider offers an embedding API.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider.SupportsEmbeddings() && e.APIKey != ""
}

// LLMSettings holds chat-completion provider configuration.
type LLMSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid() && l.APIKey != ""
}

// IssueTrackerSettings configures the issue-tracker collaborator.
type IssueTrackerSettings struct {
	// Token is the API token for the tracker.
	Token string

	// Repositories lists "owner/name" repositories to pull issues from.
	Repositories []string
}

// IsConfigured returns true if the tracker can be queried.
func (s IssueTrackerSettings) IsConfigured() bool {
	return s.Token != "" && len(s.Repositories) > 0
}

// Settings is the full application configuration.
type Settings struct {
	Embedding    EmbeddingSettings
	LLM          LLMSettings
	IssueTracker IssueTrackerSettings
	Classifier   ClassifierRules

	// KnowledgeFile is the TOML file holding the team directory and
	// company knowledge.
	KnowledgeFile string

	// GoogleUser is the user, by ID or email, whose Google access token
	// the process holds. Calendar and mail are synced for that user only.
	GoogleUser string
}

// ClassifierRules holds the lookup tables used by the message
// priority classifier. Matching is case-insensitive.
type ClassifierRules struct {
	// InternalDomains are the company's mail domains.
	InternalDomains []string

	// AutoReplyPatterns mark out-of-office and automatic replies.
	AutoReplyPatterns []string

	// PromotionalSenders are matched on the sender address only.
	// "@example.com" matches a domain, "newsletter@" a local-part
	// prefix, anything else the full address.
	PromotionalSenders []string

	// PromotionalKeywords mark marketing content.
	PromotionalKeywords []string

	// CustomerNames are external customers and partners.
	CustomerNames []string

	// UrgencyKeywords mark time-critical content.
	UrgencyKeywords []string
}

// DefaultClassifierRules returns the built-in tables for the given
// company domains.
func DefaultClassifierRules(internalDomains ...string) ClassifierRules {
	return ClassifierRules{
		InternalDomains: internalDomains,
		AutoReplyPatterns: []string{
			"out of office",
			"out-of-office",
			"automatic reply",
			"auto-reply",
			"autoreply",
			"auto reply",
			"away from the office",
			"i am currently out",
			"i'm currently out",
		},
		PromotionalSenders: []string{
			"newsletter@",
			"newsletters@",
			"noreply@",
			"no-reply@",
			"donotreply@",
			"do-not-reply@",
			"marketing@",
			"notifications@",
			"notification@",
			"news@",
			"digest@",
			"promo@",
			"promotions@",
			"offers@",
			"deals@",
			"@mailchimp.com",
			"@sendgrid.net",
			"@substack.com",
			"@medium.com",
			"@linkedin.com",
		},
		PromotionalKeywords: []string{
			"unsubscribe",
			"newsletter",
			"limited-time",
			"limited time",
			"special offer",
			"exclusive offer",
			"promo code",
			"discount",
			"% off",
			"sale ends",
			"view in browser",
			"webinar",
		},
		UrgencyKeywords: []string{
			"urgent",
			"asap",
			"outage",
			"incident",
			"emergency",
		},
	}
}
