package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, the issue tracker and other options.

Settings are stored in ~/.askwork/config.toml. API keys may also be
supplied through OPENAI_API_KEY, ANTHROPIC_API_KEY and GITHUB_TOKEN,
which take precedence over the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used for semantic retrieval.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used to generate answers.`,
	RunE:  runSettingsLLM,
}

var settingsIssuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "Configure the issue tracker",
	Long:  `Configure the GitHub token and the repositories whose issues are indexed.`,
	RunE:  runSettingsIssues,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsIssuesCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	cmd.Printf("  API Key: %s\n", keyStatus(settings.Embedding.APIKey))
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	cmd.Printf("  API Key: %s\n", keyStatus(settings.LLM.APIKey))
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Issues]")
	cmd.Printf("  Token: %s\n", keyStatus(settings.IssueTracker.Token))
	cmd.Printf("  Repositories: %s\n", listOrNone(settings.IssueTracker.Repositories))
	cmd.Printf("  Status: %s\n", configuredStatus(settings.IssueTracker.IsConfigured()))
	cmd.Println()

	cmd.Println("[Company]")
	cmd.Printf("  Domains: %s\n", listOrNone(settings.Classifier.InternalDomains))
	cmd.Printf("  Customers: %s\n", listOrNone(settings.Classifier.CustomerNames))
	if settings.KnowledgeFile != "" {
		cmd.Printf("  Knowledge file: %s\n", settings.KnowledgeFile)
	}
	if settings.GoogleUser != "" {
		cmd.Printf("  Google token owner: %s\n", settings.GoogleUser)
	}

	if !settings.LLM.IsConfigured() {
		cmd.Println()
		cmd.Println("Answers are disabled until an LLM is configured.")
		cmd.Println("Run 'askwork settings llm' to configure one.")
	}
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureEmbeddingProvider(cmd, reader)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func runSettingsIssues(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	current := strings.Join(settings.IssueTracker.Repositories, ", ")
	cmd.Printf("Enter repositories as owner/name, comma separated [%s]: ", current)
	if input := readLine(reader); input != "" {
		settings.IssueTracker.Repositories = splitList(input)
	}

	cmd.Print("Enter GitHub token (blank keeps the current one): ")
	settings.IssueTracker.Token = readPassword(cmd.InOrStdin(), reader)
	cmd.Println()

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Issue tracker configured: %s\n", listOrNone(settings.IssueTracker.Repositories))
	return nil
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings - intentional for CLI flow clarity
func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	cmd.Print("Enter API key (blank keeps the current one): ")
	apiKey := readPassword(cmd.InOrStdin(), reader)
	cmd.Println()
	if apiKey == "" && settings.Embedding.APIKey == "" {
		return errors.New("API key is required for this provider")
	}

	settings.Embedding = domain.EmbeddingSettings{
		Provider: selectedProvider,
		Model:    model,
		BaseURL:  settings.Embedding.BaseURL,
		APIKey:   apiKey,
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Printf("Embedding provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

//nolint:dupl // Similar to configureEmbeddingProvider but for LLM - intentional for CLI flow clarity
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	cmd.Print("Enter API key (blank keeps the current one): ")
	apiKey := readPassword(cmd.InOrStdin(), reader)
	cmd.Println()
	if apiKey == "" && (settings.LLM.APIKey == "" || settings.LLM.Provider != selectedProvider) {
		return errors.New("API key is required for this provider")
	}

	settings.LLM = domain.LLMSettings{
		Provider: selectedProvider,
		Model:    model,
		BaseURL:  settings.LLM.BaseURL,
		APIKey:   apiKey,
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Printf("LLM provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is the terminal, otherwise
// it reads a plain line.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func keyStatus(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func listOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}

func splitList(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
