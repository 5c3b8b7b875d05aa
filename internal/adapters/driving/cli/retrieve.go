package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

var (
	retrieveLimit     int
	retrieveThreshold float64
	retrieveSources   []string
	retrieveJSON      bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Find documents relevant to a query",
	Long: `Ranks the documents you are allowed to see against a query.

Uses semantic (embedding) similarity when an embedding provider is
configured and keyword matching otherwise. Queries asking for the
latest or most recent items are ranked by date.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveLimit, "limit", "n", domain.DefaultTopK, "maximum number of results")
	retrieveCmd.Flags().Float64Var(&retrieveThreshold, "threshold", domain.DefaultThreshold, "minimum semantic similarity")
	retrieveCmd.Flags().StringSliceVarP(&retrieveSources, "source", "s", nil,
		"restrict to source kinds (message, issue, calendar_event, mail, shared_document, announcement)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	kinds, err := parseSourceKinds(retrieveSources)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	requester, err := resolveRequester(ctx)
	if err != nil {
		return err
	}

	if syncService != nil {
		if _, err := syncService.SyncAll(ctx, requester.UserID, externalToken.For(requester.UserID)); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
	}

	result, err := retrievalService.Retrieve(ctx, requester, args[0], domain.RetrieveOptions{
		TopK:      retrieveLimit,
		Threshold: retrieveThreshold,
		Sources:   kinds,
	})
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	if retrieveJSON {
		return outputRetrievalJSON(cmd, result)
	}
	outputRetrievalTable(cmd, result)
	return nil
}

func parseSourceKinds(values []string) ([]domain.SourceKind, error) {
	kinds := make([]domain.SourceKind, 0, len(values))
	for _, v := range values {
		kind := domain.SourceKind(v)
		if !kind.IsValid() {
			return nil, fmt.Errorf("%w: unknown source %q", domain.ErrInvalidInput, v)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func outputRetrievalJSON(cmd *cobra.Command, result *domain.RetrievalResult) error {
	data, err := json.MarshalIndent(struct {
		Strategy domain.RetrievalStrategy `json:"strategy"`
		Sources  []domain.Citation        `json:"sources"`
		Scope    string                   `json:"scope_description"`
	}{result.Strategy, result.Sources, result.ScopeDescription}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRetrievalTable(cmd *cobra.Command, result *domain.RetrievalResult) {
	if len(result.Sources) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Printf("Results (%s):\n", result.Strategy)
	cmd.Println()
	for i, src := range result.Sources {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, src.Title, src.Relevance)
		cmd.Printf("      Source: %s\n", src.Source)
		if src.Snippet != "" {
			cmd.Printf("      %s\n", src.Snippet)
		}
		if src.URL != "" {
			cmd.Printf("      %s\n", src.URL)
		}
		cmd.Println()
	}
	cmd.Println(result.ScopeDescription)
}
