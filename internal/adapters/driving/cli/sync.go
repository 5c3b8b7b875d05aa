package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	syncRefresh bool
	syncStrict  bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise documents from sources",
	Long: `Pulls issues, calendar events, mail, the team directory and company
knowledge into your document index.

A result younger than two minutes is reused unless --refresh is given.
A failing source is reported and the others are still indexed.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncRefresh, "refresh", false, "ignore the cached result")
	syncCmd.Flags().BoolVar(&syncStrict, "strict", false, "exit with an error when any source failed")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if syncService == nil {
		return errors.New("sync service not configured")
	}

	ctx := cmd.Context()
	requester, err := resolveRequester(ctx)
	if err != nil {
		return err
	}

	if syncRefresh {
		syncService.Invalidate(requester.UserID)
	}

	cmd.Printf("Synchronising documents for %s...\n", requester.UserID)

	result, err := syncService.SyncAll(ctx, requester.UserID, externalToken.For(requester.UserID))
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	for _, c := range result.Synced {
		cmd.Printf("  %-18s %d\n", c.Source, c.Count)
	}
	cmd.Printf("Indexed %d documents at %s.\n", result.Total(), result.CompletedAt.Format(time.Kitchen))

	if len(result.Errors) == 0 {
		return nil
	}

	cmd.Println()
	cmd.Println("Errors:")
	errs := make([]error, 0, len(result.Errors))
	for _, line := range result.Errors {
		cmd.Printf("  %s\n", line)
		errs = append(errs, errors.New(line))
	}

	if syncStrict {
		return fmt.Errorf("sync incomplete: %w", errors.Join(errs...))
	}
	return nil
}
