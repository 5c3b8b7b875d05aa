package cli

import (
	"errors"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var scopeCmd = &cobra.Command{
	Use:   "scope",
	Short: "Show what data you are allowed to see",
	Args:  cobra.NoArgs,
	RunE:  runScope,
}

func init() {
	rootCmd.AddCommand(scopeCmd)
}

func runScope(cmd *cobra.Command, _ []string) error {
	if scopeService == nil {
		return errors.New("scope service not configured")
	}

	requester, err := resolveRequester(cmd.Context())
	if err != nil {
		return err
	}

	scope := scopeService.ComputeScope(requester)
	channels := make([]string, 0, len(scope.CanAccessChannels))
	for id, ok := range scope.CanAccessChannels {
		if ok {
			channels = append(channels, id)
		}
	}
	slices.Sort(channels)

	cmd.Println(scopeService.DescribeScope(requester))
	cmd.Println()
	cmd.Printf("  Own data:         %s\n", yesNo(scope.CanAccessOwnData))
	cmd.Printf("  Team artifacts:   %s\n", yesNo(scope.CanAccessTeamArtifacts))
	cmd.Printf("  Department data:  %s\n", yesNo(scope.CanAccessDepartmentData))
	cmd.Printf("  Org insights:     %s\n", yesNo(scope.CanAccessOrgInsights))
	if len(channels) > 0 {
		cmd.Printf("  Channels:         %s\n", strings.Join(channels, ", "))
	} else {
		cmd.Printf("  Channels:         (none)\n")
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
