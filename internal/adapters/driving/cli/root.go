// Package cli implements the askwork command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
	"github.com/custodia-labs/askwork/internal/core/ports/driving"
	"github.com/custodia-labs/askwork/internal/logger"
)

// EnvUser names the default user when --user is not given.
const EnvUser = "ASKWORK_USER"

var version = "dev"

var (
	verbose   bool
	auditLog  string
	userFlag  string
	auditFile *os.File
)

// Services driven by the commands. A nil service makes its command
// fail with "not configured".
var (
	answerService     driving.AnswerService
	retrievalService  driving.RetrievalService
	syncService       driving.SyncService
	classifierService driving.ClassifierService
	scopeService      driving.ScopeService
	settingsService   driving.SettingsService
	identityService   driven.IdentityService
	mailService       driven.MailService
	externalToken     domain.DelegatedToken
)

// Dependencies holds everything the commands need.
type Dependencies struct {
	Answer     driving.AnswerService
	Retrieval  driving.RetrievalService
	Sync       driving.SyncService
	Classifier driving.ClassifierService
	Scope      driving.ScopeService
	Settings   driving.SettingsService
	Identity   driven.IdentityService
	Mail       driven.MailService

	// ExternalToken is the OAuth access token for calendar and mail.
	// Only its owner's requests carry it.
	ExternalToken domain.DelegatedToken
}

// Configure installs the services used by the commands.
func Configure(deps Dependencies) {
	answerService = deps.Answer
	retrievalService = deps.Retrieval
	syncService = deps.Sync
	classifierService = deps.Classifier
	scopeService = deps.Scope
	settingsService = deps.Settings
	identityService = deps.Identity
	mailService = deps.Mail
	externalToken = deps.ExternalToken
}

// SetVersion sets the version reported by "askwork version".
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "askwork",
	Short: "Ask anything about your work",
	Long: `askwork answers questions about your work from your issues, calendar,
mail, team directory and company knowledge.

Every answer is built only from data you are allowed to see. Other people's
private mail and direct messages are never used.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupLogging,
	PersistentPostRunE: closeAuditLog,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug output")
	rootCmd.PersistentFlags().StringVar(&auditLog, "audit-log", "", "append audit entries to this file instead of stderr")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user ID or email (default $"+EnvUser+")")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setupLogging(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if auditLog == "" {
		return nil
	}

	f, err := os.OpenFile(auditLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	auditFile = f
	logger.SetAuditOutput(f)
	return nil
}

func closeAuditLog(_ *cobra.Command, _ []string) error {
	if auditFile == nil {
		return nil
	}
	logger.SetAuditOutput(os.Stderr)
	err := auditFile.Close()
	auditFile = nil
	return err
}

// currentUser returns --user, falling back to $ASKWORK_USER.
func currentUser() string {
	if u := strings.TrimSpace(userFlag); u != "" {
		return u
	}
	return strings.TrimSpace(os.Getenv(EnvUser))
}

// resolveRequester resolves the current user through the identity
// service. An unknown user is an authorisation gap.
func resolveRequester(ctx context.Context) (*domain.RequesterContext, error) {
	if identityService == nil {
		return nil, errors.New("identity service not configured")
	}

	user := currentUser()
	if user == "" {
		return nil, fmt.Errorf("no user given: pass --user or set %s", EnvUser)
	}

	requester, err := identityService.RequesterContext(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("resolving user %s: %w", user, err)
	}
	if requester == nil {
		return nil, fmt.Errorf("%w: unknown user %s", domain.ErrAuthorizationGap, user)
	}
	return requester, nil
}
