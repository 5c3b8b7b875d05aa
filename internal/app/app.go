// Package app assembles askwork from its configuration: settings, AI
// providers, collaborators and core services.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/askwork/internal/adapters/driven/ai"
	"github.com/custodia-labs/askwork/internal/adapters/driven/config/file"
	"github.com/custodia-labs/askwork/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askwork/internal/connectors/github"
	"github.com/custodia-labs/askwork/internal/connectors/google/calendar"
	"github.com/custodia-labs/askwork/internal/connectors/google/gmail"
	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
	"github.com/custodia-labs/askwork/internal/core/services"
	"github.com/custodia-labs/askwork/internal/logger"
	"github.com/custodia-labs/askwork/internal/normalisers"
)

// EnvGoogleToken holds the requester's Google OAuth access token.
//
//nolint:gosec // G101: variable name, not a credential.
const EnvGoogleToken = "GOOGLE_ACCESS_TOKEN"

// Options configures New.
type Options struct {
	// ConfigDir holds config.toml, knowledge.toml and prompts/.
	// Defaults to ~/.askwork.
	ConfigDir string

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// Watch reloads the knowledge file on change.
	Watch bool
}

// App holds the assembled services.
type App struct {
	Settings    *services.SettingsService
	Identity    *file.Directory
	Knowledge   *file.KnowledgeBase
	Permissions *services.PermissionEngine
	Classifier  *services.Classifier
	Retrieval   *services.RetrievalService
	Sync        *services.SyncOrchestrator
	Answer      *services.AnswerService

	// Mail fetches the requester's mailbox with ExternalToken.
	Mail driven.MailService

	// ExternalToken is the Google access token from the environment,
	// bound to the directory user who owns it.
	ExternalToken domain.DelegatedToken

	// Warnings lists capabilities that were disabled at startup.
	Warnings []string

	aiServices *ai.InitResult
	cancel     context.CancelFunc
}

// New builds the application. Missing optional configuration disables
// the affected capability with a warning instead of failing.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	if opts.ConfigDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		opts.ConfigDir = dir
	}

	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(configStore, opts.LookupEnv)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	knowledgePath := settings.KnowledgeFile
	if knowledgePath == "" {
		knowledgePath = filepath.Join(opts.ConfigDir, "knowledge.toml")
	}
	knowledge, err := file.NewKnowledgeBase(knowledgePath)
	if err != nil {
		return nil, err
	}

	a := &App{
		Settings:    settingsService,
		Identity:    file.NewDirectory(knowledge),
		Knowledge:   knowledge,
		Permissions: services.NewPermissionEngine(),
		Classifier:  services.NewClassifier(settings.Classifier),
	}

	a.aiServices = ai.Init(ctx, settings)
	a.Warnings = append(a.Warnings, a.aiServices.Warnings...)

	mailbox := gmail.New()
	a.Mail = mailbox
	sources := services.SyncSources{
		Calendar:  calendar.New(),
		Mail:      mailbox,
		Knowledge: knowledge,
	}
	if tracker, err := newIssueTracker(ctx, settings.IssueTracker); err != nil {
		a.Warnings = append(a.Warnings, "issue tracker disabled: "+err.Error())
		logger.Warn("Issue tracker disabled: %v", err)
	} else if tracker != nil {
		sources.Issues = tracker
	}

	token, err := a.delegatedToken(ctx, opts.LookupEnv, settings.GoogleUser)
	if err != nil {
		a.Warnings = append(a.Warnings, "calendar and mail disabled: "+err.Error())
		logger.Warn("Calendar and mail disabled: %v", err)
	}
	a.ExternalToken = token

	store := memory.NewDocumentStore()
	indexer := services.NewIndexer(store, a.aiServices.EmbeddingService)
	a.Retrieval = services.NewRetrievalService(store, a.aiServices.EmbeddingService, a.Permissions)
	a.Sync = services.NewSyncOrchestrator(
		indexer,
		memory.NewSyncResultCache(domain.SyncResultTTL),
		normalisers.NewSet(),
		a.Classifier,
		sources,
	)
	a.Answer = services.NewAnswerService(a.Sync, a.Retrieval, a.Permissions, a.aiServices.ChatService)

	prompts, err := file.NewPromptStore(filepath.Join(opts.ConfigDir, "prompts"), map[string]string{
		driven.PromptPersona: services.DefaultPersona,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	if persona, err := prompts.Load(driven.PromptPersona); err != nil {
		logger.Warn("Using built-in persona: %v", err)
	} else {
		a.Answer.SetPersona(persona)
	}

	if opts.Watch {
		a.watchKnowledge(ctx)
	}
	return a, nil
}

// delegatedToken binds the Google access token to its owner. The owner
// is resolved through the directory so requester IDs compare exactly.
func (a *App) delegatedToken(
	ctx context.Context,
	lookupEnv func(string) (string, bool),
	owner string,
) (domain.DelegatedToken, error) {
	token, ok := lookupEnv(EnvGoogleToken)
	if !ok || token == "" {
		logger.Info("%s not set: calendar and mail are skipped", EnvGoogleToken)
		return domain.DelegatedToken{}, nil
	}
	if strings.TrimSpace(owner) == "" {
		return domain.DelegatedToken{}, fmt.Errorf("%s is set but %s names no owner",
			EnvGoogleToken, services.EnvGoogleUser)
	}
	requester, err := a.Identity.RequesterContext(ctx, owner)
	if err != nil {
		return domain.DelegatedToken{}, fmt.Errorf("resolve token owner: %w", err)
	}
	if requester == nil {
		return domain.DelegatedToken{}, fmt.Errorf("token owner %q is not in the directory", owner)
	}
	return domain.DelegatedToken{OwnerID: requester.UserID, Token: token}, nil
}

// watchKnowledge reloads the knowledge file on change and drops every
// cached sync result so the next request sees the new data.
func (a *App) watchKnowledge(ctx context.Context) {
	watchCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	go func() {
		err := a.Knowledge.Watch(watchCtx, a.Sync.InvalidateAll)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("Knowledge file watcher stopped: %v", err)
		}
	}()
}

// Close stops the watcher and releases the AI services.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.aiServices != nil {
		a.aiServices.Close()
	}
}

// newIssueTracker returns nil when the tracker is not configured.
func newIssueTracker(ctx context.Context, settings domain.IssueTrackerSettings) (*github.IssueTracker, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}
	client := github.NewClientWithToken(ctx, settings.Token)
	return github.NewIssueTracker(client, settings.Repositories)
}
