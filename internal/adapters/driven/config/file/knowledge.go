package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
	"github.com/custodia-labs/askwork/internal/logger"
)

// Ensure KnowledgeBase and Directory implement the interfaces.
var (
	_ driven.KnowledgeBase   = (*KnowledgeBase)(nil)
	_ driven.IdentityService = (*Directory)(nil)
)

// reloadDebounce coalesces the bursts of events editors produce on save.
const reloadDebounce = 100 * time.Millisecond

// knowledgeFile is the on-disk layout:
//
//	[[people]]
//	id = "alice"
//	email = "alice@acme.com"
//	role = "Engineering Manager"
//	channels = ["eng", "dm:alice:bob"]
//
//	[[announcements]]
//	title = "Offsite"
//	content = "..."
type knowledgeFile struct {
	People        []domain.TeamMember     `toml:"people"`
	Announcements []domain.KnowledgeEntry `toml:"announcements"`
}

// KnowledgeBase serves the team directory and company knowledge from a
// TOML file. A missing file is an empty knowledge base.
type KnowledgeBase struct {
	mu   sync.RWMutex
	path string
	data knowledgeFile
}

// DefaultKnowledgePath returns ~/.askwork/knowledge.toml.
func DefaultKnowledgePath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "knowledge.toml"), nil
}

// NewKnowledgeBase loads the knowledge file at path.
func NewKnowledgeBase(path string) (*KnowledgeBase, error) {
	if path == "" {
		p, err := DefaultKnowledgePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	kb := &KnowledgeBase{path: path}
	if err := kb.Reload(); err != nil {
		return nil, err
	}
	return kb, nil
}

// Path returns the knowledge file path.
func (k *KnowledgeBase) Path() string {
	return k.path
}

// Reload re-reads the file. On a parse error the previous contents stay
// in place.
func (k *KnowledgeBase) Reload() error {
	raw, err := os.ReadFile(k.path)
	if errors.Is(err, os.ErrNotExist) {
		k.mu.Lock()
		k.data = knowledgeFile{}
		k.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read knowledge file: %w", err)
	}

	var data knowledgeFile
	if err := toml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse %s: %w", k.path, err)
	}

	k.mu.Lock()
	k.data = data
	k.mu.Unlock()
	logger.Debug("loaded %d people and %d announcements from %s",
		len(data.People), len(data.Announcements), k.path)
	return nil
}

// TeamDirectory returns a copy of the people entries.
func (k *KnowledgeBase) TeamDirectory(_ context.Context) ([]domain.TeamMember, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return slices.Clone(k.data.People), nil
}

// CompanyKnowledge returns a copy of the announcement entries.
func (k *KnowledgeBase) CompanyKnowledge(_ context.Context) ([]domain.KnowledgeEntry, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return slices.Clone(k.data.Announcements), nil
}

// lookup finds a person by ID or, case-insensitively, by email.
func (k *KnowledgeBase) lookup(userID string) (domain.TeamMember, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	for _, p := range k.data.People {
		if p.ID != "" && p.ID == userID {
			return p, true
		}
		if p.Email != "" && strings.EqualFold(p.Email, userID) {
			return p, true
		}
	}
	return domain.TeamMember{}, false
}

// Watch reloads the file whenever it changes and calls onChange after
// each successful reload. It blocks until ctx is done.
func (k *KnowledgeBase) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so replace-on-save editors are seen.
	dir := filepath.Dir(k.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		if err := k.Reload(); err != nil {
			logger.Warn("knowledge reload failed: %v", err)
			return
		}
		logger.Info("knowledge file changed, reloaded %s", k.path)
		if onChange != nil {
			onChange()
		}
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !k.relevant(event) {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, reload)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("knowledge watcher: %v", err)
		}
	}
}

func (k *KnowledgeBase) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(k.path) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

// Directory resolves requester identities from the people entries of a
// KnowledgeBase.
type Directory struct {
	kb *KnowledgeBase
}

// NewDirectory creates an identity directory over kb.
func NewDirectory(kb *KnowledgeBase) *Directory {
	return &Directory{kb: kb}
}

// RequesterContext builds a fresh requester context on every call.
// Unknown users return nil without an error.
func (d *Directory) RequesterContext(_ context.Context, userID string) (*domain.RequesterContext, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}
	person, ok := d.kb.lookup(userID)
	if !ok {
		return nil, nil
	}

	id := person.ID
	if id == "" {
		id = strings.ToLower(person.Email)
	}
	channels := make(map[string]bool, len(person.Channels))
	for _, ch := range person.Channels {
		channels[ch] = true
	}
	return &domain.RequesterContext{
		UserID:             id,
		Email:              person.Email,
		DisplayName:        person.Name,
		Role:               person.Role,
		Department:         person.Department,
		ChannelMemberships: channels,
		IsLeadership:       person.Leadership,
		IsManager:          person.Manager,
	}, nil
}
