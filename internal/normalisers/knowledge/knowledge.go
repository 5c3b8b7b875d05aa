// Package knowledge normalises the static team directory, company
// knowledge entries and the current-date note.
package knowledge

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

func documentID(source domain.SyncSource, externalID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(domain.DocumentURI(source, externalID))).String()
}

// NormaliseMember converts a directory entry into a team-visible
// shared document. A name and either an ID or an email are required.
func NormaliseMember(m domain.TeamMember, ownerID string) (domain.Document, error) {
	key := m.ID
	if key == "" {
		key = strings.ToLower(m.Email)
	}
	if strings.TrimSpace(key) == "" {
		return domain.Document{}, &domain.NormalizationError{
			Source: domain.SyncSourceTeamDirectory, RecordID: m.Name, Reason: "missing id and email",
		}
	}
	if strings.TrimSpace(m.Name) == "" {
		return domain.Document{}, &domain.NormalizationError{
			Source: domain.SyncSourceTeamDirectory, RecordID: key, Reason: "missing name",
		}
	}

	var sb strings.Builder
	sb.WriteString(m.Name)
	if m.Role != "" {
		fmt.Fprintf(&sb, " is %s", m.Role)
		if m.Department != "" {
			fmt.Fprintf(&sb, " in %s", m.Department)
		}
	} else if m.Department != "" {
		fmt.Fprintf(&sb, " works in %s", m.Department)
	}
	sb.WriteString(".")
	if m.Email != "" {
		fmt.Fprintf(&sb, "\nEmail: %s", m.Email)
	}
	if m.Leadership {
		sb.WriteString("\nMember of the leadership team.")
	}

	return domain.Document{
		ID:         documentID(domain.SyncSourceTeamDirectory, key),
		Source:     domain.SourceSharedDocument,
		SourceID:   key,
		Title:      "Team directory: " + m.Name,
		Content:    sb.String(),
		OwnerID:    ownerID,
		IsPrivate:  false,
		Department: m.Department,
	}, nil
}

// NormaliseEntry converts a knowledge entry into an org-wide
// announcement. Content is required; the ID falls back to the title.
func NormaliseEntry(e domain.KnowledgeEntry, ownerID string) (domain.Document, error) {
	content := strings.TrimSpace(e.Content)
	if content == "" {
		return domain.Document{}, &domain.NormalizationError{
			Source: domain.SyncSourceCompanyKnowledge, RecordID: e.ID, Reason: "missing content",
		}
	}
	key := e.ID
	if key == "" {
		key = strings.ToLower(strings.TrimSpace(e.Title))
	}
	if key == "" {
		return domain.Document{}, &domain.NormalizationError{
			Source: domain.SyncSourceCompanyKnowledge, Reason: "missing id and title",
		}
	}

	return domain.Document{
		ID:         documentID(domain.SyncSourceCompanyKnowledge, key),
		Source:     domain.SourceAnnouncement,
		SourceID:   key,
		Title:      strings.TrimSpace(e.Title),
		Content:    content,
		OwnerID:    ownerID,
		IsPrivate:  false,
		Department: e.Department,
		CreatedAt:  e.UpdatedAt,
	}, nil
}

// DateContext returns a note stating the current date and time, so
// relative questions ("this week", "tomorrow") can be answered.
func DateContext(now time.Time, ownerID string) domain.Document {
	return domain.Document{
		ID:       documentID(domain.SyncSourceDateContext, now.Format(time.DateOnly)),
		Source:   domain.SourceAnnouncement,
		SourceID: now.Format(time.DateOnly),
		Title:    "Today's date",
		Content: fmt.Sprintf("Today is %s. The current time is %s (%s). The current week started on %s.",
			now.Format("Monday, 2 January 2006"),
			now.Format("15:04"),
			now.Format("MST"),
			weekStart(now).Format("Monday, 2 January")),
		OwnerID:   ownerID,
		IsPrivate: false,
		CreatedAt: now,
	}
}

// weekStart returns the Monday of now's week.
func weekStart(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7
	return now.AddDate(0, 0, -offset)
}
