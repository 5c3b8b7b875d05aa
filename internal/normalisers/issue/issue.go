// Package issue normalises issue-tracker records.
package issue

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

// Normalise converts an issue record into a team-visible Document.
// ID and title are required.
func Normalise(rec domain.IssueRecord, ownerID string) (domain.Document, error) {
	if strings.TrimSpace(rec.ID) == "" {
		return domain.Document{}, &domain.NormalizationError{
			Source: domain.SyncSourceIssues, RecordID: rec.Identifier, Reason: "missing id",
		}
	}
	if strings.TrimSpace(rec.Title) == "" {
		return domain.Document{}, &domain.NormalizationError{
			Source: domain.SyncSourceIssues, RecordID: rec.ID, Reason: "missing title",
		}
	}

	title := rec.Title
	if rec.Identifier != "" {
		title = rec.Identifier + ": " + rec.Title
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Issue %s\n", title)
	if rec.State != "" {
		fmt.Fprintf(&sb, "State: %s\n", rec.State)
	}
	if rec.Priority != "" {
		fmt.Fprintf(&sb, "Priority: %s\n", rec.Priority)
	}
	if rec.Assignee != "" {
		fmt.Fprintf(&sb, "Assignee: %s\n", rec.Assignee)
	} else {
		sb.WriteString("Assignee: unassigned\n")
	}
	if rec.DueDate != nil && !rec.DueDate.IsZero() {
		fmt.Fprintf(&sb, "Due: %s\n", rec.DueDate.Format("Mon 2 Jan 2006"))
	}
	if desc := strings.TrimSpace(rec.Description); desc != "" {
		sb.WriteString("\n")
		sb.WriteString(desc)
	}

	return domain.Document{
		ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte(domain.DocumentURI(domain.SyncSourceIssues, rec.ID))).String(),
		Source:    domain.SourceIssue,
		SourceID:  rec.ID,
		Title:     title,
		Content:   strings.TrimSpace(sb.String()),
		OwnerID:   ownerID,
		IsPrivate: false,
		URL:       rec.URL,
		CreatedAt: rec.UpdatedAt,
	}, nil
}
