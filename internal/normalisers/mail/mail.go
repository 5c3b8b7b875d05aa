// Package mail normalises classified mailbox messages.
package mail

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

// Normalise converts a classified message into a Document private to
// ownerID. The triage verdict is rendered into the content so that
// retrieval and the model can see it.
func Normalise(msg domain.ClassifiedMessage, ownerID string) (domain.Document, error) {
	if strings.TrimSpace(msg.ID) == "" {
		return domain.Document{}, &domain.NormalizationError{
			Source: domain.SyncSourceMail, RecordID: msg.ThreadID, Reason: "missing id",
		}
	}
	if strings.TrimSpace(msg.From) == "" {
		return domain.Document{}, &domain.NormalizationError{
			Source: domain.SyncSourceMail, RecordID: msg.ID, Reason: "missing sender",
		}
	}

	subject := strings.TrimSpace(msg.Subject)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Email from %s\n", msg.From)
	if len(msg.To) > 0 {
		fmt.Fprintf(&sb, "To: %s\n", strings.Join(msg.To, ", "))
	}
	if len(msg.Cc) > 0 {
		fmt.Fprintf(&sb, "Cc: %s\n", strings.Join(msg.Cc, ", "))
	}
	if subject != "" {
		fmt.Fprintf(&sb, "Subject: %s\n", subject)
	}
	if !msg.Date.IsZero() {
		fmt.Fprintf(&sb, "Received: %s\n", msg.Date.Format("Mon 2 Jan 2006 15:04"))
	}
	if msg.Priority != "" {
		fmt.Fprintf(&sb, "Priority: %s (%s)\n", msg.Priority, msg.Category)
	}
	if snippet := strings.TrimSpace(msg.Snippet); snippet != "" {
		sb.WriteString("\n")
		sb.WriteString(snippet)
	}

	return domain.Document{
		ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte(domain.DocumentURI(domain.SyncSourceMail, msg.ID))).String(),
		Source:    domain.SourceMail,
		SourceID:  msg.ID,
		Title:     subject,
		Content:   strings.TrimSpace(sb.String()),
		OwnerID:   ownerID,
		IsPrivate: true,
		CreatedAt: msg.Date,
	}, nil
}
