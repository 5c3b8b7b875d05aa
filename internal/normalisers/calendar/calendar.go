// Package calendar normalises calendar events.
package calendar

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

const timeLayout = "Mon 2 Jan 2006 15:04"

// Normalise converts a calendar event into a Document private to
// ownerID. ID and start time are required; an end before the start is
// rejected.
func Normalise(rec domain.CalendarEventRecord, ownerID string) (domain.Document, error) {
	if strings.TrimSpace(rec.ID) == "" {
		return domain.Document{}, &domain.NormalizationError{
			Source: domain.SyncSourceCalendar, Reason: "missing id",
		}
	}
	if rec.Start.IsZero() {
		return domain.Document{}, &domain.NormalizationError{
			Source: domain.SyncSourceCalendar, RecordID: rec.ID, Reason: "missing start time",
		}
	}
	if !rec.End.IsZero() && rec.End.Before(rec.Start) {
		return domain.Document{}, &domain.NormalizationError{
			Source: domain.SyncSourceCalendar, RecordID: rec.ID, Reason: "end before start",
		}
	}

	title := strings.TrimSpace(rec.Title)

	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "Meeting: %s\n", title)
	} else {
		sb.WriteString("Meeting without a title\n")
	}
	fmt.Fprintf(&sb, "When: %s", rec.Start.Format(timeLayout))
	if !rec.End.IsZero() {
		fmt.Fprintf(&sb, " to %s", rec.End.Format(endLayout(rec)))
	}
	sb.WriteString("\n")
	if rec.Location != "" {
		fmt.Fprintf(&sb, "Where: %s\n", rec.Location)
	}
	if len(rec.Attendees) > 0 {
		fmt.Fprintf(&sb, "Attendees: %s\n", strings.Join(rec.Attendees, ", "))
	}

	return domain.Document{
		ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte(domain.DocumentURI(domain.SyncSourceCalendar, rec.ID))).String(),
		Source:    domain.SourceCalendarEvent,
		SourceID:  rec.ID,
		Title:     title,
		Content:   strings.TrimSpace(sb.String()),
		OwnerID:   ownerID,
		IsPrivate: true,
		URL:       rec.URL,
		CreatedAt: rec.Start,
	}, nil
}

// endLayout drops the date when the event ends on the day it starts.
func endLayout(rec domain.CalendarEventRecord) string {
	sy, sm, sd := rec.Start.Date()
	ey, em, ed := rec.End.Date()
	if sy == ey && sm == em && sd == ed {
		return "15:04"
	}
	return timeLayout
}
