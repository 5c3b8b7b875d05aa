// Package calendar implements driven.CalendarService over the Google
// Calendar API.
package calendar

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/askwork/internal/connectors/google"
	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.CalendarService = (*Service)(nil)

const (
	// DefaultCalendarID is the signed-in user's main calendar.
	DefaultCalendarID = "primary"

	pageSize = 250
	maxPages = 10
)

// Service lists events from one calendar.
type Service struct {
	calendarID string
	endpoint   string
	limiter    *google.RateLimiter
}

// Option configures a Service.
type Option func(*Service)

// WithCalendarID selects a calendar other than "primary".
func WithCalendarID(id string) Option {
	return func(s *Service) { s.calendarID = id }
}

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) Option {
	return func(s *Service) { s.endpoint = endpoint }
}

// New creates a calendar service.
func New(opts ...Option) *Service {
	s := &Service{
		calendarID: DefaultCalendarID,
		limiter:    google.NewRateLimiter(google.ServiceCalendar),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListEvents returns the events overlapping [from, to], expanded into
// single instances and ordered by start time. Cancelled events are
// dropped.
func (s *Service) ListEvents(
	ctx context.Context,
	token string,
	from, to time.Time,
) ([]domain.CalendarEventRecord, error) {
	svc, err := google.NewCalendarService(ctx, token, s.endpoint)
	if err != nil {
		return nil, err
	}

	var (
		records   []domain.CalendarEventRecord
		pageToken string
	)
	for page := 0; page < maxPages; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := svc.Events.List(s.calendarID).
			TimeMin(from.Format(time.RFC3339)).
			TimeMax(to.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list events: %w", s.limiter.Observe(err))
		}
		for _, event := range events.Items {
			if rec, ok := EventToRecord(event); ok {
				records = append(records, rec)
			}
		}

		pageToken = events.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return records, nil
}

// EventToRecord converts an API event. Events without an ID and
// cancelled events are skipped. Unparseable times are left zero for the
// normaliser to reject.
func EventToRecord(event *calendar.Event) (domain.CalendarEventRecord, bool) {
	if event == nil || event.Id == "" || event.Status == "cancelled" {
		return domain.CalendarEventRecord{}, false
	}

	rec := domain.CalendarEventRecord{
		ID:       event.Id,
		Title:    event.Summary,
		Start:    eventTime(event.Start),
		End:      eventTime(event.End),
		Location: event.Location,
		URL:      event.HtmlLink,
	}
	for _, a := range event.Attendees {
		switch {
		case a.DisplayName != "":
			rec.Attendees = append(rec.Attendees, a.DisplayName)
		case a.Email != "":
			rec.Attendees = append(rec.Attendees, a.Email)
		}
	}
	return rec, true
}

// eventTime reads a timed or all-day boundary.
func eventTime(dt *calendar.EventDateTime) time.Time {
	if dt == nil {
		return time.Time{}
	}
	if dt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, dt.DateTime); err == nil {
			return t
		}
		return time.Time{}
	}
	if dt.Date != "" {
		if t, err := time.ParseInLocation(time.DateOnly, dt.Date, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
