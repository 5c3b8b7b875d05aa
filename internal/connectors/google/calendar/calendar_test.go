package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

func TestEventToRecord(t *testing.T) {
	tests := []struct {
		name   string
		event  *calendar.Event
		wantOK bool
		check  func(t *testing.T, rec domain.CalendarEventRecord)
	}{
		{name: "nil", event: nil},
		{name: "missing id", event: &calendar.Event{Summary: "x"}},
		{name: "cancelled", event: &calendar.Event{Id: "e1", Status: "cancelled"}},
		{
			name: "timed event",
			event: &calendar.Event{
				Id:       "e1",
				Summary:  "Sprint review",
				Location: "Room 4",
				HtmlLink: "https://calendar.example/e1",
				Start:    &calendar.EventDateTime{DateTime: "2026-10-19T10:00:00+02:00"},
				End:      &calendar.EventDateTime{DateTime: "2026-10-19T11:00:00+02:00"},
				Attendees: []*calendar.EventAttendee{
					{DisplayName: "Alice", Email: "alice@acme.com"},
					{Email: "bob@acme.com"},
					{},
				},
			},
			wantOK: true,
			check: func(t *testing.T, rec domain.CalendarEventRecord) {
				assert.Equal(t, "Sprint review", rec.Title)
				assert.Equal(t, time.Hour, rec.End.Sub(rec.Start))
				assert.Equal(t, []string{"Alice", "bob@acme.com"}, rec.Attendees)
				assert.Equal(t, "https://calendar.example/e1", rec.URL)
			},
		},
		{
			name: "all-day event",
			event: &calendar.Event{
				Id:    "e2",
				Start: &calendar.EventDateTime{Date: "2026-10-20"},
				End:   &calendar.EventDateTime{Date: "2026-10-21"},
			},
			wantOK: true,
			check: func(t *testing.T, rec domain.CalendarEventRecord) {
				assert.Equal(t, 20, rec.Start.Day())
				assert.Equal(t, 24*time.Hour, rec.End.Sub(rec.Start))
			},
		},
		{
			name:   "unparseable start left zero",
			event:  &calendar.Event{Id: "e3", Start: &calendar.EventDateTime{DateTime: "soon"}},
			wantOK: true,
			check: func(t *testing.T, rec domain.CalendarEventRecord) {
				assert.True(t, rec.Start.IsZero())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := EventToRecord(tt.event)
			assert.Equal(t, tt.wantOK, ok)
			if tt.check != nil {
				tt.check(t, rec)
			}
		})
	}
}

func TestListEvents_RequiresToken(t *testing.T) {
	_, err := New().ListEvents(context.Background(), " ", time.Now(), time.Now())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestListEvents_PagesAndFilters(t *testing.T) {
	from := time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	var calls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.True(t, strings.HasSuffix(r.URL.Path, "/calendars/team/events"), r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, from.Format(time.RFC3339), r.URL.Query().Get("timeMin"))
		assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))

		resp := calendar.Events{}
		if r.URL.Query().Get("pageToken") == "" {
			resp.Items = []*calendar.Event{
				{Id: "a", Summary: "Standup", Start: &calendar.EventDateTime{DateTime: "2026-10-19T09:00:00Z"}},
				{Id: "b", Status: "cancelled"},
			}
			resp.NextPageToken = "p2"
		} else {
			assert.Equal(t, "p2", r.URL.Query().Get("pageToken"))
			resp.Items = []*calendar.Event{
				{Id: "c", Summary: "Retro", Start: &calendar.EventDateTime{DateTime: "2026-10-20T15:00:00Z"}},
			}
		}
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	svc := New(WithCalendarID("team"), WithEndpoint(server.URL+"/"))
	records, err := svc.ListEvents(context.Background(), "tok", from, to)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, records, 2)
	assert.Equal(t, "Standup", records[0].Title)
	assert.Equal(t, "Retro", records[1].Title)
}

func TestListEvents_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials"}}`))
	}))
	defer server.Close()

	_, err := New(WithEndpoint(server.URL+"/")).ListEvents(context.Background(), "expired", time.Now(), time.Now())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Contains(t, err.Error(), "Invalid Credentials")
}
