package gmail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

func TestMessageToRecord(t *testing.T) {
	msg := &gmail.Message{
		Id:           "m1",
		ThreadId:     "t1",
		Snippet:      "Can you review the deck?",
		InternalDate: time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC).UnixMilli(),
		Payload: &gmail.MessagePart{Headers: []*gmail.MessagePartHeader{
			{Name: "From", Value: "Bob <bob@acme.com>"},
			{Name: "To", Value: "alice@acme.com, Carol <carol@acme.com>"},
			{Name: "CC", Value: ""},
			{Name: "Subject", Value: "Deck review"},
		}},
	}

	rec := MessageToRecord(msg)

	assert.Equal(t, "m1", rec.ID)
	assert.Equal(t, "t1", rec.ThreadID)
	assert.Equal(t, "Bob <bob@acme.com>", rec.From)
	assert.Equal(t, []string{"alice@acme.com", `"Carol" <carol@acme.com>`}, rec.To)
	assert.Nil(t, rec.Cc)
	assert.Equal(t, "Deck review", rec.Subject)
	assert.Equal(t, 2026, rec.Date.UTC().Year())
}

func TestMessageToRecord_DateHeaderFallback(t *testing.T) {
	msg := &gmail.Message{
		Id: "m2",
		Payload: &gmail.MessagePart{Headers: []*gmail.MessagePartHeader{
			{Name: "Date", Value: "Fri, 16 Oct 2026 14:00:00 +0000"},
		}},
	}

	rec := MessageToRecord(msg)

	assert.Equal(t, 16, rec.Date.Day())
}

func TestSplitAddresses_Unparseable(t *testing.T) {
	assert.Equal(t, []string{"team list", "ops"}, splitAddresses("team list, ops"))
	assert.Nil(t, splitAddresses("  "))
}

func TestListMessages_RequiresToken(t *testing.T) {
	_, err := New().ListMessages(context.Background(), "", 10)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestListMessages_ZeroMax(t *testing.T) {
	got, err := New().ListMessages(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListMessages_FetchesMetadataInOrder(t *testing.T) {
	var gets atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		if strings.HasSuffix(r.URL.Path, "/users/me/messages") {
			assert.Equal(t, "INBOX", r.URL.Query().Get("labelIds"))
			assert.Equal(t, "3", r.URL.Query().Get("maxResults"))
			_, _ = w.Write([]byte(`{"messages":[{"id":"m1"},{"id":"m2"},{"id":"m3"}]}`))
			return
		}

		gets.Add(1)
		id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		assert.Equal(t, "metadata", r.URL.Query().Get("format"))
		assert.NoError(t, json.NewEncoder(w).Encode(gmail.Message{
			Id: id,
			Payload: &gmail.MessagePart{Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "subject " + id},
			}},
		}))
	}))
	defer server.Close()

	records, err := New(WithEndpoint(server.URL+"/")).ListMessages(context.Background(), "tok", 3)

	require.NoError(t, err)
	assert.EqualValues(t, 3, gets.Load())
	require.Len(t, records, 3)
	for i, id := range []string{"m1", "m2", "m3"} {
		assert.Equal(t, id, records[i].ID)
		assert.Equal(t, "subject "+id, records[i].Subject)
	}
}

func TestListMessages_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"slow down"}}`))
	}))
	defer server.Close()

	_, err := New(WithEndpoint(server.URL+"/")).ListMessages(context.Background(), "tok", 5)

	assert.ErrorIs(t, err, domain.ErrRateLimited)
}
