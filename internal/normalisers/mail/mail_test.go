package mail

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

func TestNormalise_Message(t *testing.T) {
	date := time.Date(2026, 3, 2, 8, 15, 0, 0, time.UTC)
	msg := domain.ClassifiedMessage{
		InboundMessage: domain.InboundMessage{
			ID:       "m1",
			Subject:  "Contract renewal",
			From:     "Pat <pat@globex.com>",
			To:       []string{"alice@acme.com"},
			Cc:       []string{"sam@acme.com"},
			Snippet:  "Can we talk on Tuesday?",
			Date:     date,
			ThreadID: "t1",
		},
		Priority:       domain.PriorityCritical,
		Category:       "Customer",
		PriorityReason: "From or about a customer",
	}

	doc, err := Normalise(msg, "alice")
	require.NoError(t, err)

	assert.Equal(t, domain.SourceMail, doc.Source)
	assert.Equal(t, "m1", doc.SourceID)
	assert.Equal(t, "Contract renewal", doc.Title)
	assert.True(t, doc.IsPrivate)
	assert.Equal(t, "alice", doc.OwnerID)
	assert.Equal(t, date, doc.CreatedAt)
	assert.Contains(t, doc.Content, "Email from Pat <pat@globex.com>")
	assert.Contains(t, doc.Content, "Cc: sam@acme.com")
	assert.Contains(t, doc.Content, "Priority: critical (Customer)")
	assert.Contains(t, doc.Content, "Can we talk on Tuesday?")
}

func TestNormalise_Unclassified(t *testing.T) {
	doc, err := Normalise(domain.ClassifiedMessage{
		InboundMessage: domain.InboundMessage{ID: "m2", From: "x@y.io"},
	}, "alice")
	require.NoError(t, err)

	assert.Empty(t, doc.Title)
	assert.NotContains(t, doc.Content, "Priority:")
	assert.NotContains(t, doc.Content, "Subject:")
}

func TestNormalise_Rejects(t *testing.T) {
	for _, msg := range []domain.InboundMessage{
		{From: "x@y.io"},
		{ID: "m3"},
	} {
		_, err := Normalise(domain.ClassifiedMessage{InboundMessage: msg}, "alice")

		var nerr *domain.NormalizationError
		require.True(t, errors.As(err, &nerr))
		assert.Equal(t, domain.SyncSourceMail, nerr.Source)
	}
}
