package knowledge

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askwork/internal/core/domain"
)

func TestNormaliseMember(t *testing.T) {
	doc, err := NormaliseMember(domain.TeamMember{
		ID:         "u-jane",
		Name:       "Jane Doe",
		Email:      "jane@acme.com",
		Role:       "Engineering Manager",
		Department: "Engineering",
		Leadership: true,
	}, "alice")
	require.NoError(t, err)

	assert.Equal(t, domain.SourceSharedDocument, doc.Source)
	assert.Equal(t, "Team directory: Jane Doe", doc.Title)
	assert.Equal(t, "Engineering", doc.Department)
	assert.False(t, doc.IsPrivate)
	assert.Equal(t, "alice", doc.OwnerID)
	assert.Contains(t, doc.Content, "Jane Doe is Engineering Manager in Engineering.")
	assert.Contains(t, doc.Content, "Email: jane@acme.com")
	assert.Contains(t, doc.Content, "leadership team")
}

func TestNormaliseMember_EmailAsKey(t *testing.T) {
	doc, err := NormaliseMember(domain.TeamMember{Name: "Sam", Email: "Sam@acme.com", Department: "Sales"}, "alice")
	require.NoError(t, err)

	assert.Equal(t, "sam@acme.com", doc.SourceID)
	assert.Contains(t, doc.Content, "Sam works in Sales.")
}

func TestNormaliseMember_Rejects(t *testing.T) {
	for _, m := range []domain.TeamMember{{Name: "Nobody"}, {ID: "u1"}} {
		_, err := NormaliseMember(m, "alice")

		var nerr *domain.NormalizationError
		require.True(t, errors.As(err, &nerr))
		assert.Equal(t, domain.SyncSourceTeamDirectory, nerr.Source)
	}
}

func TestNormaliseEntry(t *testing.T) {
	updated := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	doc, err := NormaliseEntry(domain.KnowledgeEntry{
		Title:     "Expense policy",
		Content:   "  Submit receipts within 30 days.  ",
		UpdatedAt: updated,
	}, "alice")
	require.NoError(t, err)

	assert.Equal(t, domain.SourceAnnouncement, doc.Source)
	assert.Equal(t, "expense policy", doc.SourceID)
	assert.Equal(t, "Submit receipts within 30 days.", doc.Content)
	assert.Equal(t, updated, doc.CreatedAt)
	assert.False(t, doc.IsPrivate)
}

func TestNormaliseEntry_Rejects(t *testing.T) {
	_, err := NormaliseEntry(domain.KnowledgeEntry{ID: "k1", Title: "Empty"}, "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NormaliseEntry(domain.KnowledgeEntry{Content: "orphan"}, "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDateContext(t *testing.T) {
	now := time.Date(2026, 3, 4, 14, 5, 0, 0, time.UTC)

	doc := DateContext(now, "alice")

	assert.Equal(t, domain.SourceAnnouncement, doc.Source)
	assert.Equal(t, "alice", doc.OwnerID)
	assert.Equal(t, now, doc.CreatedAt)
	assert.Contains(t, doc.Content, "Today is Wednesday, 4 March 2026.")
	assert.Contains(t, doc.Content, "14:05")
	assert.Contains(t, doc.Content, "started on Monday, 2 March")
	assert.Equal(t, doc.ID, DateContext(now.Add(time.Hour), "bob").ID)
}
