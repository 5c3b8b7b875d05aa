package domain

import "time"

// SyncSource names one of the sources the sync orchestrator pulls from.
type SyncSource string

// Sync sources in the order they are indexed.
const (
	SyncSourceIssues           SyncSource = "issues"
	SyncSourceCalendar         SyncSource = "calendar"
	SyncSourceMail             SyncSource = "mail"
	SyncSourceTeamDirectory    SyncSource = "team_directory"
	SyncSourceCompanyKnowledge SyncSource = "company_knowledge"
	SyncSourceDateContext      SyncSource = "date_context"
)

// SyncResultTTL is how long a requester's sync result is reused.
const SyncResultTTL = 2 * time.Minute

// SourceCount is the number of documents indexed from one source.
type SourceCount struct {
	Source SyncSource
	Count  int
}

// SyncResult reports one orchestrator run.
type SyncResult struct {
	// Synced holds per-source counts in indexing order.
	Synced []SourceCount

	// Errors holds one line per failed source or rejected record.
	Errors []string

	// CompletedAt is when the run finished.
	CompletedAt time.Time
}

// Total returns the number of documents indexed across all sources.
func (r *SyncResult) Total() int {
	total := 0
	for _, c := range r.Synced {
		total += c.Count
	}
	return total
}

// CountFor returns the count for a source, or 0 when it was not synced.
func (r *SyncResult) CountFor(source SyncSource) int {
	for _, c := range r.Synced {
		if c.Source == source {
			return c.Count
		}
	}
	return 0
}

// DocumentURI is the stable key of a record from a sync source. Document
// IDs are derived from it so re-syncing yields the same IDs.
func DocumentURI(source SyncSource, externalID string) string {
	return "askwork://" + string(source) + "/" + externalID
}
