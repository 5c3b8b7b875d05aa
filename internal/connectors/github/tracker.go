package github

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.IssueTracker = (*IssueTracker)(nil)

// Priority labels recognised on issues, ordered from most to least urgent.
const (
	PriorityUrgent = "Urgent"
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

var priorityLabel = regexp.MustCompile(`^(?:priority[:/ -]*)?p([0-3])$`)

// Repository identifies a GitHub repository.
type Repository struct {
	Owner string
	Name  string
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepository parses "owner/name".
func ParseRepository(s string) (Repository, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("%w: %q", ErrInvalidRepository, s)
	}
	return Repository{Owner: owner, Name: name}, nil
}

// IssueTracker lists open issues across a fixed set of repositories.
type IssueTracker struct {
	client *Client
	repos  []Repository
}

// NewIssueTracker creates a tracker over repos given as "owner/name".
func NewIssueTracker(client *Client, repos []string) (*IssueTracker, error) {
	parsed := make([]Repository, 0, len(repos))
	for _, r := range repos {
		repo, err := ParseRepository(r)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, repo)
	}
	return &IssueTracker{client: client, repos: parsed}, nil
}

// ListIssues returns open issues from every repository. The first
// failing repository aborts the listing.
func (t *IssueTracker) ListIssues(ctx context.Context) ([]domain.IssueRecord, error) {
	var records []domain.IssueRecord
	for _, repo := range t.repos {
		issues, err := t.client.ListOpenIssues(ctx, repo.Owner, repo.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", repo, err)
		}
		for _, issue := range issues {
			if issue == nil || issue.IsPullRequest() {
				continue
			}
			records = append(records, IssueToRecord(repo, issue))
		}
	}
	return records, nil
}

// IssueToRecord maps a GitHub issue to an issue record.
func IssueToRecord(repo Repository, issue *gh.Issue) domain.IssueRecord {
	number := issue.GetNumber()
	record := domain.IssueRecord{
		ID:          fmt.Sprintf("%s#%d", repo, number),
		Identifier:  fmt.Sprintf("%s#%d", repo.Name, number),
		Title:       issue.GetTitle(),
		Description: issue.GetBody(),
		State:       issue.GetState(),
		Priority:    priorityOf(issue.Labels),
		URL:         issue.GetHTMLURL(),
		UpdatedAt:   issue.GetUpdatedAt().Time,
	}

	if assignee := issue.GetAssignee(); assignee != nil {
		record.Assignee = assignee.GetLogin()
	} else if len(issue.Assignees) > 0 {
		record.Assignee = issue.Assignees[0].GetLogin()
	}

	if due := issue.GetMilestone().GetDueOn(); !due.IsZero() {
		t := due.Time
		record.DueDate = &t
	}

	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = issue.GetCreatedAt().Time
	}

	return record
}

// priorityOf returns the most urgent priority named by any label.
func priorityOf(labels []*gh.Label) string {
	best := ""
	rank := len(priorityOrder)
	for _, label := range labels {
		p := labelPriority(label.GetName())
		if p == "" {
			continue
		}
		if r := priorityRank(p); r < rank {
			best, rank = p, r
		}
	}
	return best
}

var priorityOrder = []string{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

func priorityRank(p string) int {
	for i, v := range priorityOrder {
		if v == p {
			return i
		}
	}
	return len(priorityOrder)
}

func labelPriority(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if m := priorityLabel.FindStringSubmatch(name); m != nil {
		return priorityOrder[m[1][0]-'0']
	}

	name = strings.TrimPrefix(name, "priority")
	name = strings.TrimLeft(name, ":/ -")
	switch name {
	case "urgent", "critical", "blocker":
		return PriorityUrgent
	case "high":
		return PriorityHigh
	case "medium", "normal":
		return PriorityMedium
	case "low":
		return PriorityLow
	default:
		return ""
	}
}
