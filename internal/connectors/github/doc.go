// Package github implements driven.IssueTracker over the GitHub REST API
// using go-github.
//
// The tracker reads open issues (never pull requests) from a configured
// list of "owner/name" repositories. Priority is taken from labels such
// as "P1", "priority: high" or "urgent", and the due date from the
// issue's milestone.
//
// Requests are paced proactively with a token bucket and reactively
// from the X-RateLimit-* response headers. Failed requests are never
// retried.
package github
