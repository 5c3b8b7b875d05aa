// Package google provides shared infrastructure for the Google calendar
// and mail collaborators.
//
// Every request carries the caller's short-lived access token, so
// services are built per call from a static oauth2.TokenSource:
//
//	svc, err := google.NewCalendarService(ctx, token, endpoint)
//
// The package also maps googleapi errors onto domain errors and paces
// requests per API with golang.org/x/time/rate.
//
// # OAuth2 Scopes
//
// The token must carry:
//   - https://www.googleapis.com/auth/gmail.metadata (restricted)
//   - https://www.googleapis.com/auth/calendar.readonly (sensitive)
package google
