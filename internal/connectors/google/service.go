package google

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// clientOptions builds the option set for one request. endpoint
// overrides the API base URL and is empty in production.
func clientOptions(accessToken, endpoint string) ([]option.ClientOption, error) {
	ts, err := NewTokenSource(accessToken)
	if err != nil {
		return nil, err
	}
	opts := []option.ClientOption{option.WithTokenSource(ts)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return opts, nil
}

// NewGmailService creates a Gmail API service for one access token.
func NewGmailService(ctx context.Context, accessToken, endpoint string) (*gmail.Service, error) {
	opts, err := clientOptions(accessToken, endpoint)
	if err != nil {
		return nil, err
	}
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return svc, nil
}

// NewCalendarService creates a Google Calendar API service for one access token.
func NewCalendarService(ctx context.Context, accessToken, endpoint string) (*calendar.Service, error) {
	opts, err := clientOptions(accessToken, endpoint)
	if err != nil {
		return nil, err
	}
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return svc, nil
}
