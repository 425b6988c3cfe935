// Package gworkspace adapts Google Docs, Sheets and Gmail to the digest pipeline.
package gworkspace

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"docdigest/internal/apperrors"
)

// Scopes requested for every service created by this package.
var Scopes = []string{
	docs.DocumentsReadonlyScope,
	sheets.SpreadsheetsScope,
	gmail.GmailSendScope,
}

// TokenSource returns a token source for the given scopes.
// With a credentials file, service account keys honor subject for domain-wide
// delegation. Without one, application default credentials are used.
func TokenSource(ctx context.Context, credentialsFile, subject string, scopes ...string) (oauth2.TokenSource, error) {
	if credentialsFile == "" {
		ts, err := google.DefaultTokenSource(ctx, scopes...)
		if err != nil {
			return nil, fmt.Errorf("%w: no google credentials: %w", apperrors.ErrConfig, err)
		}
		return ts, nil
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: read credentials file: %w", apperrors.ErrConfig, err)
	}

	creds, err := google.CredentialsFromJSONWithParams(ctx, data, google.CredentialsParams{
		Scopes:  scopes,
		Subject: subject,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: parse credentials file: %w", apperrors.ErrConfig, err)
	}
	return creds.TokenSource, nil
}

// NewDocsService creates a Google Docs API service using the provided TokenSource.
func NewDocsService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*docs.Service, error) {
	return docs.NewService(ctx, append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)...)
}

// NewSheetsService creates a Google Sheets API service using the provided TokenSource.
func NewSheetsService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*sheets.Service, error) {
	return sheets.NewService(ctx, append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)...)
}

// NewGmailService creates a Gmail API service using the provided TokenSource.
func NewGmailService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*gmail.Service, error) {
	return gmail.NewService(ctx, append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)...)
}
