// Package delivery formats the nightly digest and publishes it to chat and email.
package delivery

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_publisher.go -package=mocks docdigest/internal/delivery Publisher

import (
	"context"
	"time"

	"docdigest/internal/activity"
	"docdigest/internal/digest"
)

// DefaultSubject is the email subject used when none is configured.
const DefaultSubject = "🌙 Nightly Review"

// Digest is everything a nightly run reports.
type Digest struct {
	Documents []digest.DocumentReport
	Activity  activity.Digest
	Date      time.Time
}

// Results returns the section summaries of every document in order.
func (d Digest) Results() []digest.SummaryResult {
	var out []digest.SummaryResult
	for _, doc := range d.Documents {
		out = append(out, doc.Results...)
	}
	return out
}

// Publisher delivers a digest to one destination.
type Publisher interface {
	// Name identifies the destination in logs.
	Name() string
	// Publish delivers d.
	Publish(ctx context.Context, d Digest) error
}
