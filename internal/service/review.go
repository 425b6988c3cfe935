package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_summarizer.go -package=mocks docdigest/internal/service DocumentSummarizer
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_activity_source.go -package=mocks docdigest/internal/service ActivitySource
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_activity_summarizer.go -package=mocks docdigest/internal/service ActivitySummarizer
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_review_service.go -package=mocks -mock_names=ReviewService=MockReviewService docdigest/internal/service ReviewService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"docdigest/internal/activity"
	"docdigest/internal/apperrors"
	"docdigest/internal/contextutil"
	"docdigest/internal/delivery"
	"docdigest/internal/digest"
	"docdigest/internal/slack"
	"docdigest/internal/storage"
)

// ErrRunInProgress is returned when a review is requested while another one is running.
var ErrRunInProgress = errors.New("review already in progress")

// DocumentSummarizer summarizes the changed sections of one document.
type DocumentSummarizer interface {
	SummarizeDocument(ctx context.Context, docID string) (*digest.DocumentReport, error)
}

// ActivitySource fetches recent chat messages.
type ActivitySource interface {
	FetchRecentMessages(ctx context.Context, since time.Time) ([]slack.Message, error)
}

// ActivitySummarizer condenses chat messages into a digest.
type ActivitySummarizer interface {
	Summarize(ctx context.Context, msgs []slack.Message) activity.Digest
}

// Report is the outcome of one review run.
type Report struct {
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt time.Time               `json:"finished_at"`
	Documents  []digest.DocumentReport `json:"documents"`
	Activity   activity.Digest         `json:"activity"`
	Errors     []string                `json:"errors,omitempty"`
}

// Summaries counts section summaries across all documents.
func (r *Report) Summaries() int {
	n := 0
	for _, d := range r.Documents {
		n += len(d.Results)
	}
	return n
}

// ReviewService runs the nightly review.
type ReviewService interface {
	// Run summarizes every configured document and recent chat activity, then
	// publishes the digest. The report is returned even when delivery fails.
	Run(ctx context.Context) (*Report, error)
	// RecentRuns returns up to limit past runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]storage.RunRecord, error)
}

// ReviewOptions configures a ReviewService.
type ReviewOptions struct {
	DocIDs         []string
	ActivityWindow time.Duration
}

// reviewService implements ReviewService.
type reviewService struct {
	documents  DocumentSummarizer
	source     ActivitySource
	chat       ActivitySummarizer
	publishers []delivery.Publisher
	runs       storage.RunStore
	opts       ReviewOptions

	mu  sync.Mutex
	now func() time.Time
}

// NewReviewService creates a new ReviewService. source and runs may be nil.
func NewReviewService(
	documents DocumentSummarizer,
	source ActivitySource,
	chat ActivitySummarizer,
	publishers []delivery.Publisher,
	runs storage.RunStore,
	opts ReviewOptions,
) ReviewService {
	if opts.ActivityWindow <= 0 {
		opts.ActivityWindow = 24 * time.Hour
	}
	return &reviewService{
		documents:  documents,
		source:     source,
		chat:       chat,
		publishers: publishers,
		runs:       runs,
		opts:       opts,
		now:        time.Now,
	}
}

// Run implements ReviewService.
func (s *reviewService) Run(ctx context.Context) (*Report, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	logger := contextutil.LoggerFromContext(ctx)
	report := &Report{StartedAt: s.now(), Documents: []digest.DocumentReport{}}
	succeeded := 0

	for _, docID := range s.opts.DocIDs {
		if err := ctx.Err(); err != nil {
			report.Errors = append(report.Errors, err.Error())
			break
		}

		docReport, err := s.documents.SummarizeDocument(ctx, docID)
		if err != nil {
			logger.ErrorContext(ctx, "document review failed", "doc_id", docID, "error", err)
			report.Errors = append(report.Errors, err.Error())
			if docReport != nil && len(docReport.Results) > 0 {
				report.Documents = append(report.Documents, *docReport)
			}
			continue
		}
		succeeded++
		report.Documents = append(report.Documents, *docReport)
	}

	report.Activity = s.activity(ctx, report)

	d := delivery.Digest{Documents: report.Documents, Activity: report.Activity, Date: report.StartedAt}
	var deliveryErrs []error
	for _, p := range s.publishers {
		if err := p.Publish(ctx, d); err != nil {
			logger.ErrorContext(ctx, "failed to publish digest", "publisher", p.Name(), "error", err)
			report.Errors = append(report.Errors, err.Error())
			deliveryErrs = append(deliveryErrs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		logger.InfoContext(ctx, "digest published", "publisher", p.Name())
	}

	report.FinishedAt = s.now()
	s.record(ctx, report, succeeded)

	logger.InfoContext(ctx, "review finished",
		"documents", succeeded,
		"summaries", report.Summaries(),
		"errors", len(report.Errors),
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)
	return report, errors.Join(deliveryErrs...)
}

func (s *reviewService) activity(ctx context.Context, report *Report) activity.Digest {
	logger := contextutil.LoggerFromContext(ctx)
	if s.source == nil {
		return activity.Digest{Summary: activity.NotConfigured}
	}

	msgs, err := s.source.FetchRecentMessages(ctx, report.StartedAt.Add(-s.opts.ActivityWindow))
	if err != nil {
		if errors.Is(err, apperrors.ErrConfig) {
			logger.InfoContext(ctx, "chat activity skipped", "reason", err)
			return activity.Digest{Summary: activity.NotConfigured}
		}
		logger.ErrorContext(ctx, "failed to fetch chat activity", "error", err)
		report.Errors = append(report.Errors, err.Error())
		return activity.Digest{Summary: activity.FetchError}
	}
	return s.chat.Summarize(ctx, msgs)
}

func (s *reviewService) record(ctx context.Context, report *Report, succeeded int) {
	if s.runs == nil {
		return
	}
	run := &storage.RunRecord{
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Documents:  succeeded,
		Summaries:  report.Summaries(),
		Errors:     strings.Join(report.Errors, "; "),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record review run", "error", err)
	}
}

// RecentRuns implements ReviewService.
func (s *reviewService) RecentRuns(ctx context.Context, limit int) ([]storage.RunRecord, error) {
	if limit <= 0 {
		return nil, &apperrors.ValidationError{Field: "limit", Message: "must be greater than 0"}
	}
	if s.runs == nil {
		return []storage.RunRecord{}, nil
	}
	runs, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to list review runs")
	}
	return runs, nil
}
