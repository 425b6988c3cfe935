package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"docdigest/internal/apperrors"
	"docdigest/internal/contextutil"
	"docdigest/internal/document"
	"docdigest/internal/llm"
	"docdigest/internal/vectorstore"
)

// Options tunes the change filter and context retrieval.
type Options struct {
	// SimilarityThreshold is the cosine similarity below which a re-embedded section counts as changed.
	SimilarityThreshold float64
	// ContextTopK is how many neighbors to request for prompt context.
	ContextTopK int
	// ContextMinScore is the exclusive lower bound on neighbor scores.
	ContextMinScore float32
	// Temperature is passed to the completion provider.
	Temperature float32
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		SimilarityThreshold: DefaultSimilarityThreshold,
		ContextTopK:         5,
		ContextMinScore:     0.7,
		Temperature:         DefaultTemperature,
	}
}

// Summarizer produces summaries for the sections of a document that changed
// meaningfully since the previous pass.
type Summarizer struct {
	source    document.Source
	hashes    HashStore
	index     vectorstore.VectorIndex
	embedder  Embedder
	completer Completer
	opts      Options
	now       func() time.Time
}

// NewSummarizer creates a Summarizer.
func NewSummarizer(
	source document.Source,
	hashes HashStore,
	index vectorstore.VectorIndex,
	embedder Embedder,
	completer Completer,
	opts Options,
) *Summarizer {
	return &Summarizer{
		source:    source,
		hashes:    hashes,
		index:     index,
		embedder:  embedder,
		completer: completer,
		opts:      opts,
		now:       time.Now,
	}
}

// SummarizeDocument runs one change-detection pass over docID.
// The returned report is never nil. A document that cannot be opened yields an
// empty report and an error wrapping apperrors.ErrRetrieval; persisted state is
// left untouched in that case. A failure to save hashes is returned together
// with the complete report.
func (s *Summarizer) SummarizeDocument(ctx context.Context, docID string) (*DocumentReport, error) {
	logger := contextutil.LoggerFromContext(ctx).With("doc_id", docID)
	ctx = contextutil.WithLogger(ctx, logger)

	report := &DocumentReport{DocumentID: docID, Results: []SummaryResult{}}

	doc, err := s.source.Open(ctx, docID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to open document", "error", err)
		return report, fmt.Errorf("failed to open document %s: %w: %w", docID, apperrors.ErrRetrieval, err)
	}
	report.Title = doc.Title

	chunks := ExtractChunks(ctx, doc.Blocks)
	report.Stats.Chunks = len(chunks)
	report.Stats.ChunkTokenStats = chunkTokenStats(chunks)
	logger.InfoContext(ctx, "extracted chunks", "count", len(chunks))

	prior, err := s.hashes.LoadHashes(ctx, docID)
	if err != nil {
		logger.WarnContext(ctx, "failed to load prior hashes, treating all sections as new", "error", err)
		prior = nil
	}

	current := make(map[string]string, len(chunks))
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("summarization of %s interrupted: %w", docID, err)
		}

		rec, result, outcome := s.processChunk(ctx, docID, chunk, prior)
		current[rec.title] = rec.currentHash
		report.Stats.record(outcome)
		if result != nil {
			report.Results = append(report.Results, *result)
		}
		logger.DebugContext(ctx, "chunk processed", "title", rec.title, "outcome", outcome.String())
	}

	if err := s.hashes.SaveHashes(ctx, docID, current); err != nil {
		logger.ErrorContext(ctx, "failed to save hashes", "error", err)
		return report, fmt.Errorf("failed to save hashes for %s: %w", docID, err)
	}

	logger.InfoContext(ctx, "document summarized",
		"chunks", report.Stats.Chunks,
		"unchanged", report.Stats.Unchanged,
		"filtered", report.Stats.Filtered,
		"skipped", report.Stats.Skipped,
		"summarized", report.Stats.Summarized,
		"placeholders", report.Stats.Placeholders,
	)
	return report, nil
}

func (s *Summarizer) processChunk(ctx context.Context, docID string, chunk Chunk, prior map[string]string) (changeRecord, *SummaryResult, Outcome) {
	logger := contextutil.LoggerFromContext(ctx).With("title", chunk.Title)

	rec := changeRecord{
		title:       chunk.Title,
		currentHash: HashContent(chunk.Content),
	}
	rec.priorHash, rec.hasPrior = prior[chunk.Title]

	if rec.hasPrior && rec.priorHash == rec.currentHash {
		return rec, nil, OutcomeUnchanged
	}

	vec, err := s.embedder.EmbedText(ctx, chunk.Content)
	if err != nil {
		if rec.hasPrior {
			logger.WarnContext(ctx, "skipping changed section, embedding failed", "error", err)
		} else {
			logger.WarnContext(ctx, "skipping new section, embedding failed", "error", err)
		}
		return rec, nil, OutcomeSkipped
	}
	rec.embedding = vec

	if rec.hasPrior {
		old, err := s.index.Fetch(ctx, docID, rec.priorHash)
		switch {
		case err == nil && !EmbeddingsDiffer(vec, old, s.opts.SimilarityThreshold):
			logger.DebugContext(ctx, "change below similarity threshold")
			return rec, nil, OutcomeFiltered
		case err != nil && !errors.Is(err, vectorstore.ErrNotFound):
			logger.WarnContext(ctx, "failed to fetch prior embedding", "prior_hash", rec.priorHash, "error", err)
		case err != nil:
			logger.DebugContext(ctx, "no prior embedding stored", "prior_hash", rec.priorHash)
		}
	}

	s.upsert(ctx, logger, docID, rec)

	result, outcome := s.summarize(ctx, docID, rec, chunk.Content)
	return rec, result, outcome
}

func (s *Summarizer) upsert(ctx context.Context, logger *slog.Logger, docID string, rec changeRecord) {
	point := vectorstore.Point{
		ID:  rec.currentHash,
		Vec: rec.embedding,
		Meta: map[string]any{
			"doc_id":    docID,
			"title":     rec.title,
			"hash":      rec.currentHash,
			"timestamp": s.now().UTC().Format(time.RFC3339),
		},
	}
	if err := s.index.Upsert(ctx, docID, []vectorstore.Point{point}); err != nil {
		logger.WarnContext(ctx, "failed to store embedding", "error", err)
	}
}

func (s *Summarizer) summarize(ctx context.Context, docID string, rec changeRecord, content string) (*SummaryResult, Outcome) {
	logger := contextutil.LoggerFromContext(ctx).With("title", rec.title)

	related := s.relatedContext(ctx, logger, docID, rec)

	reply, err := s.completer.Complete(ctx, BuildPrompt(content, related), llm.CompletionOptions{
		SystemMessage: SystemMessage,
		Temperature:   s.opts.Temperature,
	})
	if err != nil || strings.TrimSpace(reply) == "" {
		if err == nil {
			err = fmt.Errorf("%w: empty completion", apperrors.ErrParse)
		}
		logger.WarnContext(ctx, "summary unavailable, using placeholder", "error", err)
		return &SummaryResult{Title: rec.title, Summary: ErrorSummary, Actions: ErrorActions}, OutcomePlaceholder
	}

	parsed := ParseResponse(reply)
	return &SummaryResult{Title: rec.title, Summary: parsed.Summary, Actions: parsed.Actions}, OutcomeSummarized
}

// relatedContext returns the titles of nearby sections, excluding the section's own vector.
func (s *Summarizer) relatedContext(ctx context.Context, logger *slog.Logger, docID string, rec changeRecord) string {
	matches, err := s.index.Query(ctx, docID, rec.embedding, s.opts.ContextTopK, s.opts.ContextMinScore)
	if err != nil {
		logger.WarnContext(ctx, "context query failed", "error", err)
		return ""
	}

	seen := make(map[string]bool)
	var titles []string
	for _, m := range matches {
		if m.PointID == rec.currentHash || m.Score <= s.opts.ContextMinScore {
			continue
		}
		title, _ := m.Meta["title"].(string)
		if title == "" {
			title = UnknownTitle
		}
		if seen[title] {
			continue
		}
		seen[title] = true
		titles = append(titles, title)
	}
	return FormatContext(titles)
}
