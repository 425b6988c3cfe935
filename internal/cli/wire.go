package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"docdigest/internal/activity"
	"docdigest/internal/config"
	"docdigest/internal/delivery"
	"docdigest/internal/digest"
	"docdigest/internal/document"
	"docdigest/internal/gworkspace"
	"docdigest/internal/handlers"
	"docdigest/internal/llm"
	"docdigest/internal/service"
	"docdigest/internal/slack"
	"docdigest/internal/storage"
	"docdigest/internal/vectorstore"
)

// providers is the embedding and completion backend pair.
type providers struct {
	embedder  digest.Embedder
	completer digest.Completer
}

// wiring builds components from configuration, sharing the expensive ones
// (database, Google credentials) between them.
type wiring struct {
	cfg     *config.Config
	db      *sql.DB
	ts      oauth2.TokenSource
	closers []func() error
}

func newWiring(cfg *config.Config) *wiring {
	return &wiring{cfg: cfg}
}

// Close releases everything opened by the wiring.
func (w *wiring) Close() error {
	var errs []error
	for i := len(w.closers) - 1; i >= 0; i-- {
		errs = append(errs, w.closers[i]())
	}
	return errors.Join(errs...)
}

func (w *wiring) database() (*sql.DB, error) {
	if w.db != nil {
		return w.db, nil
	}
	db, err := storage.New(w.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database initialized", "path", w.cfg.DBPath)
	w.db = db
	w.closers = append(w.closers, db.Close)
	return db, nil
}

func (w *wiring) tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if w.ts != nil {
		return w.ts, nil
	}
	ts, err := gworkspace.TokenSource(ctx, w.cfg.GoogleCredentialsFile, w.cfg.GoogleImpersonateSubject, gworkspace.Scopes...)
	if err != nil {
		return nil, err
	}
	w.ts = ts
	return ts, nil
}

func (w *wiring) documentSource(ctx context.Context) (document.Source, error) {
	if w.cfg.DocumentSource == config.SourceMarkdown {
		return document.NewMarkdownSource(w.cfg.MarkdownDir), nil
	}
	ts, err := w.tokenSource(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := gworkspace.NewDocsService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to create docs service: %w", err)
	}
	return gworkspace.NewDocsSource(svc), nil
}

// documentIDs returns the configured IDs, or every markdown file when none are
// configured for a markdown source.
func (w *wiring) documentIDs(ctx context.Context, source document.Source) ([]string, error) {
	if len(w.cfg.DocIDs) > 0 {
		return w.cfg.DocIDs, nil
	}
	md, ok := source.(*document.MarkdownSource)
	if !ok {
		slog.Warn("DOC_IDS is empty, no documents will be reviewed")
		return nil, nil
	}
	ids, err := md.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list markdown documents: %w", err)
	}
	return ids, nil
}

func (w *wiring) hashStore(ctx context.Context) (digest.HashStore, error) {
	if w.cfg.HashStore == config.HashStoreSheets {
		ts, err := w.tokenSource(ctx)
		if err != nil {
			return nil, err
		}
		svc, err := gworkspace.NewSheetsService(ctx, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets service: %w", err)
		}
		return gworkspace.NewSheetHashStore(svc, w.cfg.GoogleSheetID, w.cfg.HashSheetName), nil
	}
	db, err := w.database()
	if err != nil {
		return nil, err
	}
	return storage.NewHashRepo(db), nil
}

// vectorIndex returns the index together with its health check.
func (w *wiring) vectorIndex(ctx context.Context) (vectorstore.VectorIndex, handlers.HealthChecker, error) {
	if w.cfg.VectorStore == config.VectorStoreMemory {
		store := vectorstore.NewMemoryStore()
		return store, store, nil
	}

	store, err := vectorstore.NewQdrantStore(w.cfg.QdrantURL, w.cfg.QdrantAPIKey, w.cfg.QdrantCollection)
	if err != nil {
		return nil, nil, err
	}
	w.closers = append(w.closers, store.Close)

	if err := store.EnsureCollection(ctx, w.cfg.QdrantVectorSize); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure Qdrant collection: %w", err)
	}
	slog.Info("Qdrant collection ready", "collection", w.cfg.QdrantCollection, "vector_size", w.cfg.QdrantVectorSize)
	return store, store, nil
}

func (w *wiring) providers(ctx context.Context) (*providers, error) {
	limiter := llm.NewRateLimiter(w.cfg.LLMRequestsPerSecond)

	if w.cfg.LLMProvider == config.ProviderGemini {
		client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:         w.cfg.GeminiAPIKey,
			Model:          w.cfg.GeminiModel,
			EmbeddingModel: w.cfg.GeminiEmbeddingModel,
			ExpectedSize:   w.cfg.QdrantVectorSize,
			MaxTokens:      w.cfg.EmbeddingMaxTokens,
			Limiter:        limiter,
		})
		if err != nil {
			return nil, err
		}
		w.closers = append(w.closers, client.Close)
		return &providers{embedder: client, completer: client}, nil
	}

	opts := []llm.Option{llm.WithTimeout(w.cfg.LLMTimeout), llm.WithRateLimiter(limiter)}
	slog.Debug("LLM configuration", "base_url", w.cfg.LLMBaseURL, "model", w.cfg.LLMModel)
	return &providers{
		embedder: llm.NewEmbeddingsClient(w.cfg.EmbeddingBaseURL, w.cfg.LLMAPIKey, w.cfg.EmbeddingModel,
			w.cfg.QdrantVectorSize, w.cfg.EmbeddingMaxTokens, opts...),
		completer: llm.NewClient(w.cfg.LLMBaseURL, w.cfg.LLMAPIKey, w.cfg.LLMModel, opts...),
	}, nil
}

func (w *wiring) publishers(ctx context.Context) ([]delivery.Publisher, error) {
	var webhook delivery.WebhookPoster
	if w.cfg.SlackWebhookURL != "" {
		webhook = slack.NewWebhook(w.cfg.SlackWebhookURL)
	}

	var mailer delivery.Mailer
	if len(w.cfg.EmailTo) > 0 {
		ts, err := w.tokenSource(ctx)
		if err != nil {
			return nil, err
		}
		svc, err := gworkspace.NewGmailService(ctx, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to create gmail service: %w", err)
		}
		mailer = gworkspace.NewMailer(svc)
	}

	return []delivery.Publisher{
		delivery.NewSlackPublisher(webhook, w.cfg.SlackChannel),
		delivery.NewEmailPublisher(mailer, w.cfg.EmailTo, w.cfg.EmailSubject),
	}, nil
}

// reviewService wires the full nightly review.
func (w *wiring) reviewService(ctx context.Context) (service.ReviewService, handlers.HealthChecker, error) {
	source, err := w.documentSource(ctx)
	if err != nil {
		return nil, nil, err
	}
	docIDs, err := w.documentIDs(ctx, source)
	if err != nil {
		return nil, nil, err
	}
	hashes, err := w.hashStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	index, health, err := w.vectorIndex(ctx)
	if err != nil {
		return nil, nil, err
	}
	p, err := w.providers(ctx)
	if err != nil {
		return nil, nil, err
	}
	publishers, err := w.publishers(ctx)
	if err != nil {
		return nil, nil, err
	}
	db, err := w.database()
	if err != nil {
		return nil, nil, err
	}

	summarizer := digest.NewSummarizer(source, hashes, index, p.embedder, p.completer, digest.Options{
		SimilarityThreshold: w.cfg.SimilarityThreshold,
		ContextTopK:         w.cfg.ContextTopK,
		ContextMinScore:     w.cfg.ContextMinScore,
		Temperature:         digest.DefaultTemperature,
	})

	svc := service.NewReviewService(
		summarizer,
		slack.NewClient(w.cfg.SlackBotToken),
		activity.NewSummarizer(p.completer, time.Local),
		publishers,
		storage.NewRunRepo(db),
		service.ReviewOptions{DocIDs: docIDs, ActivityWindow: w.cfg.ActivityWindow},
	)
	slog.Info("Review service initialized", "documents", len(docIDs), "source", w.cfg.DocumentSource)
	return svc, health, nil
}
