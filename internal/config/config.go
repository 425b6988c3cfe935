package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"docdigest/internal/apperrors"
)

// Supported backends.
const (
	SourceGoogleDocs = "gdocs"
	SourceMarkdown   = "markdown"

	HashStoreSQLite = "sqlite"
	HashStoreSheets = "sheets"

	VectorStoreQdrant = "qdrant"
	VectorStoreMemory = "memory"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	DocIDs         []string `envconfig:"DOC_IDS"`
	DocumentSource string   `envconfig:"DOCUMENT_SOURCE" default:"gdocs"`
	MarkdownDir    string   `envconfig:"MARKDOWN_DIR"`

	GoogleCredentialsFile    string `envconfig:"GOOGLE_CREDENTIALS_FILE"`
	GoogleImpersonateSubject string `envconfig:"GOOGLE_IMPERSONATE_SUBJECT"`

	HashStore     string `envconfig:"HASH_STORE" default:"sqlite"`
	DBPath        string `envconfig:"DB_PATH" default:"./data/docdigest.db"`
	GoogleSheetID string `envconfig:"GOOGLE_SHEET_ID"`
	HashSheetName string `envconfig:"HASH_SHEET_NAME" default:"Hashes"`

	VectorStore      string `envconfig:"VECTOR_STORE" default:"qdrant"`
	QdrantURL        string `envconfig:"QDRANT_URL" default:"http://localhost:6333"`
	QdrantAPIKey     string `envconfig:"QDRANT_API_KEY"`
	QdrantCollection string `envconfig:"QDRANT_COLLECTION" default:"docdigest"`
	// QdrantVectorSize must match the output size of the embedding model.
	QdrantVectorSize int `envconfig:"QDRANT_VECTOR_SIZE"`

	LLMProvider          string        `envconfig:"LLM_PROVIDER" default:"openai"`
	LLMBaseURL           string        `envconfig:"LLM_BASE_URL" default:"http://localhost:8080"`
	LLMAPIKey            string        `envconfig:"LLM_API_KEY"`
	LLMModel             string        `envconfig:"LLM_MODEL" default:"Llama-3.1-8B-Instruct"`
	EmbeddingBaseURL     string        `envconfig:"EMBEDDING_BASE_URL" default:"http://localhost:8081"`
	EmbeddingModel       string        `envconfig:"EMBEDDING_MODEL" default:"granite-embedding-278m-multilingual"`
	EmbeddingMaxTokens   int           `envconfig:"EMBEDDING_MAX_TOKENS" default:"8192"`
	GeminiAPIKey         string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel          string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	GeminiEmbeddingModel string        `envconfig:"GEMINI_EMBEDDING_MODEL" default:"text-embedding-004"`
	LLMRequestsPerSecond float64       `envconfig:"LLM_REQUESTS_PER_SECOND" default:"2"`
	LLMTimeout           time.Duration `envconfig:"LLM_TIMEOUT" default:"120s"`

	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.98"`
	ContextTopK         int     `envconfig:"CONTEXT_TOP_K" default:"5"`
	ContextMinScore     float32 `envconfig:"CONTEXT_MIN_SCORE" default:"0.7"`

	SlackBotToken   string        `envconfig:"SLACK_BOT_TOKEN"`
	SlackWebhookURL string        `envconfig:"SLACK_WEBHOOK_URL"`
	SlackChannel    string        `envconfig:"SLACK_CHANNEL"`
	ActivityWindow  time.Duration `envconfig:"ACTIVITY_WINDOW" default:"24h"`

	EmailTo      []string `envconfig:"EMAIL_TO"`
	EmailSubject string   `envconfig:"EMAIL_SUBJECT"`

	APIPort string `envconfig:"API_PORT" default:"9000"`
}

// Load reads configuration from environment variables and returns a Config struct.
// If a .env file exists in the current directory or one of its parents, it is
// loaded first. Environment variables already set take precedence over .env values.
func Load() (*Config, error) {
	loadDotEnv()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConfig, err)
	}
	cfg.DocIDs = splitList(cfg.DocIDs)
	cfg.EmailTo = splitList(cfg.EmailTo)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.HashStore == HashStoreSQLite {
		dataDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return &cfg, nil
}

// loadDotEnv loads the nearest .env file, searching at most five directories up.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// splitList trims entries and drops empty ones.
func splitList(items []string) []string {
	out := []string{}
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks backend choices and the settings each backend needs.
func (c *Config) Validate() error {
	if err := oneOf("LOG_FORMAT", c.LogFormat, "text", "json"); err != nil {
		return err
	}
	if err := oneOf("LOG_LEVEL", strings.ToLower(c.LogLevel), "debug", "info", "warn", "error"); err != nil {
		return err
	}

	if err := oneOf("DOCUMENT_SOURCE", c.DocumentSource, SourceGoogleDocs, SourceMarkdown); err != nil {
		return err
	}
	if c.DocumentSource == SourceMarkdown && c.MarkdownDir == "" {
		return invalid("MARKDOWN_DIR", "is required when DOCUMENT_SOURCE=markdown")
	}

	if err := oneOf("HASH_STORE", c.HashStore, HashStoreSQLite, HashStoreSheets); err != nil {
		return err
	}
	if c.HashStore == HashStoreSQLite && c.DBPath == "" {
		return invalid("DB_PATH", "is required when HASH_STORE=sqlite")
	}
	if c.HashStore == HashStoreSheets && c.GoogleSheetID == "" {
		return invalid("GOOGLE_SHEET_ID", "is required when HASH_STORE=sheets")
	}

	if err := oneOf("VECTOR_STORE", c.VectorStore, VectorStoreQdrant, VectorStoreMemory); err != nil {
		return err
	}
	if c.VectorStore == VectorStoreQdrant {
		if c.QdrantVectorSize <= 0 {
			return invalid("QDRANT_VECTOR_SIZE", "must be greater than 0")
		}
		if c.QdrantCollection == "" {
			return invalid("QDRANT_COLLECTION", "is required when VECTOR_STORE=qdrant")
		}
	}

	if err := oneOf("LLM_PROVIDER", c.LLMProvider, ProviderOpenAI, ProviderGemini); err != nil {
		return err
	}
	if c.LLMProvider == ProviderGemini && c.GeminiAPIKey == "" {
		return invalid("GEMINI_API_KEY", "is required when LLM_PROVIDER=gemini")
	}

	if c.EmbeddingMaxTokens <= 0 {
		return invalid("EMBEDDING_MAX_TOKENS", "must be greater than 0")
	}
	if c.LLMRequestsPerSecond < 0 {
		return invalid("LLM_REQUESTS_PER_SECOND", "must not be negative")
	}
	if c.LLMTimeout <= 0 {
		return invalid("LLM_TIMEOUT", "must be greater than 0")
	}
	if c.SimilarityThreshold < -1 || c.SimilarityThreshold > 1 {
		return invalid("SIMILARITY_THRESHOLD", "must be between -1 and 1")
	}
	if c.ContextTopK <= 0 {
		return invalid("CONTEXT_TOP_K", "must be greater than 0")
	}
	if c.ActivityWindow <= 0 {
		return invalid("ACTIVITY_WINDOW", "must be greater than 0")
	}

	return nil
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return invalid(key, fmt.Sprintf("must be one of %s, got %q", strings.Join(allowed, "|"), value))
}

func invalid(key, msg string) error {
	return fmt.Errorf("%w: %w", apperrors.ErrConfig, &apperrors.ValidationError{Field: key, Message: msg})
}
