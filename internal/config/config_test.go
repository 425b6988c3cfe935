package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docdigest/internal/apperrors"
)

var envVars = []string{
	"LOG_LEVEL", "LOG_FORMAT", "DOC_IDS", "DOCUMENT_SOURCE", "MARKDOWN_DIR",
	"GOOGLE_CREDENTIALS_FILE", "GOOGLE_IMPERSONATE_SUBJECT",
	"HASH_STORE", "DB_PATH", "GOOGLE_SHEET_ID", "HASH_SHEET_NAME",
	"VECTOR_STORE", "QDRANT_URL", "QDRANT_API_KEY", "QDRANT_COLLECTION", "QDRANT_VECTOR_SIZE",
	"LLM_PROVIDER", "LLM_BASE_URL", "LLM_API_KEY", "LLM_MODEL",
	"EMBEDDING_BASE_URL", "EMBEDDING_MODEL", "EMBEDDING_MAX_TOKENS",
	"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_EMBEDDING_MODEL",
	"LLM_REQUESTS_PER_SECOND", "LLM_TIMEOUT",
	"SIMILARITY_THRESHOLD", "CONTEXT_TOP_K", "CONTEXT_MIN_SCORE",
	"SLACK_BOT_TOKEN", "SLACK_WEBHOOK_URL", "SLACK_CHANNEL", "ACTIVITY_WINDOW",
	"EMAIL_TO", "EMAIL_SUBJECT", "API_PORT",
}

// isolateEnv clears every config variable and moves into an empty directory
// so no .env file is picked up.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		if value, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { _ = os.Setenv(key, value) })
		}
		_ = os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantErr     bool
		checkConfig func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			env:  map[string]string{"QDRANT_VECTOR_SIZE": "768"},
			checkConfig: func(t *testing.T, cfg *Config) {
				if cfg.DocumentSource != SourceGoogleDocs || cfg.HashStore != HashStoreSQLite ||
					cfg.VectorStore != VectorStoreQdrant || cfg.LLMProvider != ProviderOpenAI {
					t.Errorf("unexpected backends: %+v", cfg)
				}
				if cfg.SimilarityThreshold != 0.98 || cfg.ContextTopK != 5 || cfg.ContextMinScore != 0.7 {
					t.Errorf("unexpected tuning: %v %v %v", cfg.SimilarityThreshold, cfg.ContextTopK, cfg.ContextMinScore)
				}
				if cfg.EmbeddingMaxTokens != 8192 {
					t.Errorf("EmbeddingMaxTokens = %d, want 8192", cfg.EmbeddingMaxTokens)
				}
				if cfg.ActivityWindow != 24*time.Hour || cfg.LLMTimeout != 120*time.Second {
					t.Errorf("unexpected durations: %v %v", cfg.ActivityWindow, cfg.LLMTimeout)
				}
				if cfg.APIPort != "9000" || cfg.HashSheetName != "Hashes" {
					t.Errorf("unexpected defaults: %q %q", cfg.APIPort, cfg.HashSheetName)
				}
				if len(cfg.DocIDs) != 0 || len(cfg.EmailTo) != 0 {
					t.Errorf("expected empty lists, got %v %v", cfg.DocIDs, cfg.EmailTo)
				}
			},
		},
		{
			name: "doc ids split and filtered",
			env: map[string]string{
				"QDRANT_VECTOR_SIZE": "768",
				"DOC_IDS":            "abc, def,,ghi ",
				"EMAIL_TO":           "a@example.com,b@example.com",
			},
			checkConfig: func(t *testing.T, cfg *Config) {
				want := []string{"abc", "def", "ghi"}
				if len(cfg.DocIDs) != len(want) {
					t.Fatalf("DocIDs = %v, want %v", cfg.DocIDs, want)
				}
				for i := range want {
					if cfg.DocIDs[i] != want[i] {
						t.Errorf("DocIDs[%d] = %q, want %q", i, cfg.DocIDs[i], want[i])
					}
				}
				if len(cfg.EmailTo) != 2 {
					t.Errorf("EmailTo = %v", cfg.EmailTo)
				}
			},
		},
		{
			name: "memory vector store needs no vector size",
			env:  map[string]string{"VECTOR_STORE": "memory"},
		},
		{
			name:    "missing QDRANT_VECTOR_SIZE",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:    "invalid QDRANT_VECTOR_SIZE",
			env:     map[string]string{"QDRANT_VECTOR_SIZE": "invalid"},
			wantErr: true,
		},
		{
			name:    "unknown document source",
			env:     map[string]string{"VECTOR_STORE": "memory", "DOCUMENT_SOURCE": "dropbox"},
			wantErr: true,
		},
		{
			name:    "markdown without directory",
			env:     map[string]string{"VECTOR_STORE": "memory", "DOCUMENT_SOURCE": "markdown"},
			wantErr: true,
		},
		{
			name:    "sheets without sheet id",
			env:     map[string]string{"VECTOR_STORE": "memory", "HASH_STORE": "sheets"},
			wantErr: true,
		},
		{
			name:    "gemini without key",
			env:     map[string]string{"VECTOR_STORE": "memory", "LLM_PROVIDER": "gemini"},
			wantErr: true,
		},
		{
			name:    "threshold out of range",
			env:     map[string]string{"VECTOR_STORE": "memory", "SIMILARITY_THRESHOLD": "1.5"},
			wantErr: true,
		},
		{
			name:    "zero top k",
			env:     map[string]string{"VECTOR_STORE": "memory", "CONTEXT_TOP_K": "0"},
			wantErr: true,
		},
		{
			name:    "bad log format",
			env:     map[string]string{"VECTOR_STORE": "memory", "LOG_FORMAT": "xml"},
			wantErr: true,
		},
		{
			name: "custom values",
			env: map[string]string{
				"VECTOR_STORE":         "memory",
				"DOCUMENT_SOURCE":      "markdown",
				"MARKDOWN_DIR":         "/tmp/docs",
				"LLM_PROVIDER":         "gemini",
				"GEMINI_API_KEY":       "key",
				"SIMILARITY_THRESHOLD": "0.9",
				"ACTIVITY_WINDOW":      "12h",
				"LOG_FORMAT":           "json",
			},
			checkConfig: func(t *testing.T, cfg *Config) {
				if cfg.MarkdownDir != "/tmp/docs" || cfg.GeminiAPIKey != "key" {
					t.Errorf("unexpected config: %+v", cfg)
				}
				if cfg.SimilarityThreshold != 0.9 || cfg.ActivityWindow != 12*time.Hour {
					t.Errorf("unexpected tuning: %v %v", cfg.SimilarityThreshold, cfg.ActivityWindow)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "data", "db.db"))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Load() expected error, got nil")
				}
				if !errors.Is(err, apperrors.ErrConfig) {
					t.Errorf("Load() error = %v, want ErrConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if tt.checkConfig != nil {
				tt.checkConfig(t, cfg)
			}
		})
	}
}

func TestLoad_ValidationErrorNamesField(t *testing.T) {
	isolateEnv(t)
	t.Setenv("VECTOR_STORE", "memory")
	t.Setenv("HASH_STORE", "postgres")

	_, err := Load()
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Load() error = %v, want ValidationError", err)
	}
	if verr.Field != "HASH_STORE" {
		t.Errorf("Field = %q, want HASH_STORE", verr.Field)
	}
}

func TestLoad_CreatesDataDirectory(t *testing.T) {
	isolateEnv(t)
	dbPath := filepath.Join(t.TempDir(), "test", "db.db")
	t.Setenv("VECTOR_STORE", "memory")
	t.Setenv("DB_PATH", dbPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Errorf("Load() should create data directory: %v", err)
	}
	if cfg.DBPath != dbPath {
		t.Errorf("Load() DBPath = %v, want %v", cfg.DBPath, dbPath)
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	isolateEnv(t)
	dir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	content := "VECTOR_STORE=memory\nSLACK_CHANNEL=C123\nDB_PATH=" + filepath.Join(dir, "db.db") + "\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = os.Unsetenv("VECTOR_STORE")
		_ = os.Unsetenv("SLACK_CHANNEL")
		_ = os.Unsetenv("DB_PATH")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SlackChannel != "C123" {
		t.Errorf("SlackChannel = %q, want C123", cfg.SlackChannel)
	}
}
