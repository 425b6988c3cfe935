package storage

import "time"

// HashRecord is the stored content hash of one chunk title of a document.
type HashRecord struct {
	DocID       string
	ChunkTitle  string
	ContentHash string // SHA256 hex string of chunk content
	UpdatedAt   time.Time
}

// RunRecord summarizes one completed review run.
type RunRecord struct {
	ID         string // UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Documents  int    // Documents summarized successfully
	Summaries  int    // Section summaries produced
	Errors     string // Joined error text, empty when the run was clean
}
