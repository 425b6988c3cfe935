package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// HashRepo persists chunk content hashes in SQLite.
type HashRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewHashRepo creates a new HashRepo.
func NewHashRepo(db *sql.DB) *HashRepo {
	return &HashRepo{db: db, now: time.Now}
}

// LoadHashes returns chunk title -> content hash for docID.
// A document with no stored rows yields an empty map.
func (r *HashRepo) LoadHashes(ctx context.Context, docID string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT chunk_title, content_hash FROM chunk_hashes WHERE doc_id = ?",
		docID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk hashes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	hashes := make(map[string]string)
	for rows.Next() {
		var title, hash string
		if err := rows.Scan(&title, &hash); err != nil {
			return nil, fmt.Errorf("failed to scan chunk hash: %w", err)
		}
		hashes[title] = hash
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return hashes, nil
}

// SaveHashes replaces every stored hash of docID with hashes in one transaction.
// Rows of other documents are untouched.
func (r *HashRepo) SaveHashes(ctx context.Context, docID string, hashes map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunk_hashes WHERE doc_id = ?", docID); err != nil {
		return fmt.Errorf("failed to delete chunk hashes: %w", err)
	}

	updatedAt := r.now().UTC().Format(time.RFC3339)
	for title, hash := range hashes {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO chunk_hashes (doc_id, chunk_title, content_hash, updated_at) VALUES (?, ?, ?, ?)",
			docID, title, hash, updatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk hash %q: %w", title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListByDocument returns the stored hash records of docID ordered by title.
func (r *HashRepo) ListByDocument(ctx context.Context, docID string) ([]HashRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT doc_id, chunk_title, content_hash, updated_at FROM chunk_hashes WHERE doc_id = ? ORDER BY chunk_title",
		docID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk hashes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []HashRecord
	for rows.Next() {
		var rec HashRecord
		var updatedAtStr string
		if err := rows.Scan(&rec.DocID, &rec.ChunkTitle, &rec.ContentHash, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan chunk hash: %w", err)
		}
		rec.UpdatedAt, err = parseTimestamp(updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}
