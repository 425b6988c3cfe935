package storage

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashRepo_LoadHashes_UnknownDocument(t *testing.T) {
	repo := NewHashRepo(openTestDB(t))

	hashes, err := repo.LoadHashes(context.Background(), "missing")
	if err != nil {
		t.Fatalf("LoadHashes() error = %v", err)
	}
	if hashes == nil || len(hashes) != 0 {
		t.Errorf("LoadHashes() = %v, want empty map", hashes)
	}
}

func TestHashRepo_SaveHashes_ReplacesOnlyThatDocument(t *testing.T) {
	ctx := context.Background()
	repo := NewHashRepo(openTestDB(t))

	if err := repo.SaveHashes(ctx, "doc-a", map[string]string{"Status": "h1", "Risks": "h2"}); err != nil {
		t.Fatalf("SaveHashes() error = %v", err)
	}
	if err := repo.SaveHashes(ctx, "doc-b", map[string]string{"Status": "x"}); err != nil {
		t.Fatalf("SaveHashes() error = %v", err)
	}

	// Second save for doc-a drops the removed "Risks" row.
	if err := repo.SaveHashes(ctx, "doc-a", map[string]string{"Status": "h3"}); err != nil {
		t.Fatalf("SaveHashes() error = %v", err)
	}

	tests := []struct {
		docID string
		want  map[string]string
	}{
		{docID: "doc-a", want: map[string]string{"Status": "h3"}},
		{docID: "doc-b", want: map[string]string{"Status": "x"}},
	}
	for _, tt := range tests {
		got, err := repo.LoadHashes(ctx, tt.docID)
		if err != nil {
			t.Fatalf("LoadHashes(%s) error = %v", tt.docID, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("LoadHashes(%s) = %v, want %v", tt.docID, got, tt.want)
		}
	}
}

func TestHashRepo_SaveHashes_Empty(t *testing.T) {
	ctx := context.Background()
	repo := NewHashRepo(openTestDB(t))

	require.NoError(t, repo.SaveHashes(ctx, "doc", map[string]string{"A": "h"}))
	require.NoError(t, repo.SaveHashes(ctx, "doc", map[string]string{}))

	got, err := repo.LoadHashes(ctx, "doc")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHashRepo_ListByDocument(t *testing.T) {
	ctx := context.Background()
	repo := NewHashRepo(openTestDB(t))

	require.NoError(t, repo.SaveHashes(ctx, "doc", map[string]string{"B": "hb", "A": "ha"}))

	records, err := repo.ListByDocument(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0].ChunkTitle)
	assert.Equal(t, "ha", records[0].ContentHash)
	assert.Equal(t, "B", records[1].ChunkTitle)
	assert.False(t, records[0].UpdatedAt.IsZero())
}

func TestHashRepo_LoadHashes_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT chunk_title, content_hash FROM chunk_hashes WHERE doc_id = ?")).
		WithArgs("doc").
		WillReturnError(errors.New("database is locked"))

	_, err = NewHashRepo(db).LoadHashes(context.Background(), "doc")
	assert.ErrorContains(t, err, "failed to query chunk hashes")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHashRepo_SaveHashes_RollsBackOnInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM chunk_hashes WHERE doc_id = ?")).
		WithArgs("doc").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO chunk_hashes")).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = NewHashRepo(db).SaveHashes(context.Background(), "doc", map[string]string{"Status": "h"})
	assert.ErrorContains(t, err, "failed to insert chunk hash")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHashRepo_SaveHashes_CommitError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM chunk_hashes WHERE doc_id = ?")).
		WithArgs("doc").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	err = NewHashRepo(db).SaveHashes(context.Background(), "doc", map[string]string{})
	assert.ErrorContains(t, err, "failed to commit transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}
