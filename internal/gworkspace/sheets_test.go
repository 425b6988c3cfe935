package gworkspace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/sheets/v4"
)

// fakeSheet serves the values endpoints of a single sheet from memory.
type fakeSheet struct {
	mu         sync.Mutex
	rows       [][]interface{}
	fail       bool
	failUpdate bool
	clears     []string
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail || (f.failUpdate && r.Method == http.MethodPut) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend error"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(sheets.ValueRange{Values: f.rows})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
		rng := strings.TrimSuffix(r.URL.Path[strings.Index(r.URL.Path, "/values/")+len("/values/"):], ":clear")
		f.clears = append(f.clears, rng)
		if start := startRow(rng); start-1 < len(f.rows) {
			f.rows = f.rows[:start-1]
		}
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPut:
		if r.URL.Query().Get("valueInputOption") != "RAW" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var vr sheets.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for i, row := range vr.Values {
			if i < len(f.rows) {
				f.rows[i] = row
			} else {
				f.rows = append(f.rows, row)
			}
		}
		_, _ = w.Write([]byte(`{}`))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// startRow returns the first row of an A1 range such as "Hashes!A5:D", or 1.
func startRow(rng string) int {
	if i := strings.Index(rng, "!"); i >= 0 {
		rng = rng[i+1:]
	}
	rng = strings.TrimLeft(rng, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	if i := strings.Index(rng, ":"); i >= 0 {
		rng = rng[:i]
	}
	n, err := strconv.Atoi(rng)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func newTestSheetStore(t *testing.T, fake *fakeSheet) *SheetHashStore {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(), testOptions(srv)...)
	require.NoError(t, err)

	store := NewSheetHashStore(svc, "sheet-id", "")
	store.limiter = nil
	store.now = func() time.Time { return time.Date(2026, 10, 16, 2, 0, 0, 0, time.UTC) }
	return store
}

func TestSheetHashStore_LoadHashes(t *testing.T) {
	fake := &fakeSheet{rows: [][]interface{}{
		{"DocID", "ChunkTitle", "ContentHash", "Timestamp"},
		{"doc-1", "Status", "h1", "2026-10-15T02:00:00Z"},
		{"doc-2", "Status", "x", "2026-10-15T02:00:00Z"},
		{"doc-1", "Risks", "h2"},
		{"doc-1"},
	}}
	store := newTestSheetStore(t, fake)

	got, err := store.LoadHashes(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Status": "h1", "Risks": "h2"}, got)

	got, err = store.LoadHashes(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSheetHashStore_SaveHashes_ReplacesOnlyThatDocument(t *testing.T) {
	fake := &fakeSheet{rows: [][]interface{}{
		{"DocID", "ChunkTitle", "ContentHash", "Timestamp"},
		{"doc-1", "Old", "h0", "2026-10-15T02:00:00Z"},
		{"doc-2", "Status", "x", "2026-10-15T02:00:00Z"},
	}}
	store := newTestSheetStore(t, fake)
	ctx := context.Background()

	require.NoError(t, store.SaveHashes(ctx, "doc-1", map[string]string{"Status": "h1"}))

	assert.Equal(t, "DocID", fake.rows[0][0])
	got, err := store.LoadHashes(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Status": "h1"}, got)

	other, err := store.LoadHashes(ctx, "doc-2")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Status": "x"}, other)

	last := fake.rows[len(fake.rows)-1]
	assert.Equal(t, "2026-10-16T02:00:00Z", last[3])
}

func TestSheetHashStore_SaveHashes_ClearsOnlyStaleTail(t *testing.T) {
	fake := &fakeSheet{rows: [][]interface{}{
		{"DocID", "ChunkTitle", "ContentHash", "Timestamp"},
		{"doc-1", "Status", "h0", "2026-10-15T02:00:00Z"},
		{"doc-1", "Risks", "h9", "2026-10-15T02:00:00Z"},
		{"doc-2", "Status", "x", "2026-10-15T02:00:00Z"},
	}}
	store := newTestSheetStore(t, fake)
	ctx := context.Background()

	require.NoError(t, store.SaveHashes(ctx, "doc-1", map[string]string{"Status": "h1"}))

	assert.Equal(t, []string{"Hashes!A4:D"}, fake.clears)
	require.Len(t, fake.rows, 3)
	got, err := store.LoadHashes(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Status": "h1"}, got)

	fake.clears = nil
	require.NoError(t, store.SaveHashes(ctx, "doc-1", map[string]string{"Status": "h2", "Risks": "h3"}))
	assert.Empty(t, fake.clears)
	require.Len(t, fake.rows, 4)
}

func TestSheetHashStore_SaveHashes_FailedWriteKeepsRows(t *testing.T) {
	before := [][]interface{}{
		{"DocID", "ChunkTitle", "ContentHash", "Timestamp"},
		{"doc-1", "Status", "h0", "2026-10-15T02:00:00Z"},
		{"doc-2", "Status", "x", "2026-10-15T02:00:00Z"},
	}
	fake := &fakeSheet{rows: append([][]interface{}(nil), before...), failUpdate: true}
	store := newTestSheetStore(t, fake)
	ctx := context.Background()

	err := store.SaveHashes(ctx, "doc-1", map[string]string{"Status": "h1"})
	assert.ErrorContains(t, err, "write hash sheet")
	assert.Empty(t, fake.clears)
	assert.Equal(t, before, fake.rows)

	other, err := store.LoadHashes(ctx, "doc-2")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Status": "x"}, other)
}

func TestSheetHashStore_Errors(t *testing.T) {
	store := newTestSheetStore(t, &fakeSheet{fail: true})

	_, err := store.LoadHashes(context.Background(), "doc-1")
	assert.ErrorContains(t, err, "read hash sheet")

	err = store.SaveHashes(context.Background(), "doc-1", map[string]string{"A": "h"})
	assert.ErrorContains(t, err, "read hash sheet")
}

func TestCell(t *testing.T) {
	row := []interface{}{"a", 3.0, nil}
	assert.Equal(t, "a", cell(row, 0))
	assert.Equal(t, "3", cell(row, 1))
	assert.Equal(t, "", cell(row, 2))
	assert.Equal(t, "", cell(row, 5))
}
