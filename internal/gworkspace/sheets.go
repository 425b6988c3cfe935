package gworkspace

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/sheets/v4"
)

// DefaultHashSheet is the sheet that holds chunk hashes.
const DefaultHashSheet = "Hashes"

var hashHeader = []interface{}{"DocID", "ChunkTitle", "ContentHash", "Timestamp"}

// SheetHashStore keeps chunk hashes in a Google Sheet with one row per
// (document, chunk title).
type SheetHashStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheet         string
	limiter       *rate.Limiter
	now           func() time.Time
}

// NewSheetHashStore creates a SheetHashStore. An empty sheet name selects DefaultHashSheet.
func NewSheetHashStore(svc *sheets.Service, spreadsheetID, sheet string) *SheetHashStore {
	if sheet == "" {
		sheet = DefaultHashSheet
	}
	return &SheetHashStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheet:         sheet,
		limiter:       newLimiter(SheetsRequestsPerSecond),
		now:           time.Now,
	}
}

func (s *SheetHashStore) columns() string {
	return s.sheet + "!A:D"
}

// LoadHashes returns chunk title -> content hash for docID.
func (s *SheetHashStore) LoadHashes(ctx context.Context, docID string) (map[string]string, error) {
	rows, _, err := s.readRows(ctx)
	if err != nil {
		return nil, err
	}

	hashes := make(map[string]string)
	for _, row := range rows {
		if cell(row, 0) == docID && cell(row, 1) != "" {
			hashes[cell(row, 1)] = cell(row, 2)
		}
	}
	return hashes, nil
}

// SaveHashes rewrites the sheet with the rows of other documents kept and the
// rows of docID replaced by hashes. Rows are written over the existing range
// first and only the leftover tail is cleared, so a failed write leaves the
// previous contents in place.
func (s *SheetHashStore) SaveHashes(ctx context.Context, docID string, hashes map[string]string) error {
	rows, total, err := s.readRows(ctx)
	if err != nil {
		return err
	}

	values := [][]interface{}{hashHeader}
	for _, row := range rows {
		if cell(row, 0) != docID {
			values = append(values, row)
		}
	}
	timestamp := s.now().UTC().Format(time.RFC3339)
	for title, hash := range hashes {
		values = append(values, []interface{}{docID, title, hash, timestamp})
	}

	if err := wait(ctx, s.limiter); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, s.sheet+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write hash sheet: %w", err)
	}

	if total <= len(values) {
		return nil
	}
	if err := wait(ctx, s.limiter); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	tail := fmt.Sprintf("%s!A%d:D", s.sheet, len(values)+1)
	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, tail, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear stale hash rows: %w", err)
	}
	return nil
}

// readRows returns every data row of the sheet, without the header, and the
// number of rows the sheet holds including the header.
func (s *SheetHashStore) readRows(ctx context.Context) ([][]interface{}, int, error) {
	if err := wait(ctx, s.limiter); err != nil {
		return nil, 0, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.columns()).Context(ctx).Do()
	if err != nil {
		return nil, 0, fmt.Errorf("read hash sheet: %w", err)
	}

	rows := resp.Values
	total := len(rows)
	if len(rows) > 0 && cell(rows[0], 0) == hashHeader[0] {
		rows = rows[1:]
	}
	return rows, total, nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	if s, ok := row[i].(string); ok {
		return s
	}
	return fmt.Sprint(row[i])
}
