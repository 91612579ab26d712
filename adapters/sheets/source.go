package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ivtscope/domain/metrics"
	"ivtscope/internal/errors"
)

// Source loads a published spreadsheet tab through its CSV export endpoint.
type Source struct {
	sheetID string
	gid     int
	client  *http.Client
}

// NewSource validates the sheet URL and builds a source for the given tab.
// URL parsing happens here so a malformed identifier fails fast, before any
// fetch is attempted.
func NewSource(sheetURL string, gid int, timeout time.Duration) (*Source, error) {
	sheetID, err := ParseSheetID(sheetURL)
	if err != nil {
		return nil, err
	}
	return &Source{
		sheetID: sheetID,
		gid:     gid,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// ParseSheetID extracts the sheet identifier from an edit URL of the form
// https://docs.google.com/spreadsheets/d/{SHEET_ID}/edit#gid=0
func ParseSheetID(sheetURL string) (string, error) {
	parsed, err := url.Parse(sheetURL)
	if err != nil {
		return "", errors.Wrap(err, "couldn't parse sheet id from URL")
	}
	parts := strings.Split(parsed.Path, "/")
	if len(parts) < 4 || parts[3] == "" {
		return "", errors.InvalidInput("couldn't parse sheet id from URL")
	}
	return parts[3], nil
}

// ExportURL returns the CSV export endpoint for a sheet tab.
func ExportURL(sheetID string, gid int) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%d", sheetID, gid)
}

// Name identifies the source for logging and error messages
func (s *Source) Name() string {
	return "google-sheet"
}

// Load fetches the tab's CSV export and decodes it into a raw table.
func (s *Source) Load(ctx context.Context) (*metrics.RawTable, error) {
	exportURL := ExportURL(s.sheetID, s.gid)
	log.Printf("[SheetSource] Attempting to load sheet as CSV from: %s", exportURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build sheet request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.ExternalServiceError("sheet export", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.ExternalServiceError("sheet export",
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ExternalServiceError("sheet export", err)
	}
	log.Printf("[SheetSource] CSV fetched in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return RowsToTable(rows)
}

// RowsToTable converts raw CSV records into a RawTable, trimming cells and
// preserving header order. Requires at least a header row and one data row.
func RowsToTable(rows [][]string) (*metrics.RawTable, error) {
	if len(rows) < 2 {
		return nil, errors.InvalidInput("table must have at least a header row and one data row")
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]map[string]string, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		rowData := make(map[string]string, len(headers))
		for j, cell := range rows[i] {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &metrics.RawTable{Headers: headers, Rows: dataRows}, nil
}
