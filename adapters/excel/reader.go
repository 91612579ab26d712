package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ivtscope/adapters/sheets"
	"ivtscope/domain/metrics"
	"ivtscope/internal/errors"
)

// FileSource reads a local Excel or CSV file as a table source. The tab
// index selects the sheet for XLSX files; CSV files have a single implicit
// tab and any index other than 0 is rejected.
type FileSource struct {
	filePath string
	fileType string // "xlsx" or "csv"
	tab      int
}

// NewFileSource creates a source for a local data file
func NewFileSource(filePath string, tab int) *FileSource {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &FileSource{filePath: filePath, fileType: fileType, tab: tab}
}

// Name identifies the source for logging and error messages
func (r *FileSource) Name() string {
	return "local-" + r.fileType
}

// Load reads the file into a raw table.
func (r *FileSource) Load(ctx context.Context) (*metrics.RawTable, error) {
	log.Printf("[FileSource] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.InvalidInput(fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath))
	}

	switch r.fileType {
	case "csv":
		return r.loadCSV()
	case "xlsx":
		return r.loadExcel()
	default:
		return nil, errors.InvalidInput("unsupported file type: " + r.fileType)
	}
}

func (r *FileSource) loadCSV() (*metrics.RawTable, error) {
	if r.tab != 0 {
		return nil, errors.InvalidInput("CSV files have a single tab; tab index must be 0")
	}

	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}
	log.Printf("[FileSource] CSV file read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return sheets.RowsToTable(rows)
}

func (r *FileSource) loadExcel() (*metrics.RawTable, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()
	log.Printf("[FileSource] Excel file opened in %.2fms",
		float64(time.Since(startTime).Nanoseconds())/1e6)

	sheetNames := f.GetSheetList()
	if r.tab < 0 || r.tab >= len(sheetNames) {
		return nil, errors.InvalidInput(fmt.Sprintf("tab index %d out of range (workbook has %d sheets)", r.tab, len(sheetNames)))
	}
	sheetName := sheetNames[r.tab]

	readStart := time.Now()
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", sheetName)
	}
	log.Printf("[FileSource] Sheet %q read in %.2fms (%d rows)",
		sheetName, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return sheets.RowsToTable(rows)
}
