package sheets

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"ivtscope/internal/errors"
)

func TestParseSheetID(t *testing.T) {
	id, err := ParseSheetID("https://docs.google.com/spreadsheets/d/1AbC_dEf-123/edit#gid=0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "1AbC_dEf-123" {
		t.Errorf("sheet id = %q", id)
	}
}

func TestParseSheetID_Invalid(t *testing.T) {
	cases := []string{
		"https://docs.google.com/spreadsheets",
		"https://docs.google.com/spreadsheets/d/",
		"not a url at all",
	}
	for _, in := range cases {
		if _, err := ParseSheetID(in); err == nil {
			t.Errorf("ParseSheetID(%q): expected error", in)
		}
	}
}

func TestNewSource_FailsFastOnBadURL(t *testing.T) {
	if _, err := NewSource("https://docs.google.com/spreadsheets/d/", 0, time.Second); err == nil {
		t.Fatal("expected validation error before any fetch")
	}
}

func TestExportURL(t *testing.T) {
	got := ExportURL("SHEET123", 7)
	want := "https://docs.google.com/spreadsheets/d/SHEET123/export?format=csv&gid=7"
	if got != want {
		t.Errorf("ExportURL = %q, want %q", got, want)
	}
}

func TestRowsToTable(t *testing.T) {
	rows := [][]string{
		{" app ", "total_requests "},
		{"com.foo ", " 100"},
		{"com.bar", "200", "dangling"},
	}
	table, err := RowsToTable(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Headers[0] != "app" || table.Headers[1] != "total_requests" {
		t.Errorf("headers not trimmed: %v", table.Headers)
	}
	if table.Rows[0]["app"] != "com.foo" || table.Rows[0]["total_requests"] != "100" {
		t.Errorf("cells not trimmed: %v", table.Rows[0])
	}
	// Cells past the header count are dropped
	if len(table.Rows[1]) != 2 {
		t.Errorf("ragged row not truncated: %v", table.Rows[1])
	}
}

func TestRowsToTable_TooFewRows(t *testing.T) {
	for _, rows := range [][][]string{nil, {{"app"}}} {
		_, err := RowsToTable(rows)
		if err == nil {
			t.Fatal("expected error for header-only input")
		}
		if errors.GetCode(err) != errors.CodeInvalidInput {
			t.Errorf("unexpected error code: %v", errors.GetCode(err))
		}
	}
}

// stubTransport serves a canned response for any request, capturing the URL.
type stubTransport struct {
	status int
	body   string
	gotURL string
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.gotURL = req.URL.String()
	return &http.Response{
		StatusCode: s.status,
		Status:     http.StatusText(s.status),
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func TestSource_Load(t *testing.T) {
	transport := &stubTransport{
		status: http.StatusOK,
		body:   "app,total_requests\ncom.foo,100\ncom.bar,200\n",
	}
	src := &Source{
		sheetID: "SHEET123",
		gid:     3,
		client:  &http.Client{Transport: transport},
	}

	table, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transport.gotURL != ExportURL("SHEET123", 3) {
		t.Errorf("fetched %q", transport.gotURL)
	}
	if len(table.Rows) != 2 || table.Rows[1]["app"] != "com.bar" {
		t.Errorf("unexpected table: %+v", table)
	}
}

func TestSource_LoadNonOKStatus(t *testing.T) {
	transport := &stubTransport{status: http.StatusForbidden, body: "denied"}
	src := &Source{sheetID: "SHEET123", client: &http.Client{Transport: transport}}

	_, err := src.Load(context.Background())
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if errors.GetCode(err) != errors.CodeExternalService {
		t.Errorf("unexpected error code: %v", errors.GetCode(err))
	}
}
