package sheets_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/sheets"
)

// TestExportURL tests the sharing-URL to export-URL conversion.
//
// WHY: Operators paste sharing URLs straight from the browser; the client
// must derive the CSV export endpoint from them and reject URLs that do not
// point at a spreadsheet.
func TestExportURL(t *testing.T) {
	t.Run("converts a sharing URL", func(t *testing.T) {
		got, err := sheets.ExportURL(sheets.SourceRef{
			SpreadsheetURL: "https://docs.google.com/spreadsheets/d/1bTT7R7hImTFME7ZLqpWrFp/edit?usp=sharing",
			WorksheetGID:   "290160618",
		})
		if err != nil {
			t.Fatalf("ExportURL() returned unexpected error: %v", err)
		}

		want := "https://docs.google.com/spreadsheets/d/1bTT7R7hImTFME7ZLqpWrFp/export?format=csv&gid=290160618"
		if got != want {
			t.Errorf("ExportURL() = %s, want %s", got, want)
		}
	})

	t.Run("defaults the worksheet GID to 0", func(t *testing.T) {
		got, err := sheets.ExportURL(sheets.SourceRef{
			SpreadsheetURL: "https://docs.google.com/spreadsheets/d/abc123/edit",
		})
		if err != nil {
			t.Fatalf("ExportURL() returned unexpected error: %v", err)
		}

		want := "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=0"
		if got != want {
			t.Errorf("ExportURL() = %s, want %s", got, want)
		}
	})

	t.Run("stops the document ID at a query string", func(t *testing.T) {
		got, err := sheets.ExportURL(sheets.SourceRef{
			SpreadsheetURL: "https://docs.google.com/spreadsheets/d/abc123?usp=sharing",
			WorksheetGID:   "0",
		})
		if err != nil {
			t.Fatalf("ExportURL() returned unexpected error: %v", err)
		}

		want := "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=0"
		if got != want {
			t.Errorf("ExportURL() = %s, want %s", got, want)
		}
	})

	t.Run("stops the document ID at a fragment", func(t *testing.T) {
		got, err := sheets.ExportURL(sheets.SourceRef{
			SpreadsheetURL: "https://docs.google.com/spreadsheets/d/abc123#gid=0",
			WorksheetGID:   "5",
		})
		if err != nil {
			t.Fatalf("ExportURL() returned unexpected error: %v", err)
		}

		want := "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=5"
		if got != want {
			t.Errorf("ExportURL() = %s, want %s", got, want)
		}
	})

	t.Run("rejects non-spreadsheet URLs", func(t *testing.T) {
		if _, err := sheets.ExportURL(sheets.SourceRef{SpreadsheetURL: "https://example.com/data.csv"}); err == nil {
			t.Error("Expected error for non-spreadsheet URL")
		}
	})
}

// TestSheetClient_FetchTable tests the HTTP fetch and CSV decode.
//
// WHY: The fetch is the only external call in the system; transport and
// status failures must surface as errors and the CSV body must come back
// row-for-row.
func TestSheetClient_FetchTable(t *testing.T) {
	t.Run("fetches and parses CSV", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte("Client Name,Market Value\nAlice Johnson,12000\n"))
		}))
		defer server.Close()

		client := sheets.NewSheetClientWithBase(server.URL)

		rows, err := client.FetchTable(context.Background(), sheets.SourceRef{
			SpreadsheetURL: "https://docs.google.com/spreadsheets/d/abc123/edit",
			WorksheetGID:   "0",
			Token:          "secret-token",
		})
		if err != nil {
			t.Fatalf("FetchTable() returned unexpected error: %v", err)
		}

		if len(rows) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(rows))
		}
		if rows[1][0] != "Alice Johnson" {
			t.Errorf("Unexpected data row: %v", rows[1])
		}
		if gotAuth != "Bearer secret-token" {
			t.Errorf("Authorization header = %q, want bearer token", gotAuth)
		}
	})

	t.Run("non-success status surfaces as error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		}))
		defer server.Close()

		client := sheets.NewSheetClientWithBase(server.URL)

		_, err := client.FetchTable(context.Background(), sheets.SourceRef{
			SpreadsheetURL: "https://docs.google.com/spreadsheets/d/abc123/edit",
		})
		if err == nil {
			t.Error("Expected error for 403 response")
		}
	})
}
