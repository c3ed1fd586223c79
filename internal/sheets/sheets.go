package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
)

// Client defines the interface for fetching a holdings worksheet from a
// spreadsheet source. This interface enables dependency injection and testing
// with mock implementations.
type Client interface {
	FetchTable(ctx context.Context, ref SourceRef) ([][]string, error)
}

// SourceRef identifies one worksheet within a spreadsheet. The combination of
// spreadsheet URL and worksheet GID is the cache key for a fetched dataset.
type SourceRef struct {
	SpreadsheetURL string
	WorksheetGID   string
	Token          string // optional bearer token for private sheets
}

// Key returns the cache key for this reference. The token is deliberately not
// part of the key; two references to the same worksheet are the same dataset.
func (r SourceRef) Key() string {
	return r.SpreadsheetURL + "#" + r.WorksheetGID
}

// SheetClient provides methods for fetching worksheet data from Google Sheets.
// It wraps an HTTP client and fetches worksheets through the CSV export
// endpoint.
type SheetClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewSheetClient creates a new sheet client with default HTTP settings.
//
// Returns:
//   - *SheetClient: A new client instance ready for use
func NewSheetClient() *SheetClient {
	return &SheetClient{
		httpClient: &http.Client{},
	}
}

// NewSheetClientWithBase creates a sheet client that sends export requests to
// baseURL instead of docs.google.com. Used by tests to point the client at a
// local server.
func NewSheetClientWithBase(baseURL string) *SheetClient {
	return &SheetClient{
		httpClient: &http.Client{},
		baseURL:    baseURL,
	}
}

// ExportURL converts a spreadsheet sharing URL into the CSV export URL for the
// given worksheet. Sharing URLs look like
// https://docs.google.com/spreadsheets/d/<id>/edit?usp=sharing and export URLs
// like https://docs.google.com/spreadsheets/d/<id>/export?format=csv&gid=<gid>.
func ExportURL(ref SourceRef) (string, error) {
	const marker = "/spreadsheets/d/"

	idx := strings.Index(ref.SpreadsheetURL, marker)
	if idx < 0 {
		return "", fmt.Errorf("not a spreadsheet URL: %s", ref.SpreadsheetURL)
	}

	// The document ID runs until the next path segment, query or fragment.
	id := ref.SpreadsheetURL[idx+len(marker):]
	if end := strings.IndexAny(id, "/?#"); end >= 0 {
		id = id[:end]
	}
	if id == "" {
		return "", fmt.Errorf("spreadsheet URL has no document ID: %s", ref.SpreadsheetURL)
	}

	gid := ref.WorksheetGID
	if gid == "" {
		gid = "0"
	}

	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", id, gid), nil
}

// FetchTable fetches the worksheet identified by ref and returns its rows,
// header row included. Any transport failure, non-success status or malformed
// CSV is surfaced as an error; fetches are never retried here.
func (c *SheetClient) FetchTable(ctx context.Context, ref SourceRef) ([][]string, error) {
	exportURL, err := ExportURL(ref)
	if err != nil {
		return nil, err
	}
	if c.baseURL != "" {
		exportURL = c.baseURL + strings.TrimPrefix(exportURL, "https://docs.google.com")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, err
	}
	if ref.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ref.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("worksheet fetch returned status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1 // header validation happens downstream

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse worksheet CSV: %w", err)
	}

	return rows, nil
}
