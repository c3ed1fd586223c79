package testutil

import (
	"context"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/sheets"
)

// MockSheetClient is a mock implementation of sheets.Client for testing.
// It returns predefined worksheet rows instead of making actual HTTP calls.
type MockSheetClient struct {
	// MockRows is the table to return from FetchTable, header row first
	MockRows [][]string
	// MockError is the error to return from FetchTable
	MockError error
	// FetchCount tracks how many times FetchTable was called
	FetchCount int
	// LastRef records the reference of the most recent fetch
	LastRef sheets.SourceRef
}

// NewMockSheetClient creates a mock sheet client preloaded with a small
// valid holdings worksheet covering two clients.
func NewMockSheetClient() *MockSheetClient {
	return &MockSheetClient{
		MockRows: DefaultWorksheet(),
	}
}

// FetchTable returns the configured rows and error, recording the call.
func (m *MockSheetClient) FetchTable(_ context.Context, ref sheets.SourceRef) ([][]string, error) {
	m.FetchCount++
	m.LastRef = ref
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockRows, nil
}

// DefaultWorksheet returns a valid worksheet with all required columns and
// rows for two clients. Values are chosen so aggregates are easy to assert:
// Alice Johnson holds one winning and one losing Tech position plus a Health
// position, Bob Smith holds a single Energy position.
func DefaultWorksheet() [][]string {
	return [][]string{
		HeaderRow(),
		{"C001", "Alice Johnson", "Tech Growth Fund", "10000", "12000", "2000", "Tech", "High", "8.0", "9.5"},
		{"C001", "Alice Johnson", "Cloud Index ETF", "5000", "4000", "-1000", "Tech", "Medium", "6.0", "-2.0"},
		{"C001", "Alice Johnson", "Health Leaders", "8000", "8800", "800", "Health", "Low", "4.0", "5.0"},
		{"C002", "Bob Smith", "Energy Income", "20000", "19000", "-1000", "Energy", "Medium", "5.0", "3.0"},
	}
}

// HeaderRow returns the required column headers in source order.
func HeaderRow() []string {
	return []string{
		"Client ID", "Client Name", "Product Name", "Investment Amount",
		"Market Value", "Gain/Loss", "Sector", "Risk Level",
		"Annualized Expected Growth", "Actual Annual Growth",
	}
}

// WorksheetWithoutColumns returns the default worksheet with the named
// columns removed from every row, for missing-column tests.
func WorksheetWithoutColumns(names ...string) [][]string {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
	}

	header := HeaderRow()
	keep := []int{}
	for i, name := range header {
		if _, ok := drop[name]; !ok {
			keep = append(keep, i)
		}
	}

	rows := DefaultWorksheet()
	out := make([][]string, len(rows))
	for i, row := range rows {
		filtered := make([]string, 0, len(keep))
		for _, idx := range keep {
			filtered = append(filtered, row[idx])
		}
		out[i] = filtered
	}
	return out
}
