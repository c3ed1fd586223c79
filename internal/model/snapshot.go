package model

import "time"

// DatasetSnapshot is the audit record written every time a fresh dataset is
// fetched from the source. It records what was fetched and when, not the rows
// themselves; the in-memory cache owns the row data.
type DatasetSnapshot struct {
	ID          string    `json:"id"`
	SourceRef   string    `json:"sourceRef"`   // spreadsheet URL + worksheet GID
	RowCount    int       `json:"rowCount"`    // holdings rows parsed
	ClientCount int       `json:"clientCount"` // distinct client names seen
	FetchedAt   time.Time `json:"fetchedAt"`
}
