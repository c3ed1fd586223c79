package model

import "time"

// SourceConfig represents the holdings data source configuration.
// The access token is stored fernet-encrypted at rest and is only ever
// returned masked by the API.
type SourceConfig struct {
	Configured     bool       `json:"configured"`
	SpreadsheetURL string     `json:"spreadsheetUrl"`
	WorksheetGID   string     `json:"worksheetGid"`
	Token          string     `json:"-"`
	TokenMasked    string     `json:"tokenMasked,omitempty"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt,omitempty"`
	TokenWarning   string     `json:"tokenWarning,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
