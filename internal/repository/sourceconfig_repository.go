package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/apperrors"
)

// SourceConfigRepository provides data access methods for the source_config
// table. The table holds a single row: the active data source configuration.
// The token column stores the fernet-encrypted access token; encryption and
// decryption happen in the service layer.
type SourceConfigRepository struct {
	db *sql.DB
}

// NewSourceConfigRepository creates a new SourceConfigRepository with the provided database connection.
func NewSourceConfigRepository(db *sql.DB) *SourceConfigRepository {
	return &SourceConfigRepository{db: db}
}

// StoredSourceConfig is the raw persisted form of the source configuration.
type StoredSourceConfig struct {
	SpreadsheetURL string
	WorksheetGID   string
	TokenEncrypted string
	TokenExpiresAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// GetSourceConfig retrieves the stored source configuration.
// Returns apperrors.ErrSourceConfigNotFound when none has been saved.
func (r *SourceConfigRepository) GetSourceConfig() (StoredSourceConfig, error) {
	query := `
          SELECT spreadsheet_url, worksheet_gid, token_encrypted, token_expires_at, created_at, updated_at
          FROM source_config
          WHERE id = 1
      `

	var cfg StoredSourceConfig
	var tokenEncrypted, tokenExpiresAt sql.NullString
	var createdAt, updatedAt string

	err := r.db.QueryRow(query).Scan(
		&cfg.SpreadsheetURL,
		&cfg.WorksheetGID,
		&tokenEncrypted,
		&tokenExpiresAt,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredSourceConfig{}, apperrors.ErrSourceConfigNotFound
	}
	if err != nil {
		return StoredSourceConfig{}, fmt.Errorf("failed to query source_config table: %w", err)
	}

	cfg.TokenEncrypted = tokenEncrypted.String

	if tokenExpiresAt.Valid {
		expires, err := ParseTime(tokenExpiresAt.String)
		if err != nil {
			return StoredSourceConfig{}, fmt.Errorf("failed to parse token_expires_at: %w", err)
		}
		cfg.TokenExpiresAt = &expires
	}

	if cfg.CreatedAt, err = ParseTime(createdAt); err != nil {
		return StoredSourceConfig{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if cfg.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return StoredSourceConfig{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return cfg, nil
}

// SaveSourceConfig upserts the single source configuration row, preserving
// created_at on update.
func (r *SourceConfigRepository) SaveSourceConfig(cfg StoredSourceConfig) error {
	query := `
          INSERT INTO source_config (id, spreadsheet_url, worksheet_gid, token_encrypted, token_expires_at, created_at, updated_at)
          VALUES (1, ?, ?, ?, ?, ?, ?)
          ON CONFLICT (id) DO UPDATE SET
              spreadsheet_url = excluded.spreadsheet_url,
              worksheet_gid = excluded.worksheet_gid,
              token_encrypted = excluded.token_encrypted,
              token_expires_at = excluded.token_expires_at,
              updated_at = excluded.updated_at
      `

	var tokenEncrypted, tokenExpiresAt any
	if cfg.TokenEncrypted != "" {
		tokenEncrypted = cfg.TokenEncrypted
	}
	if cfg.TokenExpiresAt != nil {
		tokenExpiresAt = cfg.TokenExpiresAt.UTC().Format(time.RFC3339)
	}

	_, err := r.db.Exec(query,
		cfg.SpreadsheetURL,
		cfg.WorksheetGID,
		tokenEncrypted,
		tokenExpiresAt,
		cfg.CreatedAt.UTC().Format(time.RFC3339),
		cfg.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert source_config table: %w", err)
	}

	return nil
}
