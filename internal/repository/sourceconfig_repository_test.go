package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/testutil"
)

// TestSourceConfigRepository tests the single-row source configuration store.
//
// WHY: The source configuration is a singleton; saving twice must update the
// same row and keep its original creation timestamp, or the config page shows
// misleading history.
func TestSourceConfigRepository(t *testing.T) {
	t.Run("returns sentinel when nothing is configured", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSourceConfigRepository(db)

		_, err := repo.GetSourceConfig()
		if !errors.Is(err, apperrors.ErrSourceConfigNotFound) {
			t.Errorf("Expected ErrSourceConfigNotFound, got %v", err)
		}
	})

	t.Run("save and read round trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSourceConfigRepository(db)

		now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
		expires := now.AddDate(0, 6, 0)

		err := repo.SaveSourceConfig(repository.StoredSourceConfig{
			SpreadsheetURL: "https://docs.google.com/spreadsheets/d/abc123/edit",
			WorksheetGID:   "42",
			TokenEncrypted: "gAAAAAB-ciphertext",
			TokenExpiresAt: &expires,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			t.Fatalf("SaveSourceConfig() returned unexpected error: %v", err)
		}

		cfg, err := repo.GetSourceConfig()
		if err != nil {
			t.Fatalf("GetSourceConfig() returned unexpected error: %v", err)
		}

		if cfg.SpreadsheetURL != "https://docs.google.com/spreadsheets/d/abc123/edit" {
			t.Errorf("Unexpected spreadsheet URL: %s", cfg.SpreadsheetURL)
		}
		if cfg.WorksheetGID != "42" {
			t.Errorf("Unexpected worksheet GID: %s", cfg.WorksheetGID)
		}
		if cfg.TokenEncrypted != "gAAAAAB-ciphertext" {
			t.Errorf("Unexpected token ciphertext: %s", cfg.TokenEncrypted)
		}
		if cfg.TokenExpiresAt == nil || !cfg.TokenExpiresAt.Equal(expires) {
			t.Errorf("Unexpected token expiry: %v", cfg.TokenExpiresAt)
		}
	})

	t.Run("second save updates the row and preserves created_at", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSourceConfigRepository(db)

		created := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
		err := repo.SaveSourceConfig(repository.StoredSourceConfig{
			SpreadsheetURL: "https://docs.google.com/spreadsheets/d/first/edit",
			WorksheetGID:   "0",
			CreatedAt:      created,
			UpdatedAt:      created,
		})
		if err != nil {
			t.Fatalf("SaveSourceConfig() returned unexpected error: %v", err)
		}

		updated := created.AddDate(0, 3, 0)
		err = repo.SaveSourceConfig(repository.StoredSourceConfig{
			SpreadsheetURL: "https://docs.google.com/spreadsheets/d/second/edit",
			WorksheetGID:   "7",
			CreatedAt:      created,
			UpdatedAt:      updated,
		})
		if err != nil {
			t.Fatalf("SaveSourceConfig() returned unexpected error on update: %v", err)
		}

		cfg, err := repo.GetSourceConfig()
		if err != nil {
			t.Fatalf("GetSourceConfig() returned unexpected error: %v", err)
		}

		if cfg.SpreadsheetURL != "https://docs.google.com/spreadsheets/d/second/edit" {
			t.Errorf("Expected updated URL, got %s", cfg.SpreadsheetURL)
		}
		if !cfg.CreatedAt.Equal(created) {
			t.Errorf("Expected created_at preserved as %v, got %v", created, cfg.CreatedAt)
		}
		if !cfg.UpdatedAt.Equal(updated) {
			t.Errorf("Expected updated_at %v, got %v", updated, cfg.UpdatedAt)
		}
	})

	t.Run("empty token stores as null and reads back empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSourceConfigRepository(db)

		now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
		err := repo.SaveSourceConfig(repository.StoredSourceConfig{
			SpreadsheetURL: "https://docs.google.com/spreadsheets/d/public/edit",
			WorksheetGID:   "0",
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			t.Fatalf("SaveSourceConfig() returned unexpected error: %v", err)
		}

		cfg, err := repo.GetSourceConfig()
		if err != nil {
			t.Fatalf("GetSourceConfig() returned unexpected error: %v", err)
		}
		if cfg.TokenEncrypted != "" {
			t.Errorf("Expected empty token, got %q", cfg.TokenEncrypted)
		}
		if cfg.TokenExpiresAt != nil {
			t.Errorf("Expected nil expiry, got %v", cfg.TokenExpiresAt)
		}
	})
}
