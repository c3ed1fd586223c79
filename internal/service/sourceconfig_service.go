package service

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/sheets"
)

// tokenWarningWindow is how close to expiry a source token gets before the
// configuration starts carrying a warning.
const tokenWarningWindow = 720 * time.Hour // 30 days

// SourceConfigService manages the holdings data source configuration.
//
// The configuration saved through the API takes precedence; until one is
// saved, the SHEET_URL/SHEET_GID environment defaults apply. Access tokens
// for private sheets are fernet-encrypted with the key from FERNET_KEY before
// they reach the database and are only ever returned masked.
type SourceConfigService struct {
	repo     *repository.SourceConfigRepository
	defaults config.SourceConfig
	onChange func() // invoked after a successful save, invalidates the dataset cache
}

// NewSourceConfigService creates a new SourceConfigService. onChange may be
// nil when no cache invalidation is needed (tests).
func NewSourceConfigService(repo *repository.SourceConfigRepository, defaults config.SourceConfig, onChange func()) *SourceConfigService {
	return &SourceConfigService{
		repo:     repo,
		defaults: defaults,
		onChange: onChange,
	}
}

// UpdateSourceConfigRequest carries a new source configuration.
type UpdateSourceConfigRequest struct {
	SpreadsheetURL string     `json:"spreadsheetUrl"`
	WorksheetGID   string     `json:"worksheetGid"`
	Token          string     `json:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt,omitempty"`
}

// GetSourceConfig retrieves the active source configuration with the token
// masked. Adds a token expiration warning if the token expires within 30 days.
// When nothing has been saved yet, the environment defaults are returned with
// Configured set to false.
func (s *SourceConfigService) GetSourceConfig() (model.SourceConfig, error) {
	stored, err := s.repo.GetSourceConfig()
	if errors.Is(err, apperrors.ErrSourceConfigNotFound) {
		return model.SourceConfig{
			Configured:     false,
			SpreadsheetURL: s.defaults.SpreadsheetURL,
			WorksheetGID:   s.defaults.WorksheetGID,
		}, nil
	}
	if err != nil {
		return model.SourceConfig{}, err
	}

	cfg := model.SourceConfig{
		Configured:     true,
		SpreadsheetURL: stored.SpreadsheetURL,
		WorksheetGID:   stored.WorksheetGID,
		TokenExpiresAt: stored.TokenExpiresAt,
		CreatedAt:      stored.CreatedAt,
		UpdatedAt:      stored.UpdatedAt,
	}

	if stored.TokenEncrypted != "" {
		token, err := s.decryptToken(stored.TokenEncrypted)
		if err != nil {
			return model.SourceConfig{}, err
		}
		cfg.TokenMasked = maskToken(token)
	}

	if stored.TokenExpiresAt != nil {
		diff := time.Until(*stored.TokenExpiresAt)
		if diff <= tokenWarningWindow {
			cfg.TokenWarning = fmt.Sprintf("Token expires in %d days", int64(diff.Hours()/24))
		}
	}

	return cfg, nil
}

// SetSourceConfig validates and saves a new source configuration, encrypting
// the token when one is supplied, then invalidates the dataset cache so the
// next load fetches from the new source.
func (s *SourceConfigService) SetSourceConfig(req UpdateSourceConfigRequest) error {
	if req.SpreadsheetURL == "" {
		return apperrors.ErrInvalidSpreadsheetURL
	}
	if req.WorksheetGID == "" {
		return apperrors.ErrInvalidWorksheetGID
	}
	if _, err := sheets.ExportURL(sheets.SourceRef{SpreadsheetURL: req.SpreadsheetURL, WorksheetGID: req.WorksheetGID}); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidSpreadsheetURL, err)
	}

	now := time.Now().UTC()
	stored := repository.StoredSourceConfig{
		SpreadsheetURL: req.SpreadsheetURL,
		WorksheetGID:   req.WorksheetGID,
		TokenExpiresAt: req.TokenExpiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Keep the original created_at when updating an existing configuration.
	if existing, err := s.repo.GetSourceConfig(); err == nil {
		stored.CreatedAt = existing.CreatedAt
	}

	if req.Token != "" {
		encrypted, err := s.encryptToken(req.Token)
		if err != nil {
			return err
		}
		stored.TokenEncrypted = encrypted
	}

	if err := s.repo.SaveSourceConfig(stored); err != nil {
		return err
	}

	if s.onChange != nil {
		s.onChange()
	}

	return nil
}

// ActiveRef resolves the source reference used for dataset loads: the saved
// configuration when present (token decrypted), otherwise the environment
// defaults.
func (s *SourceConfigService) ActiveRef() (sheets.SourceRef, error) {
	stored, err := s.repo.GetSourceConfig()
	if errors.Is(err, apperrors.ErrSourceConfigNotFound) {
		if s.defaults.SpreadsheetURL == "" {
			return sheets.SourceRef{}, apperrors.ErrInvalidSpreadsheetURL
		}
		return sheets.SourceRef{
			SpreadsheetURL: s.defaults.SpreadsheetURL,
			WorksheetGID:   s.defaults.WorksheetGID,
		}, nil
	}
	if err != nil {
		return sheets.SourceRef{}, err
	}

	ref := sheets.SourceRef{
		SpreadsheetURL: stored.SpreadsheetURL,
		WorksheetGID:   stored.WorksheetGID,
	}

	if stored.TokenEncrypted != "" {
		ref.Token, err = s.decryptToken(stored.TokenEncrypted)
		if err != nil {
			return sheets.SourceRef{}, err
		}
	}

	return ref, nil
}

func (s *SourceConfigService) fernetKeys() ([]*fernet.Key, error) {
	raw := os.Getenv("FERNET_KEY")
	if raw == "" {
		return nil, apperrors.ErrMissingFernetKey
	}

	keys, err := fernet.DecodeKeys(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMissingFernetKey, err)
	}

	return keys, nil
}

func (s *SourceConfigService) encryptToken(token string) (string, error) {
	keys, err := s.fernetKeys()
	if err != nil {
		return "", err
	}

	encrypted, err := fernet.EncryptAndSign([]byte(token), keys[0])
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToEncryptToken, err)
	}

	return string(encrypted), nil
}

func (s *SourceConfigService) decryptToken(encrypted string) (string, error) {
	keys, err := s.fernetKeys()
	if err != nil {
		return "", err
	}

	// TTL 0: stored tokens do not expire through fernet, expiry is tracked
	// explicitly on the configuration.
	token := fernet.VerifyAndDecrypt([]byte(encrypted), 0, keys)
	if token == nil {
		return "", apperrors.ErrFailedToDecryptToken
	}

	return string(token), nil
}

// maskToken keeps only the last four characters of a token visible.
func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
