package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrSnapshotNotFound indicates that no dataset snapshot has been recorded yet.
	ErrSnapshotNotFound = errors.New("dataset snapshot not found")

	// ErrSourceConfigNotFound indicates the data source has not been configured.
	ErrSourceConfigNotFound = errors.New("source configuration not found")

	// ErrDatasetNotLoaded indicates no holdings table has been loaded and the
	// source could not be fetched.
	ErrDatasetNotLoaded = errors.New("holdings dataset not loaded")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidLimit indicates that a limit parameter is not a positive integer.
	ErrInvalidLimit = errors.New("limit must be a positive integer")

	// ErrInvalidTargetIncrease indicates the target_increase parameter is not numeric.
	ErrInvalidTargetIncrease = errors.New("target_increase must be numeric")

	// ErrInvalidYears indicates the years parameter is not numeric.
	ErrInvalidYears = errors.New("years must be numeric")

	// ErrInvalidSpreadsheetURL indicates the configured spreadsheet URL is empty or malformed.
	ErrInvalidSpreadsheetURL = errors.New("spreadsheet URL is required")

	// ErrInvalidWorksheetGID indicates the worksheet GID is missing.
	ErrInvalidWorksheetGID = errors.New("worksheet GID is required")

	// ErrMissingFernetKey indicates the FERNET_KEY environment variable is not
	// set while a source token needs to be stored or read.
	ErrMissingFernetKey = errors.New("FERNET_KEY is not configured")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These errors indicate that an operation failed, but not due
// to missing entities or validation issues.
var (
	// Dataset operation errors
	ErrFailedToFetchDataset   = errors.New("failed to fetch holdings dataset")
	ErrFailedToParseDataset   = errors.New("failed to parse holdings dataset")
	ErrFailedToRecordSnapshot = errors.New("failed to record dataset snapshot")

	// Source configuration operation errors
	ErrFailedToRetrieveSourceConfig = errors.New("failed to retrieve source configuration")
	ErrFailedToSaveSourceConfig     = errors.New("failed to save source configuration")
	ErrFailedToEncryptToken         = errors.New("failed to encrypt source token")
	ErrFailedToDecryptToken         = errors.New("failed to decrypt source token")

	// Snapshot operation errors
	ErrFailedToRetrieveSnapshots = errors.New("failed to retrieve dataset snapshots")
)

// MissingColumnsError reports which required columns were absent from the
// fetched worksheet. The load step refuses to proceed when any required column
// is missing, and the error carries the exact names so the operator can fix
// the sheet.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("dataset is missing required columns: %s", strings.Join(e.Columns, ", "))
}

// IsMissingColumns reports whether err is (or wraps) a MissingColumnsError,
// returning the typed error when it is.
func IsMissingColumns(err error) (*MissingColumnsError, bool) {
	var mce *MissingColumnsError
	if errors.As(err, &mce) {
		return mce, true
	}
	return nil, false
}
