// Package validation parses and validates user-supplied query parameters.
package validation

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/apperrors"
)

// ParseLimit parses a limit query parameter. An empty value falls back to
// defaultLimit; anything else must be a positive integer.
func ParseLimit(raw string, defaultLimit int) (int, error) {
	if raw == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidLimit, raw)
	}

	return limit, nil
}

// ParseTargetIncrease parses the target_increase query parameter.
// The value must be numeric and finite; whether it is positive is decided by
// the guarded required-growth computation, not here.
func ParseTargetIncrease(raw string) (float64, error) {
	value, err := parseFinite(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidTargetIncrease, raw)
	}
	return value, nil
}

// ParseYears parses the years query parameter. Same policy as
// ParseTargetIncrease: numeric and finite here, positivity guarded downstream.
func ParseYears(raw string) (float64, error) {
	value, err := parseFinite(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidYears, raw)
	}
	return value, nil
}

func parseFinite(raw string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("value is not finite")
	}
	return value, nil
}
