package service

import "math"

// RoundingPrecision is the multiplier used to round display values to two
// decimal places (0.01 precision).
const RoundingPrecision = 100

// Round rounds a float64 value to two decimal places using the package
// RoundingPrecision constant. It is applied when building API responses so
// monetary and percentage values render consistently; the aggregation engine
// itself always works on exact values.
//
// Example:
//
//	Round(123.456789)  // returns 123.46
//	Round(14.4714)     // returns 14.47
func Round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}

// RoundPtr rounds through a pointer, preserving nil. Used for mean KPIs where
// nil means the value is undefined for an empty selection.
func RoundPtr(value *float64) *float64 {
	if value == nil {
		return nil
	}
	rounded := Round(*value)
	return &rounded
}
