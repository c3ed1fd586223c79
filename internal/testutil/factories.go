package testutil

import (
	"github.com/google/uuid"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/model"
)

// MakeID returns a fresh UUID string for test entities.
func MakeID() string {
	return uuid.New().String()
}

// HoldingBuilder provides a fluent interface for creating test holding records.
//
// Example usage:
//
//	// Simple creation with defaults
//	record := testutil.NewHolding().Build()
//
//	// Customized record
//	record := testutil.NewHolding().
//	    WithClient("Alice Johnson").
//	    WithProduct("Tech Growth Fund").
//	    WithAmounts(10000, 12000).
//	    WithSector("Tech").
//	    Build()
type HoldingBuilder struct {
	record model.HoldingRecord
}

// NewHolding creates a HoldingBuilder with sensible defaults.
func NewHolding() *HoldingBuilder {
	return &HoldingBuilder{
		record: model.HoldingRecord{
			ClientID:                 MakeID(),
			ClientName:               "Test Client",
			ProductName:              "Test Product",
			InvestmentAmount:         1000,
			MarketValue:              1100,
			Sector:                   "Tech",
			RiskLevel:                "Medium",
			AnnualizedExpectedGrowth: 5,
			ActualAnnualGrowth:       4,
		},
	}
}

// WithClient sets the client name.
func (b *HoldingBuilder) WithClient(name string) *HoldingBuilder {
	b.record.ClientName = name
	return b
}

// WithClientID sets the client ID.
func (b *HoldingBuilder) WithClientID(id string) *HoldingBuilder {
	b.record.ClientID = id
	return b
}

// WithProduct sets the product name.
func (b *HoldingBuilder) WithProduct(name string) *HoldingBuilder {
	b.record.ProductName = name
	return b
}

// WithAmounts sets the invested amount and current market value.
func (b *HoldingBuilder) WithAmounts(invested, marketValue float64) *HoldingBuilder {
	b.record.InvestmentAmount = invested
	b.record.MarketValue = marketValue
	return b
}

// WithSector sets the sector.
func (b *HoldingBuilder) WithSector(sector string) *HoldingBuilder {
	b.record.Sector = sector
	return b
}

// WithRisk sets the risk level label.
func (b *HoldingBuilder) WithRisk(level string) *HoldingBuilder {
	b.record.RiskLevel = level
	return b
}

// WithGrowth sets the expected and actual annual growth percentages.
func (b *HoldingBuilder) WithGrowth(expected, actual float64) *HoldingBuilder {
	b.record.AnnualizedExpectedGrowth = expected
	b.record.ActualAnnualGrowth = actual
	return b
}

// Build returns the record with gain/loss derived from the amounts.
func (b *HoldingBuilder) Build() model.HoldingRecord {
	record := b.record
	record.GainLoss = record.MarketValue - record.InvestmentAmount
	return record
}
