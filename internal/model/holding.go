package model

// RequiredColumns lists the column headers the source worksheet must contain,
// in the order they are reported when missing. Matching is exact and
// case-sensitive.
var RequiredColumns = []string{
	"Client ID",
	"Client Name",
	"Product Name",
	"Investment Amount",
	"Market Value",
	"Gain/Loss",
	"Sector",
	"Risk Level",
	"Annualized Expected Growth",
	"Actual Annual Growth",
}

// HoldingRecord represents one row of the holdings worksheet.
// GainLoss is always recomputed from MarketValue and InvestmentAmount during
// load; the source column of the same name may be stale and is never trusted.
type HoldingRecord struct {
	ClientID                 string  `json:"clientId"`
	ClientName               string  `json:"clientName"`
	ProductName              string  `json:"productName"`
	InvestmentAmount         float64 `json:"investmentAmount"`
	MarketValue              float64 `json:"marketValue"`
	GainLoss                 float64 `json:"gainLoss"`
	Sector                   string  `json:"sector"`
	RiskLevel                string  `json:"riskLevel"`
	AnnualizedExpectedGrowth float64 `json:"annualizedExpectedGrowth"`
	ActualAnnualGrowth       float64 `json:"actualAnnualGrowth"`
}

// HoldingsTable is the full ordered holdings dataset as loaded from the
// source. It is immutable after load; consumers receive copies.
type HoldingsTable []HoldingRecord

// Clone returns a deep copy of the table so callers can never mutate the
// cached dataset through a returned slice.
func (t HoldingsTable) Clone() HoldingsTable {
	if t == nil {
		return nil
	}
	out := make(HoldingsTable, len(t))
	copy(out, t)
	return out
}

// KpiSet contains the summary scalars for one client's holdings.
// The two growth figures are arithmetic means and are nil when the subset is
// empty: an empty selection has no defined mean, and nil serializes as JSON
// null rather than NaN.
type KpiSet struct {
	TotalInvestment    float64  `json:"totalInvestment"`
	TotalMarketValue   float64  `json:"totalMarketValue"`
	NetGainLoss        float64  `json:"netGainLoss"`
	TargetAnnualGrowth *float64 `json:"targetAnnualGrowth"` // mean of Annualized Expected Growth
	ActualAnnualGrowth *float64 `json:"actualAnnualGrowth"` // mean of Actual Annual Growth
}

// SectorAggregate represents the summed position of one sector within a
// client subset.
type SectorAggregate struct {
	Sector           string  `json:"sector"`
	TotalInvested    float64 `json:"totalInvested"`
	TotalMarketValue float64 `json:"totalMarketValue"`
	NetGainLoss      float64 `json:"netGainLoss"`
}

// HoldingAggregate represents the total invested amount for one product
// within a client subset. Used for the top-holdings breakdown.
type HoldingAggregate struct {
	ProductName   string  `json:"productName"`
	TotalInvested float64 `json:"totalInvested"`
}
