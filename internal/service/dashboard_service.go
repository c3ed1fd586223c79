package service

import (
	"cmp"
	"math"
	"slices"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/model"
)

// DefaultTopHoldingsLimit is the number of products returned by
// ComputeTopHoldings when the caller does not specify a limit.
const DefaultTopHoldingsLimit = 5

// DashboardService is the aggregation engine behind the holdings dashboard.
// Every method is a pure function over an in-memory holdings table: no state,
// no side effects, safe for concurrent use. The same table can be passed
// through repeated calls because no method mutates its input.
type DashboardService struct{}

// NewDashboardService creates a new DashboardService.
func NewDashboardService() *DashboardService {
	return &DashboardService{}
}

// DistinctClients returns the unique client names in the table in first-seen
// order. This feeds the client selection control of the dashboard frontend.
func (s *DashboardService) DistinctClients(table model.HoldingsTable) []string {
	seen := make(map[string]struct{}, len(table))
	clients := []string{}

	for _, record := range table {
		if _, ok := seen[record.ClientName]; ok {
			continue
		}
		seen[record.ClientName] = struct{}{}
		clients = append(clients, record.ClientName)
	}

	return clients
}

// SelectClient returns the rows whose client name exactly equals clientName,
// preserving original row order. A name with no matching rows yields an empty
// subset, not an error; every downstream aggregate is well-defined on an
// empty subset.
func (s *DashboardService) SelectClient(table model.HoldingsTable, clientName string) model.HoldingsTable {
	subset := model.HoldingsTable{}
	for _, record := range table {
		if record.ClientName == clientName {
			subset = append(subset, record)
		}
	}
	return subset
}

// ComputeKpis calculates the summary scalars for a client subset.
//
// Sums (total investment, total market value, net gain/loss) are 0 on an
// empty subset. The two growth figures are arithmetic means and have no
// defined value on an empty subset; they are returned as nil rather than NaN
// so the undefined state survives JSON serialization as null.
//
// Values are exact floating aggregates; rounding for display happens at the
// response layer, never here.
func (s *DashboardService) ComputeKpis(subset model.HoldingsTable) model.KpiSet {
	kpis := model.KpiSet{}

	if len(subset) == 0 {
		return kpis
	}

	var expectedSum, actualSum float64
	for _, record := range subset {
		kpis.TotalInvestment += record.InvestmentAmount
		kpis.TotalMarketValue += record.MarketValue
		expectedSum += record.AnnualizedExpectedGrowth
		actualSum += record.ActualAnnualGrowth
	}

	kpis.NetGainLoss = kpis.TotalMarketValue - kpis.TotalInvestment

	n := float64(len(subset))
	target := expectedSum / n
	actual := actualSum / n
	kpis.TargetAnnualGrowth = &target
	kpis.ActualAnnualGrowth = &actual

	return kpis
}

// ComputeRequiredGrowth back-solves the annual growth rate (in percent)
// needed to gain targetIncrease over the given number of years on
// totalInvestment:
//
//	((targetIncrease / totalInvestment) ^ (1/years) - 1) * 100
//
// The computation is guarded, not validated: when targetIncrease,
// totalInvestment or years is not positive the result is simply skipped and
// ok is false. A skipped computation is not an error and must not surface as
// one.
func (s *DashboardService) ComputeRequiredGrowth(targetIncrease, totalInvestment, years float64) (value float64, ok bool) {
	if targetIncrease <= 0 || totalInvestment <= 0 || years <= 0 {
		return 0, false
	}
	return (math.Pow(targetIncrease/totalInvestment, 1/years) - 1) * 100, true
}

// ComputeAtRisk returns the subset's underwater positions: rows whose market
// value has fallen below the invested amount. Each returned record carries a
// freshly recomputed gain/loss, and results are sorted ascending by that
// gain/loss so the worst position comes first. The sort is stable; equal
// losses keep their original row order.
func (s *DashboardService) ComputeAtRisk(subset model.HoldingsTable) model.HoldingsTable {
	atRisk := model.HoldingsTable{}
	for _, record := range subset {
		if record.MarketValue < record.InvestmentAmount {
			record.GainLoss = record.MarketValue - record.InvestmentAmount
			atRisk = append(atRisk, record)
		}
	}

	slices.SortStableFunc(atRisk, func(a, b model.HoldingRecord) int {
		return cmp.Compare(a.GainLoss, b.GainLoss)
	})

	return atRisk
}

// ComputeSectorSummary groups the subset by sector, summing invested amount
// and market value per sector and deriving the net gain/loss, then sorts
// descending by net gain/loss. Groups are built in first-seen order and the
// sort is stable, so sectors with equal net gain/loss stay in first-seen
// order.
func (s *DashboardService) ComputeSectorSummary(subset model.HoldingsTable) []model.SectorAggregate {
	index := make(map[string]int, len(subset))
	summary := []model.SectorAggregate{}

	for _, record := range subset {
		i, ok := index[record.Sector]
		if !ok {
			i = len(summary)
			index[record.Sector] = i
			summary = append(summary, model.SectorAggregate{Sector: record.Sector})
		}
		summary[i].TotalInvested += record.InvestmentAmount
		summary[i].TotalMarketValue += record.MarketValue
	}

	for i := range summary {
		summary[i].NetGainLoss = summary[i].TotalMarketValue - summary[i].TotalInvested
	}

	slices.SortStableFunc(summary, func(a, b model.SectorAggregate) int {
		return cmp.Compare(b.NetGainLoss, a.NetGainLoss)
	})

	return summary
}

// ComputeTopHoldings groups the subset by product name, sums the invested
// amount per product, sorts descending by that total and truncates to limit.
// Fewer distinct products than the limit returns all of them without padding.
// A non-positive limit falls back to DefaultTopHoldingsLimit.
func (s *DashboardService) ComputeTopHoldings(subset model.HoldingsTable, limit int) []model.HoldingAggregate {
	if limit <= 0 {
		limit = DefaultTopHoldingsLimit
	}

	index := make(map[string]int, len(subset))
	holdings := []model.HoldingAggregate{}

	for _, record := range subset {
		i, ok := index[record.ProductName]
		if !ok {
			i = len(holdings)
			index[record.ProductName] = i
			holdings = append(holdings, model.HoldingAggregate{ProductName: record.ProductName})
		}
		holdings[i].TotalInvested += record.InvestmentAmount
	}

	slices.SortStableFunc(holdings, func(a, b model.HoldingAggregate) int {
		return cmp.Compare(b.TotalInvested, a.TotalInvested)
	})

	if len(holdings) > limit {
		holdings = holdings[:limit]
	}

	return holdings
}
