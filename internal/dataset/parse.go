package dataset

import (
	"strconv"
	"strings"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/model"
)

// ParseTable converts raw worksheet rows (header row first) into a holdings
// table.
//
// The header row is validated against model.RequiredColumns with exact,
// case-sensitive matching. When any required column is absent the function
// returns *apperrors.MissingColumnsError listing exactly the missing names in
// required-column order, and no rows are parsed.
//
// The Gain/Loss column is read for presence only; the value of each record is
// recomputed from Market Value and Investment Amount because the source column
// may be stale.
func ParseTable(rows [][]string) (model.HoldingsTable, error) {
	if len(rows) == 0 {
		return nil, &apperrors.MissingColumnsError{Columns: model.RequiredColumns}
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		if _, seen := header[name]; !seen {
			header[name] = i
		}
	}

	var missing []string
	for _, name := range model.RequiredColumns {
		if _, ok := header[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &apperrors.MissingColumnsError{Columns: missing}
	}

	cell := func(row []string, column string) string {
		idx := header[column]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	table := make(model.HoldingsTable, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := model.HoldingRecord{
			ClientID:                 cell(row, "Client ID"),
			ClientName:               cell(row, "Client Name"),
			ProductName:              cell(row, "Product Name"),
			InvestmentAmount:         parseAmount(cell(row, "Investment Amount")),
			MarketValue:              parseAmount(cell(row, "Market Value")),
			Sector:                   cell(row, "Sector"),
			RiskLevel:                cell(row, "Risk Level"),
			AnnualizedExpectedGrowth: parseAmount(cell(row, "Annualized Expected Growth")),
			ActualAnnualGrowth:       parseAmount(cell(row, "Actual Annual Growth")),
		}
		record.GainLoss = record.MarketValue - record.InvestmentAmount
		table = append(table, record)
	}

	return table, nil
}

// parseAmount parses a worksheet cell into a float64, tolerating the currency
// and percentage formatting Google Sheets applies to displayed values.
// Empty or unparseable cells become 0; the dashboard performs no validation
// beyond presence-of-column checks.
func parseAmount(s string) float64 {
	cleaner := strings.NewReplacer("$", "", "%", "", ",", "", " ", "")
	value, err := strconv.ParseFloat(cleaner.Replace(s), 64)
	if err != nil {
		return 0
	}
	return value
}
