package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/validation"
)

// DashboardHandler handles dashboard aggregation HTTP requests.
// It loads the holdings table through the dataset service and runs the
// requested aggregation over it; all heavy lifting lives in the services.
type DashboardHandler struct {
	datasetService   *service.DatasetService
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(datasetService *service.DatasetService, dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		datasetService:   datasetService,
		dashboardService: dashboardService,
	}
}

// loadTable fetches the holdings table and writes the appropriate error
// response when it cannot be loaded. The boolean reports success.
func (h *DashboardHandler) loadTable(w http.ResponseWriter, r *http.Request) (model.HoldingsTable, bool) {
	table, err := h.datasetService.GetTable(r.Context())
	if err == nil {
		return table, true
	}

	if mce, ok := apperrors.IsMissingColumns(err); ok {
		errorResponse := map[string]interface{}{
			"error":   "The following required columns are missing from the dataset",
			"details": mce.Columns,
		}
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse)
		return nil, false
	}

	if errors.Is(err, apperrors.ErrInvalidSpreadsheetURL) {
		errorResponse := map[string]string{
			"error":  "Holdings data source is not configured",
			"detail": err.Error(),
		}
		respondJSON(w, http.StatusServiceUnavailable, errorResponse)
		return nil, false
	}

	errorResponse := map[string]string{
		"error":  "Failed to fetch holdings dataset",
		"detail": err.Error(),
	}
	respondJSON(w, http.StatusBadGateway, errorResponse)
	return nil, false
}

// clientSubset selects the rows for the client query parameter. The parameter
// must be present; a value that matches no rows is a valid empty selection,
// not an error.
func (h *DashboardHandler) clientSubset(w http.ResponseWriter, r *http.Request) (model.HoldingsTable, bool) {
	if !r.URL.Query().Has("client") {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "client parameter is required",
		})
		return nil, false
	}

	table, ok := h.loadTable(w, r)
	if !ok {
		return nil, false
	}

	return h.dashboardService.SelectClient(table, r.URL.Query().Get("client")), true
}

// ClientsResponse represents the distinct client names response
type ClientsResponse struct {
	Clients []string `json:"clients"`
}

// Clients returns the distinct client names for the selection control
func (h *DashboardHandler) Clients(w http.ResponseWriter, r *http.Request) {
	table, ok := h.loadTable(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, ClientsResponse{
		Clients: h.dashboardService.DistinctClients(table),
	})
}

// Holdings returns the full holdings table, or one client's rows when the
// client query parameter is present.
func (h *DashboardHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	table, ok := h.loadTable(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Has("client") {
		table = h.dashboardService.SelectClient(table, r.URL.Query().Get("client"))
	}

	respondJSON(w, http.StatusOK, table)
}

// KpiIndicator is one display-ready KPI: the raw value plus the prefix and
// suffix the frontend renders around it. Value is null when the KPI is
// undefined for an empty selection.
type KpiIndicator struct {
	Label  string   `json:"label"`
	Value  *float64 `json:"value"`
	Prefix string   `json:"prefix,omitempty"`
	Suffix string   `json:"suffix,omitempty"`
}

// KpisResponse represents the KPI response for one client selection
type KpisResponse struct {
	Kpis       model.KpiSet   `json:"kpis"`
	Indicators []KpiIndicator `json:"indicators"`
}

// Kpis computes the KPI set for the selected client
func (h *DashboardHandler) Kpis(w http.ResponseWriter, r *http.Request) {
	subset, ok := h.clientSubset(w, r)
	if !ok {
		return
	}

	kpis := h.dashboardService.ComputeKpis(subset)

	// Round for display only; the raw aggregates stay exact in the engine.
	rounded := model.KpiSet{
		TotalInvestment:    service.Round(kpis.TotalInvestment),
		TotalMarketValue:   service.Round(kpis.TotalMarketValue),
		NetGainLoss:        service.Round(kpis.NetGainLoss),
		TargetAnnualGrowth: service.RoundPtr(kpis.TargetAnnualGrowth),
		ActualAnnualGrowth: service.RoundPtr(kpis.ActualAnnualGrowth),
	}

	respondJSON(w, http.StatusOK, KpisResponse{
		Kpis: rounded,
		Indicators: []KpiIndicator{
			{Label: "Total Investment", Value: &rounded.TotalInvestment, Prefix: "$"},
			{Label: "Market Value", Value: &rounded.TotalMarketValue, Prefix: "$"},
			{Label: "Net Gain/Loss", Value: &rounded.NetGainLoss, Prefix: "$"},
			{Label: "Target Annual Growth", Value: rounded.TargetAnnualGrowth, Suffix: "%"},
			{Label: "Actual Annual Growth", Value: rounded.ActualAnnualGrowth, Suffix: "%"},
		},
	})
}

// RequiredGrowthResponse represents the required-growth computation response.
// Skipped is true when the guarded computation did not run; the remaining
// fields are only present when it did.
type RequiredGrowthResponse struct {
	Skipped              bool     `json:"skipped"`
	RequiredAnnualGrowth *float64 `json:"requiredAnnualGrowth,omitempty"`
	Display              string   `json:"display,omitempty"`
}

// RequiredGrowth back-solves the annual growth rate needed to reach a target
// dollar increase over a number of years for the selected client.
func (h *DashboardHandler) RequiredGrowth(w http.ResponseWriter, r *http.Request) {
	targetIncrease, err := validation.ParseTargetIncrease(r.URL.Query().Get("target_increase"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	years, err := validation.ParseYears(r.URL.Query().Get("years"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	subset, ok := h.clientSubset(w, r)
	if !ok {
		return
	}

	kpis := h.dashboardService.ComputeKpis(subset)

	value, computed := h.dashboardService.ComputeRequiredGrowth(targetIncrease, kpis.TotalInvestment, years)
	if !computed {
		respondJSON(w, http.StatusOK, RequiredGrowthResponse{Skipped: true})
		return
	}

	rounded := service.Round(value)
	respondJSON(w, http.StatusOK, RequiredGrowthResponse{
		Skipped:              false,
		RequiredAnnualGrowth: &rounded,
		Display:              fmt.Sprintf("%.2f%%", value),
	})
}

// AtRisk returns the selected client's underwater positions, worst first
func (h *DashboardHandler) AtRisk(w http.ResponseWriter, r *http.Request) {
	subset, ok := h.clientSubset(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, h.dashboardService.ComputeAtRisk(subset))
}

// Sectors returns the per-sector gain/loss summary for the selected client
func (h *DashboardHandler) Sectors(w http.ResponseWriter, r *http.Request) {
	subset, ok := h.clientSubset(w, r)
	if !ok {
		return
	}

	summary := h.dashboardService.ComputeSectorSummary(subset)
	for i := range summary {
		summary[i].TotalInvested = service.Round(summary[i].TotalInvested)
		summary[i].TotalMarketValue = service.Round(summary[i].TotalMarketValue)
		summary[i].NetGainLoss = service.Round(summary[i].NetGainLoss)
	}

	respondJSON(w, http.StatusOK, summary)
}

// TopHoldings returns the selected client's largest products by invested amount
func (h *DashboardHandler) TopHoldings(w http.ResponseWriter, r *http.Request) {
	limit, err := validation.ParseLimit(r.URL.Query().Get("limit"), service.DefaultTopHoldingsLimit)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	subset, ok := h.clientSubset(w, r)
	if !ok {
		return
	}

	holdings := h.dashboardService.ComputeTopHoldings(subset, limit)
	for i := range holdings {
		holdings[i].TotalInvested = service.Round(holdings[i].TotalInvested)
	}

	respondJSON(w, http.StatusOK, holdings)
}
