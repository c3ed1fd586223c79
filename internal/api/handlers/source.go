package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/validation"
)

// defaultSnapshotLimit bounds the snapshot listing when no limit is given.
const defaultSnapshotLimit = 20

// SourceHandler handles data source configuration and refresh HTTP requests
type SourceHandler struct {
	sourceConfigService *service.SourceConfigService
	datasetService      *service.DatasetService
}

// NewSourceHandler creates a new SourceHandler
func NewSourceHandler(sourceConfigService *service.SourceConfigService, datasetService *service.DatasetService) *SourceHandler {
	return &SourceHandler{
		sourceConfigService: sourceConfigService,
		datasetService:      datasetService,
	}
}

// GetConfig returns the active source configuration with the token masked
func (h *SourceHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.sourceConfigService.GetSourceConfig()
	if err != nil {
		errorResponse := map[string]string{
			"error":  "Failed to retrieve source configuration",
			"detail": err.Error(),
		}
		respondJSON(w, http.StatusInternalServerError, errorResponse)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

// PutConfig saves a new source configuration and invalidates the dataset cache
func (h *SourceHandler) PutConfig(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateSourceConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "Invalid request body",
			"detail": err.Error(),
		})
		return
	}

	if err := h.sourceConfigService.SetSourceConfig(req); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidSpreadsheetURL),
			errors.Is(err, apperrors.ErrInvalidWorksheetGID):
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, apperrors.ErrMissingFernetKey):
			respondJSON(w, http.StatusInternalServerError, map[string]string{
				"error":  "Token encryption is not configured",
				"detail": err.Error(),
			})
		default:
			respondJSON(w, http.StatusInternalServerError, map[string]string{
				"error":  "Failed to save source configuration",
				"detail": err.Error(),
			})
		}
		return
	}

	cfg, err := h.sourceConfigService.GetSourceConfig()
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

// Refresh forces a refetch of the holdings dataset, bypassing the cache TTL
func (h *SourceHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.datasetService.Refresh(r.Context())
	if err != nil {
		if mce, ok := apperrors.IsMissingColumns(err); ok {
			respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":   "The following required columns are missing from the dataset",
				"details": mce.Columns,
			})
			return
		}

		respondJSON(w, http.StatusBadGateway, map[string]string{
			"error":  "Failed to refresh holdings dataset",
			"detail": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Snapshots lists recent dataset fetch audit records, newest first
func (h *SourceHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	limit, err := validation.ParseLimit(r.URL.Query().Get("limit"), defaultSnapshotLimit)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	snapshots, err := h.datasetService.ListSnapshots(limit)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "Failed to retrieve dataset snapshots",
			"detail": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, snapshots)
}
