package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/api/handlers"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/dataset"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/testutil"
)

const testFernetKey = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="

func newSourceHandler(t *testing.T, client *testutil.MockSheetClient) *handlers.SourceHandler {
	t.Helper()

	db := testutil.SetupTestDB(t)
	snapshotRepo := repository.NewSnapshotRepository(db)
	loader := dataset.NewLoader(client, time.Hour, snapshotRepo)
	sourceConfigService := testutil.NewTestSourceConfigService(t, db, loader.Invalidate)
	datasetService := service.NewDatasetService(loader, sourceConfigService, snapshotRepo)

	return handlers.NewSourceHandler(sourceConfigService, datasetService)
}

// TestSourceHandler_GetConfig tests configuration retrieval over HTTP.
//
// WHY: The admin page reads this endpoint; it must never leak a raw token
// and must report the environment defaults before anything is saved.
func TestSourceHandler_GetConfig(t *testing.T) {
	t.Run("returns the unconfigured defaults", func(t *testing.T) {
		handler := newSourceHandler(t, testutil.NewMockSheetClient())

		req := httptest.NewRequest(http.MethodGet, "/api/source/config", nil)
		w := httptest.NewRecorder()

		handler.GetConfig(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.SourceConfig
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if response.Configured {
			t.Error("Expected configured=false before any save")
		}
		if response.SpreadsheetURL != testutil.TestSourceRef.SpreadsheetURL {
			t.Errorf("Expected default spreadsheet URL, got %s", response.SpreadsheetURL)
		}
	})

	t.Run("never includes the raw token", func(t *testing.T) {
		t.Setenv("FERNET_KEY", testFernetKey)
		handler := newSourceHandler(t, testutil.NewMockSheetClient())

		body, _ := json.Marshal(service.UpdateSourceConfigRequest{
			SpreadsheetURL: "https://docs.google.com/spreadsheets/d/abc123/edit",
			WorksheetGID:   "0",
			Token:          "super-secret-token-4321",
		})
		putReq := httptest.NewRequest(http.MethodPut, "/api/source/config", bytes.NewReader(body))
		putW := httptest.NewRecorder()
		handler.PutConfig(putW, putReq)
		if putW.Code != http.StatusOK {
			t.Fatalf("PutConfig: expected status 200, got %d: %s", putW.Code, putW.Body.String())
		}

		req := httptest.NewRequest(http.MethodGet, "/api/source/config", nil)
		w := httptest.NewRecorder()
		handler.GetConfig(w, req)

		if bytes.Contains(w.Body.Bytes(), []byte("super-secret-token-4321")) {
			t.Error("Raw token leaked in the config response")
		}

		var response model.SourceConfig
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.TokenMasked != "****4321" {
			t.Errorf("Expected masked token ****4321, got %q", response.TokenMasked)
		}
	})
}

// TestSourceHandler_PutConfig tests configuration updates over HTTP.
//
// WHY: Saving a bad source would break the whole dashboard, so validation
// failures must come back as 400 with the reason, and a save without an
// encryption key must not half-persist a token.
func TestSourceHandler_PutConfig(t *testing.T) {
	t.Run("saves a valid configuration", func(t *testing.T) {
		handler := newSourceHandler(t, testutil.NewMockSheetClient())

		body, _ := json.Marshal(service.UpdateSourceConfigRequest{
			SpreadsheetURL: "https://docs.google.com/spreadsheets/d/new-sheet/edit",
			WorksheetGID:   "5",
		})
		req := httptest.NewRequest(http.MethodPut, "/api/source/config", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.PutConfig(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.SourceConfig
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if !response.Configured {
			t.Error("Expected configured=true after save")
		}
		if response.WorksheetGID != "5" {
			t.Errorf("Expected worksheet GID 5, got %s", response.WorksheetGID)
		}
	})

	t.Run("returns 400 for a non-spreadsheet URL", func(t *testing.T) {
		handler := newSourceHandler(t, testutil.NewMockSheetClient())

		body, _ := json.Marshal(service.UpdateSourceConfigRequest{
			SpreadsheetURL: "https://example.com/data.csv",
			WorksheetGID:   "0",
		})
		req := httptest.NewRequest(http.MethodPut, "/api/source/config", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.PutConfig(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for a malformed body", func(t *testing.T) {
		handler := newSourceHandler(t, testutil.NewMockSheetClient())

		req := httptest.NewRequest(http.MethodPut, "/api/source/config", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()

		handler.PutConfig(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 500 when a token arrives without an encryption key", func(t *testing.T) {
		t.Setenv("FERNET_KEY", "")
		handler := newSourceHandler(t, testutil.NewMockSheetClient())

		body, _ := json.Marshal(service.UpdateSourceConfigRequest{
			SpreadsheetURL: "https://docs.google.com/spreadsheets/d/abc123/edit",
			WorksheetGID:   "0",
			Token:          "secret",
		})
		req := httptest.NewRequest(http.MethodPut, "/api/source/config", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.PutConfig(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected status 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}

// TestSourceHandler_Refresh tests the forced refresh endpoint.
//
// WHY: Operators hit this after fixing the worksheet; the response must
// confirm what was fetched, and a still-broken sheet must answer 422 with
// the offending columns.
func TestSourceHandler_Refresh(t *testing.T) {
	t.Run("refetches and reports counts", func(t *testing.T) {
		client := testutil.NewMockSheetClient()
		handler := newSourceHandler(t, client)

		req := httptest.NewRequest(http.MethodPost, "/api/source/refresh", nil)
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var response service.RefreshResult
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if response.RowCount != 4 {
			t.Errorf("Expected row count 4, got %d", response.RowCount)
		}
		if response.ClientCount != 2 {
			t.Errorf("Expected client count 2, got %d", response.ClientCount)
		}
		if client.FetchCount != 1 {
			t.Errorf("Expected exactly one fetch, got %d", client.FetchCount)
		}
	})

	t.Run("returns 422 when columns are missing", func(t *testing.T) {
		client := testutil.NewMockSheetClient()
		client.MockRows = testutil.WorksheetWithoutColumns("Market Value")
		handler := newSourceHandler(t, client)

		req := httptest.NewRequest(http.MethodPost, "/api/source/refresh", nil)
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("Expected status 422, got %d: %s", w.Code, w.Body.String())
		}

		var response struct {
			Details []string `json:"details"`
		}
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(response.Details) != 1 || response.Details[0] != "Market Value" {
			t.Errorf("Expected details [Market Value], got %v", response.Details)
		}
	})

	t.Run("returns 502 when the fetch fails", func(t *testing.T) {
		client := testutil.NewMockSheetClient()
		client.MockError = errors.New("connection refused")
		handler := newSourceHandler(t, client)

		req := httptest.NewRequest(http.MethodPost, "/api/source/refresh", nil)
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected status 502, got %d: %s", w.Code, w.Body.String())
		}
	})
}

// TestSourceHandler_Snapshots tests the fetch audit listing.
//
// WHY: The audit page is how operators confirm refreshes happened; after a
// refresh the endpoint must show the recorded snapshot.
func TestSourceHandler_Snapshots(t *testing.T) {
	t.Run("lists snapshots after a refresh", func(t *testing.T) {
		handler := newSourceHandler(t, testutil.NewMockSheetClient())

		refreshReq := httptest.NewRequest(http.MethodPost, "/api/source/refresh", nil)
		refreshW := httptest.NewRecorder()
		handler.Refresh(refreshW, refreshReq)
		if refreshW.Code != http.StatusOK {
			t.Fatalf("Refresh: expected status 200, got %d: %s", refreshW.Code, refreshW.Body.String())
		}

		req := httptest.NewRequest(http.MethodGet, "/api/source/snapshots", nil)
		w := httptest.NewRecorder()

		handler.Snapshots(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.DatasetSnapshot
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if len(response) != 1 {
			t.Fatalf("Expected 1 snapshot, got %d", len(response))
		}
		if response[0].RowCount != 4 || response[0].ClientCount != 2 {
			t.Errorf("Unexpected snapshot: %+v", response[0])
		}
	})

	t.Run("returns an empty array before any fetch", func(t *testing.T) {
		handler := newSourceHandler(t, testutil.NewMockSheetClient())

		req := httptest.NewRequest(http.MethodGet, "/api/source/snapshots", nil)
		w := httptest.NewRecorder()

		handler.Snapshots(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		if body := w.Body.String(); body != "[]\n" {
			t.Errorf("Expected empty JSON array, got %q", body)
		}
	})

	t.Run("returns 400 for an invalid limit", func(t *testing.T) {
		handler := newSourceHandler(t, testutil.NewMockSheetClient())

		req := testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/source/snapshots",
			map[string]string{"limit": "0"},
		)
		w := httptest.NewRecorder()

		handler.Snapshots(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}
