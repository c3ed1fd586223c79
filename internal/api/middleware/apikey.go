package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/api/response"
)

// APIKeyMiddleware guards operator-only endpoints (source configuration,
// forced refresh) with the INTERNAL_API_KEY environment variable. Requests
// must present the key in the X-API-Key header.
//
// When INTERNAL_API_KEY is not set the guard rejects everything: an
// unconfigured key must fail closed, not open.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := os.Getenv("INTERNAL_API_KEY")
		if expected == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "API key not configured")
			return
		}

		provided := r.Header.Get("X-API-Key")
		if provided == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
