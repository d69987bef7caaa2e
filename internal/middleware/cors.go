package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the SPA origin with credentials so the session cookies travel
// on cross-origin requests. Wildcard origins are incompatible with
// AllowCredentials, so origins must be explicit.
func CORS(origins []string) func(http.Handler) http.Handler {
	handler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		MaxAge:           3600,
		AllowCredentials: true,
	})

	return handler.Handler
}
