package api

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/linesmerrill/festival-registration-api/flutterwave"
)

// CorsMiddleware allows the listed origins, or any origin when none are set
func CorsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return cors.AllowAll().Handler
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", flutterwave.SignatureHeader},
		MaxAge:         300,
	}).Handler
}
