package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows browser clients from any origin to call the API. Downloads
// expose Content-Disposition so the client can read the artifact name.
var CORS = cors.Handler(cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", "X-Request-Id"},
	ExposedHeaders: []string{"Content-Disposition"},
	MaxAge:         300,
})
