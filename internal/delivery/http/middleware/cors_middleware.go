package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

type CORSMiddleware struct {
	origins []string
}

// NewCORSMiddleware allows every origin when none are configured.
func NewCORSMiddleware(origins []string) *CORSMiddleware {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &CORSMiddleware{origins: origins}
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(m.origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", RequestIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader, "Content-Disposition"}),
	)(next)
}
