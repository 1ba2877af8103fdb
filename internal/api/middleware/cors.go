package middleware

import (
	"net/http"
)

// CORS returns a middleware that sets Cross-Origin Resource Sharing headers.
// It supports a strict allowed origins list; "*" in the configuration allows
// all origins. An empty list falls back to common development origins.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool)
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	if len(allowedOrigins) == 0 {
		allowed["http://localhost:3000"] = true
		allowed["http://localhost:5173"] = true
		allowed["http://localhost:8080"] = true
		allowed["http://127.0.0.1:3000"] = true
		allowed["http://127.0.0.1:8080"] = true
	}
	allowAll := allowed["*"]

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				if allowAll || allowed[origin] {
					w.Header().Set("Access-Control-Allow-Origin", origin)
				}
				// Unknown origins get no header; the browser blocks them.
			} else {
				// No Origin header (curl, backend-to-backend).
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "600")
			w.Header().Set("Vary", "Origin, Access-Control-Request-Method, Access-Control-Request-Headers")

			if r.Method == http.MethodOptions {
				w.Header().Set("Allow", "GET, OPTIONS")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
