package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// APIKeyHeader carries the gateway key issued to storefront clients.
const APIKeyHeader = "apikey"

// APIKeyAuth middleware rejects requests whose apikey header is not one of
// keys. Preflight requests pass through, since browsers never send custom
// headers on them. With no keys configured every request passes.
func APIKeyAuth(keys []string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get(APIKeyHeader)
			if apiKey == "" {
				writeError(w, http.StatusUnauthorized, "API key required")
				return
			}

			if !knownKey(keys, apiKey) {
				writeError(w, http.StatusForbidden, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func knownKey(keys []string, candidate string) bool {
	for _, k := range keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(candidate)) == 1 {
			return true
		}
	}
	return false
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
