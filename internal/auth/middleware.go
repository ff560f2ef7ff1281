package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Middleware authenticates the bearer token and stores the resulting
// principal in the request context. Handlers never see unauthenticated
// requests; ownership scoping always starts from this principal.
func Middleware(verifier *Verifier, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeUnauthenticated(w)
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			principal, err := verifier.Verify(token)
			if err != nil {
				logger.Warn().Err(err).Msg("Rejected request with invalid token")
				writeUnauthenticated(w)
				return
			}
			principal.Token = token

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthenticated",
		"message": "You must be signed in to use this feature",
	})
}
