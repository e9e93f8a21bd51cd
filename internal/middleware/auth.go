package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Lixing-Zhang/lunch-order/internal/auth"
)

// TokenVerifier turns a bearer token into an admin session
type TokenVerifier interface {
	Verify(token string) (auth.Session, error)
}

// AdminAuth requires "Authorization: Bearer <token>" and stores the verified
// session in the request context for auth.SessionFromContext.
func AdminAuth(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				unauthorized(w, "invalid authorization format, use 'Bearer <token>'")
				return
			}

			session, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				unauthorized(w, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
