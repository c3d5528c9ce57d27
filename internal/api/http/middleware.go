package http

import (
	"context"
	"net/http"
	"strings"

	"nestio-backend/internal/domain"
	"nestio-backend/internal/security"
)

type contextKey string

const callerKey contextKey = "caller"

// CallerFromContext returns the request's caller. The zero Caller is an
// anonymous public request.
func CallerFromContext(ctx context.Context) domain.Caller {
	if c, ok := ctx.Value(callerKey).(domain.Caller); ok {
		return c
	}
	return domain.Caller{}
}

// Authenticate resolves an optional bearer token into a Caller. Requests
// without a token pass through as anonymous; a present but invalid token is
// rejected.
func Authenticate(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			raw := strings.TrimPrefix(header, "Bearer ")
			claims, err := tokens.ValidateToken(raw)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid or expired token"})
				return
			}
			caller := domain.Caller{UserID: claims.UserID, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey, caller)))
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if CallerFromContext(r.Context()).Anonymous() {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
			return
		}
		next(w, r)
	}
}
