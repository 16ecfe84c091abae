package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rapamazonia/assetregistry/internal/auth"
	"github.com/rapamazonia/assetregistry/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// callerKey is the context key for the authenticated caller.
	callerKey contextKey = "caller"
	// requestIDKey is the context key for the request id.
	requestIDKey contextKey = "request_id"
)

// Caller extracts the authenticated caller from the context.
// The second return is false for unauthenticated requests.
func Caller(ctx context.Context) (*models.User, bool) {
	caller, ok := ctx.Value(callerKey).(*models.User)
	return caller, ok
}

// RequestID extracts the request id from the context, empty if unset.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequireAuth validates the Bearer token and adds the caller to the
// request context. Requests without a valid token get 401.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, auth.ErrMissingToken)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeAuthError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				writeAuthError(w, auth.ErrInvalidToken)
				return
			}

			caller := &models.User{
				ID:          claims.UserID,
				Username:    claims.Username,
				Role:        claims.Role,
				CommitteeID: claims.CommitteeID,
			}
			ctx := context.WithValue(r.Context(), callerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers that are not ADMIN with 403. Must run
// inside RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := Caller(r.Context())
		if !ok {
			writeAuthError(w, auth.ErrMissingToken)
			return
		}
		if caller.Role != models.RoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "admin role required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
