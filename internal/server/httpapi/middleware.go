package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/orgvault/orgvault/internal/logging"
	"github.com/orgvault/orgvault/internal/server/auth"
)

type ctxKey string

const (
	userIDKey ctxKey = "user_id"
	orgIDKey  ctxKey = "org_id"
)

// GetUserID extracts the authenticated user id from the request context.
func GetUserID(ctx context.Context) string {
	if v := ctx.Value(userIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetOrgID extracts the authenticated organization id from the request context.
func GetOrgID(ctx context.Context) string {
	if v := ctx.Value(orgIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// Authenticate verifies the Bearer token and stores the actor identity in
// the request context. Every route behind it is implicitly scoped to that
// identity.
func (s *HTTPServer) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			WriteError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "missing bearer token")
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			WriteError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, orgIDKey, claims.OrgID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger logs one line per request.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info(r.Context(), "request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start).String(),
			)
		})
	}
}
