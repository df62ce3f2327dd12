package middleware

import (
	"log/slog"
	"net/http"

	"github.com/freshnest/backoffice/internal"
)

// RequireRoles creates a middleware that lets the request through only when
// the authenticated user's role matches one of the given roles.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := internal.UserIDFromContext(r.Context())
			if userID == 0 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			role := internal.RoleFromContext(r.Context())
			allowed := false
			for _, required := range roles {
				if role == required {
					allowed = true
					break
				}
			}

			if !allowed {
				slog.Warn("access denied: user lacks required role",
					"user_id", userID,
					"role", role,
					"required_roles", roles)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
