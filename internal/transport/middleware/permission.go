package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/center-access/internal"
	"github.com/frahmantamala/center-access/internal/accesscontrol"
	"github.com/go-chi/chi"
)

// PermissionService is the decision surface the guard needs: one
// boolean per (user, center, permission key).
type PermissionService interface {
	Can(ctx context.Context, userID, centerID int64, key string) bool
}

// PermissionGuard protects center-scoped routes. The center comes from
// the {slug} URL parameter, the user from the auth middleware; the
// resolution engine decides.
type PermissionGuard struct {
	authz   PermissionService
	centers accesscontrol.CenterLookup
	logger  *slog.Logger
}

func NewPermissionGuard(authz PermissionService, centers accesscontrol.CenterLookup, logger *slog.Logger) *PermissionGuard {
	return &PermissionGuard{
		authz:   authz,
		centers: centers,
		logger:  logger,
	}
}

// Require denies with 403 unless the caller's membership in the
// center resolves the permission key to allowed. Missing user, missing
// center and resolution failures all deny.
func (g *PermissionGuard) Require(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := internal.UserIDFromContext(r.Context())
			if userID == 0 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			centerID, err := g.centers.IDBySlug(r.Context(), chi.URLParam(r, "slug"))
			if err != nil {
				http.Error(w, "Center not found", http.StatusNotFound)
				return
			}

			if !g.authz.Can(r.Context(), userID, centerID, key) {
				g.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", userID,
					"center_id", centerID,
					"required_permission", key)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
