package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/center-access/internal/accesscontrol"
	"github.com/frahmantamala/center-access/internal/auth"
	"github.com/frahmantamala/center-access/internal/center"
	"github.com/frahmantamala/center-access/internal/membership"
	"github.com/frahmantamala/center-access/internal/transport/middleware"
	"github.com/frahmantamala/center-access/internal/transport/swagger"
	"github.com/frahmantamala/center-access/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RegisterAllRoutes wires every handler into the router. Center-scoped
// routes live under /centers/{slug}; the permission guard resolves the
// caller's membership in that center against the engine.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	centerHandler *center.Handler,
	membershipHandler *membership.Handler,
	authzHandler *accesscontrol.Handler,
	guard *middleware.PermissionGuard,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// OpenAPI document and Swagger UI at root, outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
			sr.Post("/logout", authHandler.Logout)
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", userHandler.GetCurrentUser)
			pr.Get("/permissions", authzHandler.ListCatalog)

			pr.Route("/centers", func(cr chi.Router) {
				cr.Post("/", centerHandler.Create)
				cr.Get("/", centerHandler.List)

				cr.Route("/{slug}", func(sr chi.Router) {
					sr.Get("/", centerHandler.Get)
					sr.Get("/me/permissions", authzHandler.GetMyPermissions)

					sr.Group(func(gr chi.Router) {
						gr.Use(guard.Require(accesscontrol.PermCenterSettings))
						gr.Patch("/", centerHandler.Update)
					})

					sr.Route("/members", func(mr chi.Router) {
						// Accepting is the invited user's own action,
						// no center permission required.
						mr.Post("/{membershipID}/accept", membershipHandler.Accept)

						mr.Group(func(gr chi.Router) {
							gr.Use(guard.Require(accesscontrol.PermMemberInvite))
							gr.Post("/", membershipHandler.Invite)
						})

						mr.Group(func(gr chi.Router) {
							gr.Use(guard.Require(accesscontrol.PermMemberSuspend))
							gr.Post("/{membershipID}/suspend", membershipHandler.Suspend)
							gr.Post("/{membershipID}/reinstate", membershipHandler.Reinstate)
						})

						mr.Group(func(gr chi.Router) {
							gr.Use(guard.Require(accesscontrol.PermMemberManage))
							gr.Get("/", membershipHandler.List)
							gr.Put("/{membershipID}/overrides/{key}", authzHandler.SetOverride)
							gr.Delete("/{membershipID}/overrides/{key}", authzHandler.ClearOverride)
						})
					})
				})
			})
		})
	})
}
