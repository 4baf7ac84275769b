package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/adiwarna/identity-admin/internal/assignment"
	"github.com/adiwarna/identity-admin/internal/auth"
	"github.com/adiwarna/identity-admin/internal/businessunit"
	"github.com/adiwarna/identity-admin/internal/functionalrole"
	"github.com/adiwarna/identity-admin/internal/organization"
	"github.com/adiwarna/identity-admin/internal/transport/middleware"
	"github.com/adiwarna/identity-admin/internal/transport/swagger"
	"github.com/adiwarna/identity-admin/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers bundles the HTTP handlers the router mounts. Nil entries are
// skipped so partial wiring (tests, tools) still gets a working router.
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Organization *organization.Handler
	BusinessUnit *businessunit.Handler
	Role         *functionalrole.Handler
	Assignment   *assignment.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, handlers Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if handlers.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", handlers.Auth.Login)
				sr.Post("/refresh", handlers.Auth.RefreshToken)
				sr.Post("/logout", handlers.Auth.Logout)
				sr.Post("/mfa/totp/verify", handlers.Auth.VerifyTOTP)
				sr.Post("/mfa/email-otp", handlers.Auth.RequestEmailOTP)
				sr.Post("/mfa/email-otp/verify", handlers.Auth.VerifyEmailOTP)
			})
		}

		if handlers.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(handlers.Auth.AuthMiddleware)

			pr.Route("/auth/mfa/totp", func(sr chi.Router) {
				sr.Post("/enroll", handlers.Auth.EnrollTOTP)
				sr.Post("/activate", handlers.Auth.ActivateTOTP)
			})
			pr.Delete("/auth/mfa", handlers.Auth.DisableMFA)

			if handlers.User != nil {
				pr.Get("/users/me", handlers.User.GetCurrentUser)

				pr.Route("/users", func(ur chi.Router) {
					ur.Get("/", handlers.User.ListUsers)
					ur.Get("/{id}", handlers.User.GetUser)
					ur.Get("/{id}/memberships", handlers.User.ListMemberships)

					ur.Group(func(ar chi.Router) {
						ar.Use(middleware.RequirePermissions("admin", "manage_users"))
						ar.Post("/", handlers.User.CreateUser)
						ar.Put("/{id}", handlers.User.UpdateUser)
						ar.Post("/{id}/memberships", handlers.User.AssignToBusinessUnit)
						ar.Delete("/{id}/memberships/{unitID}", handlers.User.DeactivateMembership)
					})

					if handlers.Assignment != nil {
						ur.Get("/{id}/available-roles", handlers.Assignment.AvailableRolesForUser)
						ur.Group(func(ar chi.Router) {
							ar.Use(middleware.RequirePermissions("admin", "assign_roles"))
							ar.Post("/{id}/roles/bulk-assign", handlers.Assignment.BulkAssignUser)
						})
					}
				})
			}

			if handlers.Organization != nil {
				pr.Route("/organizations", func(or chi.Router) {
					or.Get("/", handlers.Organization.ListOrganizations)
					or.Get("/{orgID}", handlers.Organization.GetOrganization)

					or.Group(func(ar chi.Router) {
						ar.Use(middleware.RequirePermissions("admin", "manage_organizations"))
						ar.Post("/", handlers.Organization.CreateOrganization)
						ar.Put("/{orgID}", handlers.Organization.UpdateOrganization)
						ar.Delete("/{orgID}", handlers.Organization.DeleteOrganization)
					})

					if handlers.BusinessUnit != nil {
						or.Get("/{orgID}/business-units", handlers.BusinessUnit.ListBusinessUnits)
						or.Group(func(ar chi.Router) {
							ar.Use(middleware.RequirePermissions("admin", "manage_organizations"))
							ar.Post("/{orgID}/business-units", handlers.BusinessUnit.CreateBusinessUnit)
						})
					}

					if handlers.Assignment != nil {
						or.Get("/{orgID}/roles/{roleID}/usage", handlers.Assignment.UsageForOrganizationRole)
						or.Group(func(ar chi.Router) {
							ar.Use(middleware.RequirePermissions("admin", "assign_roles"))
							ar.Post("/{orgID}/roles/bulk-assign", handlers.Assignment.BulkAssignOrganization)
							ar.Post("/{orgID}/roles/disable", handlers.Assignment.DisableOrganizationRole)
						})
					}
				})
			}

			if handlers.BusinessUnit != nil {
				pr.Route("/business-units", func(br chi.Router) {
					br.Get("/{id}", handlers.BusinessUnit.GetBusinessUnit)

					br.Group(func(ar chi.Router) {
						ar.Use(middleware.RequirePermissions("admin", "manage_organizations"))
						ar.Put("/{id}", handlers.BusinessUnit.UpdateBusinessUnit)
						ar.Delete("/{id}", handlers.BusinessUnit.DeleteBusinessUnit)
					})

					if handlers.Assignment != nil {
						br.Get("/{id}/available-roles", handlers.Assignment.AvailableRolesForBusinessUnit)
						br.Get("/{id}/roles/{roleID}/usage", handlers.Assignment.UsageForBusinessUnitRole)
						br.Group(func(ar chi.Router) {
							ar.Use(middleware.RequirePermissions("admin", "assign_roles"))
							ar.Post("/{id}/roles/bulk-assign", handlers.Assignment.BulkAssignBusinessUnit)
							ar.Post("/{id}/roles/disable", handlers.Assignment.DisableBusinessUnitRole)
						})
					}
				})
			}

			if handlers.Role != nil {
				pr.Route("/functional-roles", func(rr chi.Router) {
					rr.Get("/", handlers.Role.ListRoles)
					rr.Get("/{id}", handlers.Role.GetRole)

					rr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequirePermissions("admin", "manage_roles"))
						ar.Post("/", handlers.Role.CreateRole)
						ar.Put("/{id}", handlers.Role.UpdateRole)
						ar.Post("/{id}/activate", handlers.Role.ActivateRole)
						ar.Delete("/{id}", handlers.Role.DeactivateRole)
					})
				})
			}

			if handlers.Assignment != nil {
				pr.Get("/hierarchy", handlers.Assignment.HierarchyView)
			}
		})
	})
}
