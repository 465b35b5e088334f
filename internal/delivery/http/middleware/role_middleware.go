package middleware

import (
	"net/http"

	"hospital-management/internal/domain/entity"
	"hospital-management/pkg/response"

	"github.com/samber/lo"
)

// RequireRole creates a middleware that checks if the user has any of the required roles.
// Role is read from context (set by AuthMiddleware from JWT claims).
func RequireRole(allowedRoleIDs ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, ok := GetRoleIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			if !lo.Contains(allowedRoleIDs, roleID) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin)(next)
}

// RequireStaff admits admins, doctors and receptionists.
func RequireStaff(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin, entity.RoleIDDoctor, entity.RoleIDReceptionist)(next)
}

// RequireFrontDesk admits admins and receptionists.
func RequireFrontDesk(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin, entity.RoleIDReceptionist)(next)
}

func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDDoctor)(next)
}

func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDPatient)(next)
}
