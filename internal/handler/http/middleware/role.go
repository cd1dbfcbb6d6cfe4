package middleware

import (
	"net/http"
	"slices"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/jwt"
)

var ErrInsufficientRole = apperror.New(apperror.KindForbidden, "your role does not allow this action")

// RequireRole lets through only the listed roles.
func RequireRole(roles ...employee.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, "Missing or invalid access token")
				return
			}
			if !slices.Contains(roles, claims.Role) {
				response.HandleError(w, ErrInsufficientRole)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is RequireRole(ADMIN).
var RequireAdmin = RequireRole(employee.RoleAdmin)

// LeadRoles oversee other employees.
var LeadRoles = []employee.Role{employee.RoleAdmin, employee.RoleSupervisor, employee.RoleDeptHead}

// RequireLead admits any of LeadRoles.
var RequireLead = RequireRole(LeadRoles...)
