package middleware

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests without a verified access token. It runs
// after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := jwt.ClaimsFromContext(r.Context()); err != nil {
			response.Unauthorized(w, "Missing or invalid access token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentRole swaps the role and department carried by the token for the
// roster's current values, so a demoted head loses DEPT_HEAD scope at once
// instead of when the token expires. Deleted employees get 401. It runs after
// AuthRequired.
func CurrentRole(employees employee.Reader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, "Missing or invalid access token")
				return
			}

			e, err := employees.GetByID(r.Context(), claims.EmployeeID)
			if errors.Is(err, employee.ErrUnknownEmployee) {
				response.Unauthorized(w, "Account no longer exists")
				return
			}
			if err != nil {
				response.HandleError(w, err)
				return
			}

			claims.Role = e.Role
			claims.DepartmentID = e.DepartmentID
			next.ServeHTTP(w, r.WithContext(jwt.WithClaims(r.Context(), claims)))
		})
	}
}
