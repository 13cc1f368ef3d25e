package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core/pengguna"
)

// Actions and resources consulted by the access policy.
const (
	ActionRead    = "read"
	ActionWrite   = "write"
	ActionSubmit  = "submit"
	ActionResolve = "resolve"

	ResourcePengguna   = "pengguna"
	ResourceGuru       = "guru"
	ResourceKelas      = "kelas"
	ResourceMurid      = "murid"
	ResourcePermintaan = "permintaan"
	ResourceNilai      = "nilai"
	ResourceStats      = "stats"
)

// Allow is the single access policy: every route decision goes through
// here. Per-object scoping (a murid reading only their own rows) is
// enforced by the handlers on top of this.
func Allow(role, action, resource string) bool {
	switch role {
	case pengguna.RoleAdmin:
		return true
	case pengguna.RoleGuru:
		switch action {
		case ActionRead:
			return true
		case ActionWrite:
			return resource == ResourceNilai
		case ActionResolve:
			return resource == ResourcePermintaan
		}
		return false
	case pengguna.RoleMurid:
		switch action {
		case ActionRead:
			// own profile is served by /murid/me, never the murid collection
			return resource == ResourceNilai || resource == ResourceKelas
		case ActionSubmit:
			return resource == ResourcePermintaan
		}
		return false
	}
	return false
}

// policyMiddleware rejects requests whose token role is not allowed to
// perform action on resource.
func policyMiddleware(action, resource string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if Allow(claims.Role, action, resource) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// adminMiddleware shortcuts the policy for admin-only routes.
func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin() {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
