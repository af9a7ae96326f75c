package auth

import (
	"log/slog"
	"net/http"
)

// RoleAuthorization provides route-level gates on top of the access policy
// functions. Handlers still re-check fine-grained rules (ownership, paid
// state); these middlewares only cut off whole route groups by role.
type RoleAuthorization struct {
	logger *slog.Logger
}

func NewRoleAuthorization(logger *slog.Logger) *RoleAuthorization {
	return &RoleAuthorization{logger: logger}
}

func (ra *RoleAuthorization) require(check func(Actor) bool, what string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !check(actor) {
				ra.logger.WarnContext(r.Context(), "access denied",
					"user_id", actor.ID,
					"role", actor.Role,
					"required", what)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RoleAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.require(Actor.IsAdmin, "admin")
}

func (ra *RoleAuthorization) RequireStaff() func(http.Handler) http.Handler {
	return ra.require(Actor.IsStaff, "staff")
}
