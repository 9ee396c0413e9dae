package middleware

import (
	"net/http"

	"feedbackhub/internal/domain/auth"
	"feedbackhub/internal/transport/http/api"
)

// RequireAction gates routes whose permission depends only on the caller's
// role. Record-level checks (confidentiality, ownership) stay in the
// handlers, where the record is at hand.
func RequireAction(action auth.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if !auth.CanPerform(user, action, auth.Resource{}) {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
