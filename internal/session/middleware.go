package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ddc-crew/tournament-planner/internal/logging"
)

type contextKey string

const userIDContextKey contextKey = "session_user_id"

// RequireUser guards protected routes. It resolves the session to a user id
// and injects it into the request context; anonymous requests are redirected
// to the login page without invoking the protected handler. Session-store
// failures are logged and treated as "not authenticated".
func RequireUser(manager *Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := manager.Load(r)

			userID, ok, err := sess.UserID(r.Context())
			if err != nil {
				logging.GetLoggerFromContext(r.Context()).Warn("session lookup failed", "error", err.Error())
			}
			if err != nil || !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the identity injected by RequireUser. The second
// return is false outside a protected route.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDContextKey).(uuid.UUID)
	return id, ok
}
