package auth

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mannuking/Project-Radius/internal/policy"
	"github.com/mannuking/Project-Radius/internal/shared"
)

// SessionMiddleware loads the Redis session into the request context and
// commits it once the handler returns.
func SessionMiddleware(sm *shared.SessionManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sm.Load(r.Context(), r)
			if err != nil {
				logger.Error("session load failed", "error", err)
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			ctx := shared.ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
			if err := sm.Commit(ctx, w, r, sess); err != nil {
				logger.Error("session commit failed", "error", err)
			}
		})
	}
}

// PrincipalMiddleware resolves the session's user into a request principal.
// Requests without a signed-in user pass through without one; handlers that
// need identity reject those themselves.
func PrincipalMiddleware(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || sess.User() == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := uuid.Parse(sess.User())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			u, err := service.Resolve(r.Context(), id)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := policy.ContextWithPrincipal(r.Context(), u.Principal())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
