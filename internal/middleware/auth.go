package middleware

import (
	"context"
	"net/http"

	"github.com/ayushd/todo-list/backend/internal/auth"
	"github.com/ayushd/todo-list/backend/internal/httpx"
)

type contextKey struct{}

var userIDKey contextKey

// UserID returns the authenticated user's id from the request context,
// or "" when the request did not pass RequireAuth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// RequireAuth validates the session cookie and injects the bound user
// id into the request context. Missing, expired, and destroyed sessions
// all produce the same 401.
func RequireAuth(sessions auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil {
				httpx.Fail(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			userID, err := sessions.Validate(r.Context(), cookie.Value)
			if err != nil || userID == "" {
				httpx.Fail(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
