package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const userKey contextKey = "userHandle"

// Identity resolves the acting user's handle from the X-User header,
// falling back to the configured default user. This is identity plumbing
// for a single-user demo, not an authentication boundary.
func Identity(defaultUser string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handle := r.Header.Get("X-User")
			if handle == "" {
				handle = defaultUser
			}
			ctx := context.WithValue(r.Context(), userKey, handle)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserHandle returns the handle Identity stored on the request context.
func UserHandle(r *http.Request) string {
	if h, ok := r.Context().Value(userKey).(string); ok {
		return h
	}
	return ""
}
