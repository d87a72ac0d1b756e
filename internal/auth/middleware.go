package auth

import (
	"context"
	"net/http"
)

// ctxUserKey is the context key type for storing the authenticated user.
type ctxUserKey struct{}

// Principal is placed into the request context by the middleware.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// FromContext returns the authenticated principal, or nil for guests.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(ctxUserKey{}).(*Principal)
	return p
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, p)
}

// RequireAuth enforces a valid JWT for a user that still exists.
func RequireAuth(t *Tokens, users *Users) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := t.FromRequest(r)
			if tokenStr == "" {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			claims, err := t.Parse(tokenStr)
			if err != nil {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			// Ensure user still exists
			if _, err := users.FindByID(r.Context(), claims.ID); err != nil {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			ctx := WithPrincipal(r.Context(), &Principal{ID: claims.ID, Username: claims.Username})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth decorates the request with the user when a valid token is
// present. It never rejects; guests pass through untouched.
func OptionalAuth(t *Tokens, users *Users) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := t.FromRequest(r); tok != "" {
				if claims, err := t.Parse(tok); err == nil {
					if u, err := users.FindByID(r.Context(), claims.ID); err == nil {
						r = r.WithContext(WithPrincipal(r.Context(), &Principal{ID: u.ID, Username: u.Username}))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
