// Package api implements the caption HTTP surface using chi.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starford/figcaption/internal/apperr"
	"github.com/starford/figcaption/internal/checksum"
	"github.com/starford/figcaption/internal/metastore"
	"github.com/starford/figcaption/internal/models"
)

type userCtxKey struct{}

// UserFromContext returns the user AuthMiddleware attached to ctx, or the
// anonymous user.
func UserFromContext(ctx context.Context) models.User {
	if u, ok := ctx.Value(userCtxKey{}).(models.User); ok {
		return u
	}
	return models.Anonymous
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// AuthMiddleware returns middleware that resolves the acting user from a
// Bearer token.
// If enabled is false, every request is anonymous (disabled mode).
// If enabled is true, a request without a token is anonymous and a request
// with an unknown token is rejected.
func AuthMiddleware(enabled bool, users metastore.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(auth, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			u, err := users.UserByTokenHash(r.Context(), checksum.Token(strings.TrimPrefix(auth, "Bearer ")))
			if err != nil {
				if !errors.Is(err, apperr.ErrNotFound) {
					slog.Error("user lookup failed", slog.String("error", err.Error()))
				}
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), *u)))
		})
	}
}

// RequireUser rejects anonymous requests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()).IsAnonymous() {
			writeJSON(w, http.StatusUnauthorized, errorBody("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
