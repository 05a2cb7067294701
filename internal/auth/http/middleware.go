package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskbridge/taskbridge/internal/auth/domain"
	"github.com/taskbridge/taskbridge/internal/auth/service"
	"github.com/taskbridge/taskbridge/pkg/authapi"
	"github.com/taskbridge/taskbridge/pkg/jwtx"
	"github.com/taskbridge/taskbridge/pkg/slogx"
)

type contextKey string

const (
	accountContextKey contextKey = "auth.account"
	tokenContextKey   contextKey = "auth.token"
)

// AccountFromContext returns the authenticated account attached by
// requireAuth. The bool is false on unguarded routes.
func AccountFromContext(ctx context.Context) (domain.Account, bool) {
	acc, ok := ctx.Value(accountContextKey).(domain.Account)
	return acc, ok
}

// tokenFromContext returns the raw bearer token the guard verified.
func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// requireAuth verifies the bearer access token, resolves its subject, and
// attaches both to the request context. Expiry gets its own message so
// clients know to re-login; every other verification failure shares one.
func (rt *Router) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := slogx.FromContext(ctx)

		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			authapi.ErrNoToken.Write(w)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			authapi.ErrNoToken.Write(w)
			return
		}

		claims, err := rt.codec.VerifyAccess(token)
		if err != nil {
			if errors.Is(err, jwtx.ErrExpired) {
				authapi.ErrSessionExpired.Write(w)
				return
			}
			log.Info("bearer token rejected", slog.Any("error", err))
			authapi.ErrTokenFailed.Write(w)
			return
		}

		acc, err := rt.Auth.CurrentAccount(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, service.ErrAccountNotFound) {
				authapi.ErrTokenFailed.Write(w)
				return
			}
			log.Error("account lookup failed", slog.Any("error", err))
			authapi.ErrServerError.Write(w)
			return
		}

		ctx = context.WithValue(ctx, accountContextKey, acc)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRoles restricts a handler to accounts holding one of the given
// roles. Must sit inside requireAuth.
func requireRoles(next http.Handler, roles ...domain.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acc, ok := AccountFromContext(r.Context())
		if !ok {
			authapi.ErrNoToken.Write(w)
			return
		}
		for _, role := range roles {
			if acc.Role == role {
				next.ServeHTTP(w, r)
				return
			}
		}
		authapi.ErrForbidden.Write(w)
	})
}
