// Package http wires the authentication service to its REST surface.
// Each endpoint lives in its own file; the router owns the shared
// dependencies and the global middleware chain.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taskbridge/taskbridge/internal/auth/service"
	"github.com/taskbridge/taskbridge/internal/auth/store"
	"github.com/taskbridge/taskbridge/pkg/httpx"
	"github.com/taskbridge/taskbridge/pkg/jwtx"
	"github.com/taskbridge/taskbridge/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        *jwtx.Codec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	Auth  *service.AuthService
}

func NewRouter(
	codec *jwtx.Codec,
	buildVersion string,
	st store.Store,
	auth *service.AuthService,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		Auth:         auth,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Credential-bearing endpoints take the strict limit to slow down
	// guessing; refresh runs on every session renewal so it gets more room.
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(&RegisterHandler{Auth: r.Auth},
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	r.Mux.Handle("POST /auth/login",
		httpx.Chain(&LoginHandler{Auth: r.Auth},
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	r.Mux.Handle("POST /auth/google",
		httpx.Chain(&GoogleLoginHandler{Auth: r.Auth},
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	r.Mux.Handle("POST /auth/refresh-token",
		httpx.Chain(&RefreshHandler{Auth: r.Auth},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	r.Mux.Handle("GET /auth/me",
		httpx.Chain(r.requireAuth(&MeHandler{}),
			httpx.RateLimitByIP(httpx.LenientLimit),
		))

	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(r.requireAuth(&LogoutHandler{Auth: r.Auth}),
			httpx.RateLimitByIP(httpx.LenientLimit),
		))

	r.Mux.Handle("POST /auth/forgot-password",
		httpx.Chain(&ForgotPasswordHandler{Auth: r.Auth},
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	r.Mux.Handle("PUT /auth/reset-password/{token}",
		httpx.Chain(&ResetPasswordHandler{Auth: r.Auth},
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.codec))
}
