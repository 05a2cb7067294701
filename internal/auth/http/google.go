package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskbridge/taskbridge/internal/auth/service"
	"github.com/taskbridge/taskbridge/pkg/authapi"
	"github.com/taskbridge/taskbridge/pkg/slogx"
)

// GoogleLoginHandler serves POST /auth/google.
type GoogleLoginHandler struct {
	Auth *service.AuthService
}

func (h *GoogleLoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.GoogleLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.IDToken == "" {
		authapi.New(http.StatusBadRequest, "ID token is required").Write(w)
		return
	}

	session, err := h.Auth.LoginWithGoogle(ctx, req.IDToken, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidIdentityToken):
			authapi.ErrInvalidGoogleToken.Write(w)
		case errors.Is(err, service.ErrInvalidRole):
			authapi.New(http.StatusBadRequest, "Invalid role").Write(w)
		default:
			log.Error("google login failed", slog.Any("error", err))
			authapi.ErrServerError.Write(w)
		}
		return
	}

	writeSession(w, http.StatusOK, session)
}
