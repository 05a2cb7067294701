package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskbridge/taskbridge/internal/auth/service"
	"github.com/taskbridge/taskbridge/pkg/authapi"
	"github.com/taskbridge/taskbridge/pkg/httpx"
	"github.com/taskbridge/taskbridge/pkg/jwtx"
	"github.com/taskbridge/taskbridge/pkg/slogx"
)

// RefreshHandler serves POST /auth/refresh-token.
type RefreshHandler struct {
	Auth *service.AuthService
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.RefreshToken == "" {
		authapi.New(http.StatusBadRequest, "Refresh token is required").Write(w)
		return
	}

	token, expiresAt, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, jwtx.ErrExpired):
			authapi.ErrSessionExpired.Write(w)
		case errors.Is(err, jwtx.ErrInvalid), errors.Is(err, jwtx.ErrRevoked),
			errors.Is(err, service.ErrAccountNotFound):
			authapi.ErrTokenFailed.Write(w)
		default:
			log.Error("token refresh failed", slog.Any("error", err))
			authapi.ErrServerError.Write(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.RefreshResponse{
		Success:            true,
		Token:              token,
		AccessTokenExpires: expiresAt,
	})
}
