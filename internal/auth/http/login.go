package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskbridge/taskbridge/internal/auth/service"
	"github.com/taskbridge/taskbridge/pkg/authapi"
	"github.com/taskbridge/taskbridge/pkg/slogx"
)

// LoginHandler serves POST /auth/login.
type LoginHandler struct {
	Auth *service.AuthService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		authapi.New(http.StatusBadRequest, "Email and password are required").Write(w)
		return
	}

	session, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			authapi.ErrInvalidCredentials.Write(w)
			return
		}
		log.Error("login failed", slog.Any("error", err))
		authapi.ErrServerError.Write(w)
		return
	}

	writeSession(w, http.StatusOK, session)
}
