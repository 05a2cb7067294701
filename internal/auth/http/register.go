package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskbridge/taskbridge/internal/auth/service"
	"github.com/taskbridge/taskbridge/pkg/authapi"
	"github.com/taskbridge/taskbridge/pkg/slogx"
)

// RegisterHandler serves POST /auth/register.
type RegisterHandler struct {
	Auth *service.AuthService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		authapi.New(http.StatusBadRequest, "Name, email and password are required").Write(w)
		return
	}

	session, err := h.Auth.Register(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			authapi.ErrEmailTaken.Write(w)
		case errors.Is(err, service.ErrInvalidRole):
			authapi.New(http.StatusBadRequest, "Invalid role").Write(w)
		case errors.Is(err, service.ErrInvalidCredentials):
			authapi.New(http.StatusBadRequest, "Name, email and password are required").Write(w)
		default:
			log.Error("registration failed", slog.Any("error", err))
			authapi.ErrServerError.Write(w)
		}
		return
	}

	writeSession(w, http.StatusCreated, session)
}
