package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskbridge/taskbridge/internal/auth/service"
	"github.com/taskbridge/taskbridge/pkg/authapi"
	"github.com/taskbridge/taskbridge/pkg/httpx"
	"github.com/taskbridge/taskbridge/pkg/slogx"
)

// forgotPasswordMessage is returned for known and unknown emails alike so
// the endpoint cannot confirm which addresses have accounts.
const forgotPasswordMessage = "If that email address is registered, a reset link has been sent"

// ForgotPasswordHandler serves POST /auth/forgot-password.
type ForgotPasswordHandler struct {
	Auth *service.AuthService
}

func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Email == "" {
		authapi.New(http.StatusBadRequest, "Email is required").Write(w)
		return
	}

	if err := h.Auth.ForgotPassword(ctx, req.Email); err != nil {
		if errors.Is(err, service.ErrEmailDelivery) {
			authapi.ErrEmailSendFailed.Write(w)
			return
		}
		log.Error("forgot password failed", slog.Any("error", err))
		authapi.ErrServerError.Write(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{
		Success: true,
		Message: forgotPasswordMessage,
	})
}

// ResetPasswordHandler serves PUT /auth/reset-password/{token}.
type ResetPasswordHandler struct {
	Auth *service.AuthService
}

func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.PathValue("token")

	var req authapi.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Password == "" {
		authapi.New(http.StatusBadRequest, "Password is required").Write(w)
		return
	}

	if err := h.Auth.ResetPassword(ctx, token, req.Password); err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			authapi.ErrResetTokenInvalid.Write(w)
			return
		}
		log.Error("password reset failed", slog.Any("error", err))
		authapi.ErrServerError.Write(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{
		Success: true,
		Message: "Password has been reset successfully",
	})
}
