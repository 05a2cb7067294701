package http

import (
	"log/slog"
	"net/http"

	"github.com/taskbridge/taskbridge/internal/auth/service"
	"github.com/taskbridge/taskbridge/pkg/authapi"
	"github.com/taskbridge/taskbridge/pkg/httpx"
	"github.com/taskbridge/taskbridge/pkg/slogx"
)

// LogoutHandler serves POST /auth/logout. Runs inside requireAuth; the
// verified token from the guard is the one that gets revoked.
type LogoutHandler struct {
	Auth *service.AuthService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	acc, ok := AccountFromContext(ctx)
	if !ok {
		authapi.ErrNoToken.Write(w)
		return
	}

	if err := h.Auth.Logout(ctx, acc.ID, tokenFromContext(ctx)); err != nil {
		log.Error("logout failed", slog.Any("error", err))
		authapi.ErrServerError.Write(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}
