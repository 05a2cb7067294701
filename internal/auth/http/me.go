package http

import (
	"net/http"

	"github.com/taskbridge/taskbridge/pkg/authapi"
	"github.com/taskbridge/taskbridge/pkg/httpx"
)

// MeHandler serves GET /auth/me. Runs inside requireAuth, so the account
// is always on the context.
type MeHandler struct{}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	acc, ok := AccountFromContext(r.Context())
	if !ok {
		authapi.ErrNoToken.Write(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.UserResponse{
		Success: true,
		User:    toUser(acc),
	})
}
