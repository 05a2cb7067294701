package http

import (
	"encoding/json"
	"net/http"

	"github.com/taskbridge/taskbridge/internal/auth/domain"
	"github.com/taskbridge/taskbridge/internal/auth/service"
	"github.com/taskbridge/taskbridge/pkg/authapi"
	"github.com/taskbridge/taskbridge/pkg/httpx"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into dst. Oversized or malformed
// bodies report false after writing the error response.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		authapi.New(http.StatusBadRequest, "Invalid request body").Write(w)
		return false
	}
	return true
}

func toUser(acc domain.Account) authapi.User {
	return authapi.User{
		ID:        acc.ID,
		Name:      acc.Name,
		Email:     acc.Email,
		Role:      string(acc.Role),
		Avatar:    acc.Avatar,
		CreatedAt: acc.CreatedAt,
	}
}

// writeSession emits the full auth envelope for a freshly opened session.
func writeSession(w http.ResponseWriter, status int, session *service.Session) {
	httpx.WriteJSON(w, status, authapi.AuthResponse{
		Success:             true,
		Token:               session.Tokens.AccessToken,
		RefreshToken:        session.Tokens.RefreshToken,
		AccessTokenExpires:  session.Tokens.AccessExpiresAt,
		RefreshTokenExpires: session.Tokens.RefreshExpiresAt,
		User:                toUser(session.Account),
	})
}
