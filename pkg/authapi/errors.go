package authapi

import (
	"net/http"

	"github.com/taskbridge/taskbridge/pkg/httpx"
)

// Error is an API-level error carrying the HTTP status and the user-safe
// message serialized to clients. Internal failure detail never travels
// through this type; it is logged at the point of failure instead.
type Error struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Message is the user-safe description serialized in the body
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Write serializes the error as the standard failure envelope.
func (e *Error) Write(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{
		Success: false,
		Message: e.Message,
	})
}

// New creates an Error with the given status code and message.
func New(statusCode int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message}
}

var (
	// ErrNoToken is returned when a protected route is hit without a bearer token.
	ErrNoToken = New(http.StatusUnauthorized, "Not authorized, no token")

	// ErrTokenFailed is returned when bearer token verification fails for any
	// reason other than expiry. Invalid and revoked tokens share this message
	// deliberately; the internal reason is only logged.
	ErrTokenFailed = New(http.StatusUnauthorized, "Not authorized, token failed")

	// ErrSessionExpired is the expiry-specific verification failure, kept
	// distinct so clients can prompt for re-login.
	ErrSessionExpired = New(http.StatusUnauthorized, "Session expired, please log in again")

	// ErrInvalidCredentials is the single response for every login failure
	// mode: unknown email, passwordless account, or wrong password.
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid credentials")

	// ErrForbidden is returned when the authenticated role is not allowed.
	ErrForbidden = New(http.StatusForbidden, "You do not have permission to perform this action")

	// ErrEmailTaken is returned when registering with an email already in use.
	ErrEmailTaken = New(http.StatusConflict, "An account with that email already exists")

	// ErrAccountNotFound is returned when the token subject no longer resolves.
	ErrAccountNotFound = New(http.StatusNotFound, "Account not found")

	// ErrInvalidGoogleToken is returned when identity-provider verification fails.
	ErrInvalidGoogleToken = New(http.StatusBadRequest, "Invalid Google token")

	// ErrResetTokenInvalid covers both a wrong and an expired reset token;
	// the two cases are indistinguishable to the caller.
	ErrResetTokenInvalid = New(http.StatusBadRequest, "Invalid or expired token")

	// ErrEmailSendFailed is returned when reset-mail delivery fails.
	ErrEmailSendFailed = New(http.StatusInternalServerError, "Email could not be sent")

	// ErrServerError is the catch-all for unexpected collaborator failures.
	ErrServerError = New(http.StatusInternalServerError, "Internal server error")
)
