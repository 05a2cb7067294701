// Package mail delivers the transactional emails of the auth service:
// the registration welcome note and the password-reset link.
package mail

import "context"

// Mailer sends the service's transactional emails. The auth service only
// depends on this interface so tests can swap in a recorder.
type Mailer interface {
	// SendWelcome greets a freshly registered account. Failures here are
	// non-fatal; registration has already succeeded.
	SendWelcome(ctx context.Context, to, name string) error

	// SendPasswordReset delivers the reset link carrying the raw token.
	// A failure must abort the reset flow so the pending token can be
	// rolled back.
	SendPasswordReset(ctx context.Context, to, name, token string) error
}
