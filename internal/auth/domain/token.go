package domain

import "time"

// TokenPair bundles the access and refresh JWTs issued for a session,
// along with their absolute expiry times.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
