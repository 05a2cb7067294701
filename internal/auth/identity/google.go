// Package identity verifies federated login credentials against external
// identity providers.
package identity

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// ErrInvalidToken is returned when the provider rejects the credential.
var ErrInvalidToken = errors.New("identity: invalid token")

// Profile is the subset of provider claims the auth service consumes.
type Profile struct {
	SubjectID string // provider-scoped stable subject identifier
	Email     string
	Name      string
	Picture   string
}

// Verifier validates a provider-issued ID token and extracts the profile.
type Verifier interface {
	Verify(ctx context.Context, token string) (Profile, error)
}

// GoogleVerifier validates Google-issued ID tokens. Audience must be the
// OAuth client ID the frontend obtained the token for; tokens minted for a
// different client are rejected.
type GoogleVerifier struct {
	Audience string
}

func (g *GoogleVerifier) Verify(ctx context.Context, token string) (Profile, error) {
	payload, err := idtoken.Validate(ctx, token, g.Audience)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	p := Profile{SubjectID: payload.Subject}
	if v, ok := payload.Claims["email"].(string); ok {
		p.Email = v
	}
	if v, ok := payload.Claims["name"].(string); ok {
		p.Name = v
	}
	if v, ok := payload.Claims["picture"].(string); ok {
		p.Picture = v
	}

	if p.SubjectID == "" || p.Email == "" {
		return Profile{}, ErrInvalidToken
	}
	return p, nil
}
