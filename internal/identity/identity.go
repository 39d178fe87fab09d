package identity

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

var ErrInvalidToken = errors.New("invalid auth token")

// Identity is the verified caller taken from a Firebase ID token.
type Identity struct {
	UID         string
	DisplayName string
	Email       string
	PhotoURL    string
}

// Provider wraps the Firebase Auth client. It is the only component that
// talks to the identity service; everything else receives an Identity.
type Provider struct {
	client *auth.Client
}

func NewProvider(client *auth.Client) *Provider {
	return &Provider{client: client}
}

// VerifyToken checks a Firebase ID token and extracts the caller identity
// from its claims.
func (p *Provider) VerifyToken(ctx context.Context, idToken string) (Identity, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id := Identity{UID: token.UID}
	if v, ok := token.Claims["name"].(string); ok {
		id.DisplayName = v
	}
	if v, ok := token.Claims["email"].(string); ok {
		id.Email = v
	}
	if v, ok := token.Claims["picture"].(string); ok {
		id.PhotoURL = v
	}
	if id.DisplayName == "" {
		id.DisplayName = "Anonymous"
	}
	return id, nil
}

// Lookup fetches the full user record for a uid. Used by the reminder
// dispatcher, which holds only the uid from a stored task record.
func (p *Provider) Lookup(ctx context.Context, uid string) (Identity, error) {
	rec, err := p.client.GetUser(ctx, uid)
	if err != nil {
		return Identity{}, err
	}
	id := Identity{
		UID:         rec.UID,
		DisplayName: rec.DisplayName,
		Email:       rec.Email,
		PhotoURL:    rec.PhotoURL,
	}
	if id.DisplayName == "" {
		id.DisplayName = "Anonymous"
	}
	return id, nil
}
