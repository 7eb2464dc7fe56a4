// Package auth passes sign-in, sign-up and sign-out through to an identity
// provider and remembers the signed-in user of each browser session.
package auth

import (
	"context"
	"errors"
	"time"
)

var ErrNotSignedIn = errors.New("not signed in")

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Confirmed   bool      `json:"confirmed"`
	AccessToken string    `json:"accessToken,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt,omitzero"`
}

// HasSession reports whether the provider issued a token, which it does not
// for sign-ups still awaiting e-mail confirmation.
func (u *User) HasSession() bool {
	return u != nil && u.AccessToken != ""
}

// Provider is an external identity service.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context, user *User) error
}

// ProviderError carries the message an identity provider rejected a request with.
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}
