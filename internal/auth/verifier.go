// Package auth turns bearer tokens into verified identities. Customers sign in
// with Firebase; staff use HS256 tokens minted by the admin backend.
package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrForbidden    = errors.New("auth: insufficient role")
)

type Identity struct {
	Subject string
	Email   string
	Name    string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}
