package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const RoleAdmin = "admin"

type adminClaims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// AdminVerifier accepts HS256 tokens whose role claim is admin.
type AdminVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewAdminVerifier(secret string) (*AdminVerifier, error) {
	if secret == "" {
		return nil, errors.New("admin jwt secret is required")
	}
	return &AdminVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}, nil
}

func (v *AdminVerifier) Verify(_ context.Context, token string) (Identity, error) {
	var claims adminClaims
	_, err := v.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if claims.Role != RoleAdmin {
		return Identity{}, ErrForbidden
	}
	return Identity{Subject: claims.Subject, Email: claims.Email}, nil
}

// IssueAdminToken mints a token the AdminVerifier accepts.
func IssueAdminToken(secret, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := adminClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
