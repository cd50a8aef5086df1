package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func TestAdminVerifier(t *testing.T) {
	v, err := NewAdminVerifier("s3cret")
	require.NoError(t, err)
	ctx := context.Background()

	tok, err := IssueAdminToken("s3cret", "admin-7", RoleAdmin, time.Hour)
	require.NoError(t, err)
	id, err := v.Verify(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, "admin-7", id.Subject)

	staff, err := IssueAdminToken("s3cret", "clerk-1", "staff", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(ctx, staff)
	require.ErrorIs(t, err, ErrForbidden)

	expired, err := IssueAdminToken("s3cret", "admin-7", RoleAdmin, -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(ctx, expired)
	require.ErrorIs(t, err, ErrInvalidToken)

	forged, err := IssueAdminToken("other", "admin-7", RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(ctx, forged)
	require.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "admin-7", "role": RoleAdmin})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = v.Verify(ctx, raw)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewAdminVerifier("")
	require.Error(t, err)
}

type idTokenStub struct {
	token *firebaseauth.Token
	err   error
}

func (s idTokenStub) VerifyIDToken(context.Context, string) (*firebaseauth.Token, error) {
	return s.token, s.err
}

func TestFirebaseVerifier(t *testing.T) {
	v := &FirebaseVerifier{
		client: idTokenStub{token: &firebaseauth.Token{
			UID:    "uid-1",
			Claims: map[string]interface{}{"email": "a@b.lk", "name": "Amaya"},
		}},
		timeout: time.Second,
	}
	id, err := v.Verify(context.Background(), "token")
	require.NoError(t, err)
	require.Equal(t, Identity{Subject: "uid-1", Email: "a@b.lk", Name: "Amaya"}, id)

	_, err = v.Verify(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidToken)

	v.client = idTokenStub{err: errors.New("expired")}
	_, err = v.Verify(context.Background(), "token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
