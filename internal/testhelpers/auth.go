package testhelpers

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/middleware"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
)

// TokenSigner mints access tokens the auth middleware accepts.
type TokenSigner struct {
	T          *testing.T
	PrivateKey *rsa.PrivateKey
}

func NewTokenSigner(t *testing.T) *TokenSigner {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "Failed to generate RSA key")
	return &TokenSigner{T: t, PrivateKey: key}
}

func (s *TokenSigner) PublicKey() *rsa.PublicKey { return &s.PrivateKey.PublicKey }

// CreateJWT signs a 15 minute token carrying id's subject and roles.
func (s *TokenSigner) CreateJWT(id models.Identity) string {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"iss":                    middleware.TokenIssuer,
		"sub":                    id.UserID.String(),
		"iat":                    now,
		"exp":                    now + 15*60,
		middleware.ClaimIsTenant: id.IsTenant,
		middleware.ClaimIsOwner:  id.IsOwner,
		middleware.ClaimIsAdmin:  id.IsAdmin,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.PrivateKey)
	require.NoError(s.T, err, "Failed to sign test JWT")
	return signed
}
