package middleware

import (
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
)

// TokenIssuer identifies the identity service that signs access tokens.
const TokenIssuer = "DhakaToLet"

// Role claims carried by access tokens.
const (
	ClaimIsTenant = "is_tenant"
	ClaimIsOwner  = "is_owner"
	ClaimIsAdmin  = "is_admin"
)

// ValidateToken checks the token's RS256 signature, expiry and issuer.
func ValidateToken(tokenString string, publicKey *rsa.PublicKey) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	// ─── Standard claim checks ────────────────────────────────────────────────────
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, errors.New("missing expiration claim")
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, jwt.ErrTokenExpired
	}

	iss, ok := claims["iss"].(string)
	if !ok {
		return nil, errors.New("missing issuer claim")
	}
	if iss != TokenIssuer {
		return nil, errors.New("invalid token issuer")
	}

	return token, nil
}

// IdentityFromClaims maps verified claims onto the caller identity. Missing
// role claims read as false.
func IdentityFromClaims(claims jwt.MapClaims) (models.Identity, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return models.Identity{}, errors.New("missing subject")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return models.Identity{}, errors.New("subject is not a user id")
	}

	flag := func(name string) bool {
		v, _ := claims[name].(bool)
		return v
	}
	return models.Identity{
		UserID:   userID,
		IsTenant: flag(ClaimIsTenant),
		IsOwner:  flag(ClaimIsOwner),
		IsAdmin:  flag(ClaimIsAdmin),
	}, nil
}
