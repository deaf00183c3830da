package middleware

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

type contextKey string

const ContextKeyIdentity = contextKey("identity")

// AuthMiddleware – for protected endpoints. If the bearer token is missing or
// invalid, returns 401. Role checks are left to the services.
func AuthMiddleware(pub *rsa.PublicKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractAccessToken(r)
			if err != nil {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil,
				)
				return
			}

			identity, ok := authenticate(w, tokenStr, pub)
			if !ok {
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// IdentityFromContext returns the caller attached by the auth middleware.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(ContextKeyIdentity).(models.Identity)
	return id, ok
}

// WithIdentity attaches id to ctx the way AuthMiddleware does.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, id)
}

func authenticate(w http.ResponseWriter, tokenStr string, pub *rsa.PublicKey) (models.Identity, bool) {
	tok, vErr := ValidateToken(tokenStr, pub)
	if vErr != nil || !tok.Valid {
		if errors.Is(vErr, jwt.ErrTokenExpired) {
			utils.RespondErrorWithCode(
				w, http.StatusUnauthorized, utils.ErrCodeTokenExpired, "Token expired", nil, vErr,
			)
			return models.Identity{}, false
		}
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", nil, vErr,
		)
		return models.Identity{}, false
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid claims", nil,
		)
		return models.Identity{}, false
	}
	identity, err := IdentityFromClaims(claims)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing subject", nil, err,
		)
		return models.Identity{}, false
	}
	return identity, true
}

// helper: read the token from the Authorization header
func extractAccessToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errors.New("missing Authorization header")
	}
	tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	if tok == "" {
		return "", errors.New("missing bearer token")
	}
	return tok, nil
}
