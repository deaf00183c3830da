package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func baseClaims(sub uuid.UUID) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss": TokenIssuer,
		"sub": sub.String(),
		"iat": now.Unix(),
		"exp": now.Add(15 * time.Minute).Unix(),
	}
}

// echoIdentity answers with the identity found in the request context.
var echoIdentity = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "no identity", http.StatusTeapot)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, id)
})

func serve(t *testing.T, h http.Handler, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/my", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Code
}

func TestAuthMiddlewareAttachesIdentity(t *testing.T) {
	key := newKey(t)
	userID := uuid.New()
	claims := baseClaims(userID)
	claims[ClaimIsTenant] = true
	claims[ClaimIsAdmin] = false

	h := AuthMiddleware(&key.PublicKey)(echoIdentity)
	rr := serve(t, h, "Bearer "+signToken(t, key, claims))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var got models.Identity
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, models.Identity{UserID: userID, IsTenant: true}, got)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	key := newKey(t)
	other := newKey(t)
	h := AuthMiddleware(&key.PublicKey)(echoIdentity)

	expired := baseClaims(uuid.New())
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	wrongIssuer := baseClaims(uuid.New())
	wrongIssuer["iss"] = "someone-else"

	badSubject := baseClaims(uuid.New())
	badSubject["sub"] = "not-a-uuid"

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"no header", "", utils.ErrCodeUnauthorized},
		{"not bearer", "Basic abc", utils.ErrCodeUnauthorized},
		{"garbage", "Bearer abc.def.ghi", utils.ErrCodeUnauthorized},
		{"foreign key", "Bearer " + signToken(t, other, baseClaims(uuid.New())), utils.ErrCodeUnauthorized},
		{"expired", "Bearer " + signToken(t, key, expired), utils.ErrCodeTokenExpired},
		{"wrong issuer", "Bearer " + signToken(t, key, wrongIssuer), utils.ErrCodeUnauthorized},
		{"bad subject", "Bearer " + signToken(t, key, badSubject), utils.ErrCodeUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(t, h, tc.header)
			require.Equal(t, http.StatusUnauthorized, rr.Code)
			require.Equal(t, tc.code, errorCode(t, rr))
		})
	}
}

func TestAuthMiddlewareRejectsHMAC(t *testing.T) {
	key := newKey(t)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, baseClaims(uuid.New())).SignedString([]byte("secret"))
	require.NoError(t, err)

	rr := serve(t, AuthMiddleware(&key.PublicKey)(echoIdentity), "Bearer "+tok)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}
