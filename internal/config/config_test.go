package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRSAPublicKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	block := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	got, err := ParseRSAPublicKey(base64.StdEncoding.EncodeToString(block))
	require.NoError(t, err)
	require.True(t, key.PublicKey.Equal(got))

	_, err = ParseRSAPublicKey("%%%")
	require.Error(t, err)

	_, err = ParseRSAPublicKey(base64.StdEncoding.EncodeToString([]byte("not pem")))
	require.Error(t, err)
}

func TestEnvFlags(t *testing.T) {
	t.Setenv("SENDGRID_FROM_EMAIL", "")
	t.Setenv("SENDGRID_SANDBOX_MODE", "true")
	t.Setenv("TWILIO_FROM_PHONE", "+8801700000000")
	t.Setenv("CORS_HIGH_SECURITY", "maybe")

	f := envFlags()
	require.Equal(t, defaultFromEmail, f.SendgridFromEmail)
	require.True(t, f.SendgridSandboxMode)
	require.Equal(t, "+8801700000000", f.TwilioFromPhone)
	require.False(t, f.CORSHighSecurity)
}
