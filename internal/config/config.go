package config

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

type Config struct {
	OrganizationName           string
	AppName                    string
	AppPort                    string
	AppUrl                     string
	DBUrl                      string
	RSAPublicKey               *rsa.PublicKey
	RedisAddr                  string
	RedisPassword              string
	SendgridAPIKey             string
	TwilioAccountSID           string
	TwilioAuthToken            string
	LDFlag_SendgridFromEmail   string
	LDFlag_SendgridSandboxMode bool
	LDFlag_TwilioFromPhone     string
	LDFlag_CORSHighSecurity    bool
}

const (
	OrganizationName    = "Dhaka To-Let"
	LDConnectionTimeout = 5 * time.Second

	defaultFromEmail = "no-reply@dhakatolet.com"
)

// Overridable at build time with -ldflags "-X ...config.AppName=...".
var (
	AppName             = "dhaka-tolet-service"
	LDServerContextKey  = "dhaka-tolet"
	LDServerContextKind = "service"
)

// flags are the values LaunchDarkly may override.
type flags struct {
	SendgridFromEmail   string
	SendgridSandboxMode bool
	TwilioFromPhone     string
	CORSHighSecurity    bool
}

func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)

	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug("No .env file found; using process environment")
	}

	appPort := requireEnv("APP_PORT")
	appUrl := requireEnv("APP_URL_FROM_ANYWHERE")
	dbURL := requireEnv("DATABASE_URL")

	pubKey, err := ParseRSAPublicKey(requireEnv("RSA_PUBLIC_KEY_BASE64"))
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}

	f := envFlags()
	if ldSDKKey := os.Getenv("LD_SDK_KEY"); ldSDKKey != "" {
		f = ldFlags(ldSDKKey, f)
	} else {
		utils.Logger.Info("LD_SDK_KEY not set; feature flags come from env")
	}

	return &Config{
		OrganizationName:           OrganizationName,
		AppName:                    AppName,
		AppPort:                    appPort,
		AppUrl:                     appUrl,
		DBUrl:                      dbURL,
		RSAPublicKey:               pubKey,
		RedisAddr:                  os.Getenv("REDIS_ADDR"),
		RedisPassword:              os.Getenv("REDIS_PASSWORD"),
		SendgridAPIKey:             os.Getenv("SENDGRID_API_KEY"),
		TwilioAccountSID:           os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:            os.Getenv("TWILIO_AUTH_TOKEN"),
		LDFlag_SendgridFromEmail:   f.SendgridFromEmail,
		LDFlag_SendgridSandboxMode: f.SendgridSandboxMode,
		LDFlag_TwilioFromPhone:     f.TwilioFromPhone,
		LDFlag_CORSHighSecurity:    f.CORSHighSecurity,
	}
}

func (c *Config) Close() {}

// ParseRSAPublicKey decodes a base64-wrapped PEM public key.
func ParseRSAPublicKey(b64 string) (*rsa.PublicKey, error) {
	pem, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return jwt.ParseRSAPublicKeyFromPEM(pem)
}

func requireEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", name)
	}
	return v
}

func envFlags() flags {
	f := flags{
		SendgridFromEmail:   os.Getenv("SENDGRID_FROM_EMAIL"),
		SendgridSandboxMode: envBool("SENDGRID_SANDBOX_MODE", false),
		TwilioFromPhone:     os.Getenv("TWILIO_FROM_PHONE"),
		CORSHighSecurity:    envBool("CORS_HIGH_SECURITY", false),
	}
	if f.SendgridFromEmail == "" {
		f.SendgridFromEmail = defaultFromEmail
	}
	return f
}

func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		utils.Logger.Warnf("Invalid boolean in %s: %q, using %t", name, raw, fallback)
		return fallback
	}
	return v
}

// ldFlags evaluates every flag once, with the env values as defaults.
func ldFlags(sdkKey string, defaults flags) flags {
	ldClient, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	defer ldClient.Close()

	ctx := ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey)
	f := defaults

	if f.SendgridFromEmail, err = ldClient.StringVariation("sendgrid_from_email", ctx, defaults.SendgridFromEmail); err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving sendgrid_from_email flag")
	}
	if f.SendgridFromEmail == "" {
		f.SendgridFromEmail = defaultFromEmail
	}

	if f.SendgridSandboxMode, err = ldClient.BoolVariation("sendgrid_sandbox_mode", ctx, defaults.SendgridSandboxMode); err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving sendgrid_sandbox_mode flag")
	}

	if f.TwilioFromPhone, err = ldClient.StringVariation("twilio_from_phone", ctx, defaults.TwilioFromPhone); err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving twilio_from_phone flag")
	}

	if f.CORSHighSecurity, err = ldClient.BoolVariation("cors_high_security", ctx, defaults.CORSHighSecurity); err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving cors_high_security flag")
	}
	utils.Logger.Debugf("cors_high_security flag: %t", f.CORSHighSecurity)

	return f
}
