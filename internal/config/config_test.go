package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		raw    string
		want   time.Duration
		wantOK bool
	}{
		{raw: "7d", want: 7 * 24 * time.Hour, wantOK: true},
		{raw: "36h", want: 36 * time.Hour, wantOK: true},
		{raw: "15m", want: 15 * time.Minute, wantOK: true},
		{raw: "0d", wantOK: false},
		{raw: "-1h", wantOK: false},
		{raw: "soon", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseDuration(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("MIN_PASSWORD_LENGTH", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")

	cfg := Load()

	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 24*time.Hour, cfg.SetupTokenTTL)
	assert.Equal(t, 6, cfg.MinPasswordLength)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "2d")
	t.Setenv("MIN_PASSWORD_LENGTH", "10")
	t.Setenv("SYSTEM_ACCOUNT_EMAIL", "Intake@Example.com")
	t.Setenv("CLIENT_URL", "https://crm.example.com/")

	cfg := Load()

	assert.Equal(t, 48*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 10, cfg.MinPasswordLength)
	assert.Equal(t, "intake@example.com", cfg.SystemAccountEmail)
	assert.Equal(t, "https://crm.example.com", cfg.ClientURL)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		secret  string
		wantErr bool
	}{
		{name: "development default secret", env: "development", secret: DefaultJWTSecret},
		{name: "production default secret", env: "production", secret: DefaultJWTSecret, wantErr: true},
		{name: "production custom secret", env: "production", secret: "s3cr3t-from-vault"},
		{name: "empty secret", env: "development", secret: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Env: tt.env, JWTSecret: tt.secret}
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
				return
			}
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestLoad_ProductionWithoutSecretFailsValidation(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()

	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	assert.Error(t, cfg.Validate())
}
