package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is the development signing secret used when JWT_SECRET is unset.
const DefaultJWTSecret = "change-me"

// Config holds application level configuration loaded from environment variables.
// It is built once at startup and passed by reference; nothing below main reads the environment.
type Config struct {
	Env         string
	LogLevel    string
	ServerPort  string
	MySQLDSN    string
	ResetDB     bool
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	SwaggerHost string

	JWTSecret         string
	JWTExpiresIn      time.Duration
	SetupTokenTTL     time.Duration
	MinPasswordLength int

	ClientURL          string
	AllowedOrigins     []string
	SystemAccountEmail string
	LeadPhoneRegion    string

	Mail MailConfig
	Seed SeedConfig
}

// MailConfig is the SMTP configuration of the outbound mailer.
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SeedConfig describes the initial admin created by cmd/seed.
type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Load builds Config from environment with sensible defaults. A .env file in the
// working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		Env:         v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		ServerPort:  v.GetString("SERVER_PORT"),
		MySQLDSN:    v.GetString("MYSQL_DSN"),
		ResetDB:     v.GetBool("RESET_DB"),
		RedisAddr:   v.GetString("REDIS_ADDR"),
		RedisDB:     getInt(v, "REDIS_DB", 0),
		RedisPass:   v.GetString("REDIS_PASSWORD"),
		SwaggerHost: v.GetString("SWAGGER_HOST"),

		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTExpiresIn:      getDuration(v, "JWT_EXPIRES_IN", 7*24*time.Hour),
		SetupTokenTTL:     getDuration(v, "SETUP_TOKEN_TTL", 24*time.Hour),
		MinPasswordLength: getInt(v, "MIN_PASSWORD_LENGTH", 6),

		ClientURL:          strings.TrimRight(v.GetString("CLIENT_URL"), "/"),
		AllowedOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		SystemAccountEmail: strings.ToLower(v.GetString("SYSTEM_ACCOUNT_EMAIL")),
		LeadPhoneRegion:    strings.ToUpper(v.GetString("LEAD_PHONE_REGION")),

		Mail: MailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		Seed: SeedConfig{
			AdminName:     v.GetString("SEED_ADMIN_NAME"),
			AdminEmail:    strings.ToLower(v.GetString("SEED_ADMIN_EMAIL")),
			AdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
		},
	}
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects settings the server must not start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.IsProduction() && c.JWTSecret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set to a non-default value in production")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("MYSQL_DSN", "user:password@tcp(localhost:3306)/leadcrm?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("CLIENT_URL", "http://localhost:5173")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("SYSTEM_ACCOUNT_EMAIL", "system@leadcrm.local")
	v.SetDefault("LEAD_PHONE_REGION", "IN")
	v.SetDefault("SMTP_FROM", "CRM System <no-reply@leadcrm.local>")
	v.SetDefault("SEED_ADMIN_NAME", "Super Admin")
	v.SetDefault("SEED_ADMIN_EMAIL", "admin@leadcrm.local")
}

func getInt(v *viper.Viper, key string, def int) int {
	if raw := v.GetString(key); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			return parsed
		}
	}
	return def
}

// getDuration accepts Go durations ("36h") and whole days ("7d").
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def
	}
	if d, ok := parseDuration(raw); ok {
		return d
	}
	return def
}

func parseDuration(raw string) (time.Duration, bool) {
	if days, found := strings.CutSuffix(raw, "d"); found {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, false
		}
		return time.Duration(n) * 24 * time.Hour, true
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
