// Package config loads process wide configuration from the environment once
// at startup. The resulting object is passed by reference into the components
// that need it; nothing reads ambient globals after Load returns.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// Default token lifetime in minutes
const defaultTokenTTLMinutes = 5

type Config struct {
	SigningKey  string
	DatabaseURL string

	ServerAddr  string
	CORSOrigins string

	TokenTTL time.Duration
	Issuer   string
	Audience []string
}

// Load reads configuration from the environment, with an optional .env file
// for local development. Missing mandatory values are a fatal startup
// condition: the caller must refuse to start.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SigningKey:  os.Getenv("SECRET_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ServerAddr:  getEnv("SERVER_ADDR", ":8000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TokenTTL:    time.Duration(getEnvAsInt("TOKEN_TTL_MINUTES", defaultTokenTTLMinutes)) * time.Minute,
		Issuer:      getEnv("AUTH_ISSUER", ""),
		Audience:    splitList(os.Getenv("AUTH_AUDIENCE")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the mandatory settings. The service must not run with a
// default or empty signing key.
func (c *Config) Validate() error {
	if c.SigningKey == "" {
		return errors.New("SECRET_KEY environment variable is required", errors.CategoryOperation).
			WithTextCode("MISSING_SECRET_KEY")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable is required", errors.CategoryOperation).
			WithTextCode("MISSING_DATABASE_URL")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL_MINUTES must be positive", errors.CategoryOperation).
			WithTextCode("INVALID_TOKEN_TTL")
	}
	return nil
}

// Getters satisfy the auth.Config contract so the Config value can be
// injected directly into the authentication components.

func (c *Config) GetSigningKey() string { return c.SigningKey }

func (c *Config) GetTokenTTL() time.Duration { return c.TokenTTL }

func (c *Config) GetIssuer() string { return c.Issuer }

func (c *Config) GetAudience() []string { return c.Audience }

func (c *Config) GetContextKey() string { return "user" }

func (c *Config) GetAuthScheme() string { return "Bearer" }

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
