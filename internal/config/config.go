// Package config loads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/larder/pkg/database"
)

// DevJWTSecret is used when JWT_SECRET is unset. Fine for local runs only.
const DevJWTSecret = "larder-dev-secret-change-me"

// Config holds everything the server needs at startup.
type Config struct {
	Port      int
	LogLevel  string
	LogFormat string

	Database database.Config

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	// AuthRateLimit is the sustained requests/second allowed per client on
	// the login and register endpoints; AuthRateBurst is the bucket size.
	AuthRateLimit float64
	AuthRateBurst int

	CORSOrigin string
}

// Default returns the settings used when no environment overrides are present.
func Default() Config {
	return Config{
		Port:          8080,
		LogLevel:      "info",
		LogFormat:     "text",
		Database:      database.DefaultConfig(),
		JWTSecret:     DevJWTSecret,
		TokenTTL:      24 * time.Hour,
		BcryptCost:    10,
		AuthRateLimit: 1,
		AuthRateBurst: 5,
		CORSOrigin:    "*",
	}
}

// Load reads envFile if it exists, then applies environment overrides on
// top of Default. A missing env file is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function such as os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	p := parser{lookup: lookup}

	p.int("PORT", &cfg.Port)
	p.str("LOG_LEVEL", &cfg.LogLevel)
	p.str("LOG_FORMAT", &cfg.LogFormat)

	p.str("DATABASE_URL", &cfg.Database.URL)
	p.int("DB_MAX_OPEN_CONNS", &cfg.Database.MaxOpenConns)
	p.int("DB_MAX_IDLE_CONNS", &cfg.Database.MaxIdleConns)
	p.duration("DB_CONN_MAX_LIFETIME", &cfg.Database.ConnMaxLifetime)
	p.duration("DB_CONN_MAX_IDLE_TIME", &cfg.Database.ConnMaxIdleTime)

	p.str("JWT_SECRET", &cfg.JWTSecret)
	p.duration("TOKEN_TTL", &cfg.TokenTTL)
	p.int("BCRYPT_COST", &cfg.BcryptCost)

	p.float("AUTH_RATE_LIMIT", &cfg.AuthRateLimit)
	p.int("AUTH_RATE_BURST", &cfg.AuthRateBurst)
	p.str("CORS_ORIGIN", &cfg.CORSOrigin)

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range: must be between 1 and 65535", c.Port)
	}
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL must not be empty")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	// bcrypt accepts 4..31
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST %d out of range: must be between 4 and 31", c.BcryptCost)
	}
	if c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		return errors.New("AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive")
	}
	return nil
}

// UsingDevSecret reports whether tokens are signed with the built-in secret.
func (c Config) UsingDevSecret() bool {
	return c.JWTSecret == DevJWTSecret
}

type parser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *parser) get(key string) (string, bool) {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.get(key); ok {
		*dst = v
	}
}

func (p *parser) int(key string, dst *int) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s %q: must be an integer", key, v))
		return
	}
	*dst = n
}

func (p *parser) float(key string, dst *float64) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s %q: must be a number", key, v))
		return
	}
	*dst = f
}

func (p *parser) duration(key string, dst *time.Duration) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return
	}
	*dst = d
}
