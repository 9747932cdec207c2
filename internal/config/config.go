// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"os"
)

// ErrMissingCredentials is returned when SPOTIFY_ID or SPOTIFY_SECRET is
// not set.
var ErrMissingCredentials = errors.New("missing SPOTIFY_ID or SPOTIFY_SECRET environment variable")

const (
	defaultAddr = "127.0.0.1:8080"

	// Spotify requires an explicit IPv4 loopback redirect for local apps.
	defaultRedirectURL = "http://127.0.0.1:8080/callback"
)

// Config holds the application configuration.
type Config struct {
	Addr         string // listen address
	ClientID     string // Spotify application client ID
	ClientSecret string // Spotify application client secret
	RedirectURL  string // OAuth callback URL registered with Spotify
	DatabaseURL  string // optional; enables the PostgreSQL session store
	Environment  string // "development" or "production"
}

// Load reads configuration from environment variables. Returns
// ErrMissingCredentials if the Spotify credentials are not set.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:         envOr("ADDR", defaultAddr),
		ClientID:     os.Getenv("SPOTIFY_ID"),
		ClientSecret: os.Getenv("SPOTIFY_SECRET"),
		RedirectURL:  envOr("SPOTIFY_REDIRECT_URL", defaultRedirectURL),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		Environment:  envOr("ENVIRONMENT", "development"),
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
