// Package config loads Immich connection settings from the process
// environment, the way a consumer of this library wires its own
// credentials in local development.
package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the settings needed to build a client.Client.
type Config struct {
	BaseURL  string
	APIKey   string
	Email    string
	Password string
}

// Load reads IMMICH_URL, IMMICH_API_KEY, IMMICH_EMAIL and IMMICH_PASSWORD
// from the environment, loading a .env file first if one exists in the
// working directory.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		BaseURL:  os.Getenv("IMMICH_URL"),
		APIKey:   os.Getenv("IMMICH_API_KEY"),
		Email:    os.Getenv("IMMICH_EMAIL"),
		Password: os.Getenv("IMMICH_PASSWORD"),
	}
	if cfg.BaseURL == "" {
		return Config{}, errors.New("config: IMMICH_URL is not set")
	}
	if cfg.APIKey == "" && (cfg.Email == "" || cfg.Password == "") {
		return Config{}, errors.New("config: set IMMICH_API_KEY or both IMMICH_EMAIL and IMMICH_PASSWORD")
	}
	return cfg, nil
}
