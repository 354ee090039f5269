// Package config loads all runtime settings from the environment into one
// explicit struct. Nothing below main reads the environment directly.
package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	defaultBaseURL     = "https://secure.splitwise.com/api/v3.0"
	defaultAuthURL     = "https://secure.splitwise.com/oauth/authorize"
	defaultTokenURL    = "https://secure.splitwise.com/oauth/token"
	defaultRedirectURI = "http://localhost:8080/callback"
)

type Config struct {
	OpenAIAPIKey string
	OpenAIModel  string

	SplitwiseClientID     string
	SplitwiseClientSecret string
	SplitwiseRedirectURI  string
	SplitwiseBaseURL      string
	SplitwiseAuthURL      string
	SplitwiseTokenURL     string
	SplitwiseAccessToken  string

	DefaultCurrency string
	DefaultGroupID  int64
	MinConfidence   float64

	// Optional; empty disables forward history and the duplicate guard.
	DatabaseURL string
}

// Load reads the configuration from the environment. Splitwise client
// credentials are required; everything else has a default or is optional.
func Load() (Config, error) {
	cfg := Config{
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:           getenv("OPENAI_MODEL", "gpt-4o"),
		SplitwiseClientID:     os.Getenv("SPLITWISE_CLIENT_ID"),
		SplitwiseClientSecret: os.Getenv("SPLITWISE_CLIENT_SECRET"),
		SplitwiseRedirectURI:  getenv("SPLITWISE_REDIRECT_URI", defaultRedirectURI),
		SplitwiseBaseURL:      getenv("SPLITWISE_BASE_URL", defaultBaseURL),
		SplitwiseAuthURL:      getenv("SPLITWISE_AUTH_URL", defaultAuthURL),
		SplitwiseTokenURL:     getenv("SPLITWISE_TOKEN_URL", defaultTokenURL),
		SplitwiseAccessToken:  os.Getenv("SPLITWISE_ACCESS_TOKEN"),
		DefaultCurrency:       getenv("DEFAULT_CURRENCY", "USD"),
		MinConfidence:         0.5,
		DatabaseURL:           os.Getenv("DATABASE_URL"),
	}

	if cfg.SplitwiseClientID == "" || cfg.SplitwiseClientSecret == "" {
		return Config{}, fmt.Errorf("SPLITWISE_CLIENT_ID and SPLITWISE_CLIENT_SECRET are required")
	}

	if v := os.Getenv("DEFAULT_GROUP_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEFAULT_GROUP_ID %q: %w", v, err)
		}
		cfg.DefaultGroupID = id
	}

	if v := os.Getenv("MIN_PARSE_CONFIDENCE"); v != "" {
		conf, err := strconv.ParseFloat(v, 64)
		if err != nil || conf < 0 || conf > 1 {
			return Config{}, fmt.Errorf("invalid MIN_PARSE_CONFIDENCE %q: must be a number in [0,1]", v)
		}
		cfg.MinConfidence = conf
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
