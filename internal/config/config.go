package config

import (
	"errors"
	"os"
)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	JWTSecret    []byte
	BotURL       string
	BotSecret    string
	FrontendURL  string
	HTTPAddr     string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Parse() (*Config, error) {
	cfg := &Config{}
	cfg.ClientID = getenv("DISCORD_CLIENT_ID", "")
	cfg.ClientSecret = getenv("DISCORD_CLIENT_SECRET", "")
	cfg.RedirectURI = getenv("DISCORD_REDIRECT_URI", "")
	cfg.JWTSecret = []byte(getenv("JWT_SECRET", ""))
	cfg.BotURL = getenv("DISCORD_BOT_URL", "")
	cfg.BotSecret = getenv("WEBHOOK_SECRET", "")
	cfg.FrontendURL = getenv("CARD_WEBSITE_URL", "")
	cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on missing secrets. There is deliberately no
// fallback signing key: a guessable default would let anyone mint valid
// session tokens.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return errors.New("DISCORD_CLIENT_ID is required")
	}
	if c.ClientSecret == "" {
		return errors.New("DISCORD_CLIENT_SECRET is required")
	}
	if c.RedirectURI == "" {
		return errors.New("DISCORD_REDIRECT_URI is required")
	}
	if len(c.JWTSecret) == 0 {
		return errors.New("JWT_SECRET is required")
	}
	if c.BotURL == "" {
		return errors.New("DISCORD_BOT_URL is required")
	}
	if c.BotSecret == "" {
		return errors.New("WEBHOOK_SECRET is required")
	}
	if c.FrontendURL == "" {
		return errors.New("CARD_WEBSITE_URL is required")
	}
	return nil
}
