// Package config loads the Dynamics 365 connection settings for the server.
//
// Settings come from the environment, with an optional TOML file supplying
// defaults. Environment variables always take precedence so container and CI
// deployments can override a checked-in file. A `.env` file in the working
// directory is honoured for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment variable names for the four required settings.
const (
	EnvTenantID     = "DYNAMICS365_TENANT_ID"
	EnvClientID     = "DYNAMICS365_CLIENT_ID"
	EnvClientSecret = "DYNAMICS365_CLIENT_SECRET"
	EnvBaseURL      = "DYNAMICS365_URL"
)

// Config holds the application identity and resource location for the
// Dataverse instance. It is read once at startup and never mutated; the
// gateway owns it for the process lifetime.
type Config struct {
	// TenantID is the Azure AD directory (tenant) the application is
	// registered under.
	TenantID string `toml:"tenant_id"`
	// ClientID is the application (client) id.
	ClientID string `toml:"client_id"`
	// ClientSecret is the application client secret.
	ClientSecret string `toml:"client_secret"`
	// BaseURL is the Dataverse environment URL, e.g.
	// https://myorg.crm.dynamics.com
	BaseURL string `toml:"url"`
}

// Load builds a Config from the optional TOML file at path and the
// environment. Pass an empty path to skip file loading. A missing file at an
// explicitly given path is an error; unset environment variables simply leave
// the file values in place.
func Load(path string) (*Config, error) {
	// Best-effort .env loading; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overrides file values with environment variables where set.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvTenantID); v != "" {
		cfg.TenantID = v
	}
	if v := os.Getenv(EnvClientID); v != "" {
		cfg.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		cfg.ClientSecret = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = strings.TrimSpace(v)
	}
}

// Validate reports every missing required value in a single error so the
// operator can fix the whole configuration in one pass.
func (c *Config) Validate() error {
	var missing []string
	if c.TenantID == "" {
		missing = append(missing, EnvTenantID)
	}
	if c.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if c.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if c.BaseURL == "" {
		missing = append(missing, EnvBaseURL)
	}
	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}
