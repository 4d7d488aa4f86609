package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Environment variables read by FromEnv.
const (
	EnvBaseURL         = "AUTHNET_BASE_URL"
	EnvLoginPath       = "AUTHNET_LOGIN_PATH"
	EnvRefreshURL      = "AUTHNET_REFRESH_URL"
	EnvClientID        = "AUTHNET_CLIENT_ID"
	EnvTokenFile       = "AUTHNET_TOKEN_FILE"
	EnvRequestTimeout  = "AUTHNET_REQUEST_TIMEOUT"
	EnvUserAgent       = "AUTHNET_USER_AGENT"
	EnvExtraHeaders    = "AUTHNET_EXTRA_HEADERS"
	EnvWithCredentials = "AUTHNET_WITH_CREDENTIALS"
	EnvRateLimit       = "AUTHNET_RATE_LIMIT"
)

// FromEnv starts from DefaultNetSvcConfig and applies AUTHNET_* variables.
// A .env file in the working directory is loaded first when present; real
// environment variables take precedence over it.
func FromEnv() (NetSvcConfig, error) {
	_ = godotenv.Load()

	cfg := DefaultNetSvcConfig()
	cfg.BaseURL = getEnv(EnvBaseURL, cfg.BaseURL)
	cfg.LoginPath = getEnv(EnvLoginPath, cfg.LoginPath)
	cfg.RefreshURL = getEnv(EnvRefreshURL, cfg.RefreshURL)
	cfg.ClientID = getEnv(EnvClientID, cfg.ClientID)
	cfg.TokenFile = getEnv(EnvTokenFile, cfg.TokenFile)
	cfg.UserAgent = getEnv(EnvUserAgent, cfg.UserAgent)

	if raw := os.Getenv(EnvRequestTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", EnvRequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	if raw := os.Getenv(EnvWithCredentials); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", EnvWithCredentials, err)
		}
		cfg.WithCredentials = include
	}
	if raw := os.Getenv(EnvRateLimit); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps < 0 {
			return cfg, fmt.Errorf("parse %s: invalid rate %q", EnvRateLimit, raw)
		}
		cfg.WithRateLimit(rps, 1)
	}
	if raw := os.Getenv(EnvExtraHeaders); raw != "" {
		if err := cfg.ExtraHeaders.Set(raw); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", EnvExtraHeaders, err)
		}
	}
	return cfg, nil
}

// Resolve returns flagValue when set, otherwise the environment value, otherwise def.
func Resolve(flagValue, envKey, def string) string {
	if flagValue != "" {
		return flagValue
	}
	return getEnv(envKey, def)
}

func getEnv(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

// Validate checks the fields every client needs. It returns warnings for
// settings that work but are probably wrong.
func (c *NetSvcConfig) Validate() (warnings []string, err error) {
	if c.BaseURL != "" {
		if err := validateServerURL(c.BaseURL); err != nil {
			return nil, fmt.Errorf("invalid base url: %w", err)
		}
		if strings.HasPrefix(strings.ToLower(c.BaseURL), "http://") {
			warnings = append(warnings, "base url uses HTTP, tokens will be sent in plaintext")
		}
	}
	if c.RefreshURL != "" {
		if err := validateServerURL(c.RefreshURL); err != nil {
			return nil, fmt.Errorf("invalid refresh url: %w", err)
		}
	}
	if c.LoginPath == "" {
		return nil, errors.New("login path cannot be empty")
	}
	if c.ClientID != "" {
		if _, err := uuid.Parse(c.ClientID); err != nil {
			warnings = append(warnings, fmt.Sprintf("client id %q is not a UUID", c.ClientID))
		}
	}
	return warnings, nil
}

func validateServerURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got: %s", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL must include a host")
	}
	return nil
}
