package config

import (
	"log/slog"
	"time"

	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/authnet/relays"
	relayDTO "github.com/joy-dx/relay/dto"
)

const (
	DefaultLoginPath = "/login"
	DefaultTokenFile = ".authnet-tokens.json"
	DefaultUserAgent = "authnet/1.0"
)

// NetSvcConfig is shared by the net service and the clients it builds.
type NetSvcConfig struct {
	BaseURL   string `json:"base_url" yaml:"base_url"`
	LoginPath string `json:"login_path" yaml:"login_path"`
	// RefreshURL endpoint accepting {"refreshToken": "..."} used by the default refresher
	RefreshURL string `json:"refresh_url" yaml:"refresh_url"`
	// WithCredentials send and capture cookies on every request
	WithCredentials  bool             `json:"with_credentials" yaml:"with_credentials"`
	ClientID         string           `json:"client_id" yaml:"client_id"`
	TokenFile        string           `json:"token_file" yaml:"token_file"`
	ExtraHeaders     dto.ExtraHeaders `json:"extra_headers" yaml:"extra_headers"`
	RequestTimeout   time.Duration    `json:"request_timeout" yaml:"request_timeout"`
	UserAgent        string           `json:"user_agent" yaml:"user_agent"`
	BlacklistDomains []string         `json:"blacklist_domains" yaml:"blacklist_domains"`
	WhitelistDomains []string         `json:"whitelist_domains" yaml:"whitelist_domains"`
	// RequestsPerSecond caps outgoing calls on the default client, 0 disables
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	RateBurst         int     `json:"rate_burst" yaml:"rate_burst"`
	// DownloadCallbackInterval how often download progress is published
	DownloadCallbackInterval time.Duration `json:"download_callback_interval" yaml:"download_callback_interval"`

	AuthService dto.AuthService `json:"-" yaml:"-"`
	OnRelogin   dto.ReloginFunc `json:"-" yaml:"-"`
	Metrics     dto.NetMetrics  `json:"-" yaml:"-"`
	relay       relayDTO.RelayInterface
}

func DefaultNetSvcConfig() NetSvcConfig {
	return NetSvcConfig{
		LoginPath:                DefaultLoginPath,
		WithCredentials:          true,
		TokenFile:                DefaultTokenFile,
		ExtraHeaders:             make(dto.ExtraHeaders),
		RequestTimeout:           30 * time.Second,
		UserAgent:                DefaultUserAgent,
		DownloadCallbackInterval: 2 * time.Second,
		relay:                    relays.NewSlogRelay(slog.Default()),
	}
}

// Relay never returns nil; an unset relay discards events.
func (c *NetSvcConfig) Relay() relayDTO.RelayInterface {
	if c.relay == nil {
		return relays.Discard
	}
	return c.relay
}

func (c *NetSvcConfig) WithRelay(relay relayDTO.RelayInterface) *NetSvcConfig {
	c.relay = relay
	return c
}

func (c *NetSvcConfig) WithBaseURL(baseURL string) *NetSvcConfig {
	c.BaseURL = baseURL
	return c
}

func (c *NetSvcConfig) WithLoginPath(path string) *NetSvcConfig {
	c.LoginPath = path
	return c
}

func (c *NetSvcConfig) WithRefreshURL(url string) *NetSvcConfig {
	c.RefreshURL = url
	return c
}

func (c *NetSvcConfig) WithCredentialsPolicy(include bool) *NetSvcConfig {
	c.WithCredentials = include
	return c
}

func (c *NetSvcConfig) WithClientID(id string) *NetSvcConfig {
	c.ClientID = id
	return c
}

func (c *NetSvcConfig) WithTokenFile(path string) *NetSvcConfig {
	c.TokenFile = path
	return c
}

func (c *NetSvcConfig) WithExtraHeaders(headers dto.ExtraHeaders) *NetSvcConfig {
	if c.ExtraHeaders == nil {
		c.ExtraHeaders = make(dto.ExtraHeaders, len(headers))
	}
	for k, v := range headers {
		c.ExtraHeaders[k] = v
	}
	return c
}

func (c *NetSvcConfig) WithRequestTimeout(d time.Duration) *NetSvcConfig {
	c.RequestTimeout = d
	return c
}

func (c *NetSvcConfig) WithUserAgent(ua string) *NetSvcConfig {
	c.UserAgent = ua
	return c
}

func (c *NetSvcConfig) WithBlacklistDomains(domains ...string) *NetSvcConfig {
	c.BlacklistDomains = append(c.BlacklistDomains, domains...)
	return c
}

func (c *NetSvcConfig) WithWhitelistDomains(domains ...string) *NetSvcConfig {
	c.WhitelistDomains = append(c.WhitelistDomains, domains...)
	return c
}

func (c *NetSvcConfig) WithDownloadCallbackInterval(d time.Duration) *NetSvcConfig {
	c.DownloadCallbackInterval = d
	return c
}

// WithRateLimit throttles the default client to rps calls per second with
// bursts of up to burst calls.
func (c *NetSvcConfig) WithRateLimit(rps float64, burst int) *NetSvcConfig {
	c.RequestsPerSecond = rps
	c.RateBurst = burst
	return c
}

func (c *NetSvcConfig) WithAuthService(svc dto.AuthService) *NetSvcConfig {
	c.AuthService = svc
	return c
}

func (c *NetSvcConfig) WithReloginHandler(fn dto.ReloginFunc) *NetSvcConfig {
	c.OnRelogin = fn
	return c
}

func (c *NetSvcConfig) WithMetrics(m dto.NetMetrics) *NetSvcConfig {
	c.Metrics = m
	return c
}
