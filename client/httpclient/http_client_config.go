package httpclient

import (
	"context"
	"net/http"

	"github.com/joy-dx/authnet/config"
	"github.com/joy-dx/authnet/dto"
)

type Middleware func(ctx context.Context, req *HTTPRequest) error

// HTTPClientConfig is fixed once the client is built.
type HTTPClientConfig struct {
	// BaseURL prefixes every relative request URL
	BaseURL string
	// DefaultHeaders apply unless the request sets the same header
	DefaultHeaders map[string]string
	// WithCredentials capture Set-Cookie and replay stored cookies on every request
	WithCredentials bool
	AuthService     dto.AuthService
	// OnRelogin runs in its own goroutine when a 401 cannot be recovered
	OnRelogin   dto.ReloginFunc
	LoginPath   string
	Middlewares []Middleware
	Metrics     dto.NetMetrics
	// Transport overrides the pooled default transport
	Transport http.RoundTripper
}

func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		DefaultHeaders:  map[string]string{"Content-Type": "application/json"},
		WithCredentials: true,
		LoginPath:       config.DefaultLoginPath,
		Middlewares:     make([]Middleware, 0),
	}
}

func (c *HTTPClientConfig) WithBaseURL(baseURL string) *HTTPClientConfig {
	c.BaseURL = baseURL
	return c
}

func (c *HTTPClientConfig) WithDefaultHeader(key, value string) *HTTPClientConfig {
	if c.DefaultHeaders == nil {
		c.DefaultHeaders = map[string]string{}
	}
	c.DefaultHeaders[http.CanonicalHeaderKey(key)] = value
	return c
}

func (c *HTTPClientConfig) WithCredentialsPolicy(include bool) *HTTPClientConfig {
	c.WithCredentials = include
	return c
}

func (c *HTTPClientConfig) WithAuthService(svc dto.AuthService) *HTTPClientConfig {
	c.AuthService = svc
	return c
}

// WithRelogin sets the force re-login capability and the location handed to it.
func (c *HTTPClientConfig) WithRelogin(loginPath string, fn dto.ReloginFunc) *HTTPClientConfig {
	if loginPath != "" {
		c.LoginPath = loginPath
	}
	c.OnRelogin = fn
	return c
}

func (c *HTTPClientConfig) WithMiddleware(m ...Middleware) *HTTPClientConfig {
	c.Middlewares = append(c.Middlewares, m...)
	return c
}

func (c *HTTPClientConfig) WithMetrics(m dto.NetMetrics) *HTTPClientConfig {
	c.Metrics = m
	return c
}

func (c *HTTPClientConfig) WithTransport(rt http.RoundTripper) *HTTPClientConfig {
	c.Transport = rt
	return c
}
