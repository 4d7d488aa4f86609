package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/joy-dx/authnet/config"
	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/authnet/relays"
	"github.com/joy-dx/authnet/utils"
	relayDTO "github.com/joy-dx/relay/dto"
)

// HTTPClient sends requests with bearer auth taken from an AuthService.
//
// A 401 on the first attempt triggers one refresh through AuthService.Login
// followed by a single replay of the same request. When the session cannot be
// refreshed the configured re-login handler is started and the original 401
// is returned.
//
// Cookies set by the server are kept for the lifetime of the client when the
// credentials policy allows it.

const NetClientHTTPRef dto.NetClientType = "net.client.http"

type HTTPClient struct {
	NetClient dto.NetClient `json:"net_client" yaml:"net_client"`
	cfg       *HTTPClientConfig
	relay     relayDTO.RelayInterface
	client    *http.Client
	loginPath string
	cookies   []*http.Cookie
	cookieMu  sync.RWMutex
}

func NewHTTPClient(ref string, netCfg *config.NetSvcConfig, cfg *HTTPClientConfig) *HTTPClient {
	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			MaxIdleConns:        50,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			Proxy:               http.ProxyFromEnvironment,
		}
	}
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = config.DefaultLoginPath
	}
	return &HTTPClient{
		cfg:       cfg,
		relay:     netCfg.Relay(),
		loginPath: loginPath,
		NetClient: dto.NetClient{
			Name:        "HTTP Client",
			Ref:         ref,
			ClientType:  NetClientHTTPRef,
			Description: "Perform HTTP requests with bearer auth and transparent token refresh",
		},
		client: &http.Client{
			Timeout:   netCfg.RequestTimeout,
			Transport: transport,
		},
	}
}

func (c *HTTPClient) Ref() string {
	return c.NetClient.Ref
}
func (c *HTTPClient) Type() dto.NetClientType {
	return NetClientHTTPRef
}

// ProcessRequest runs one call and reads the whole body. On a non-2xx status
// the returned Response still carries status, headers and body next to the
// *dto.HTTPError.
func (c *HTTPClient) ProcessRequest(ctx context.Context, inCfg *dto.RequestConfig) (dto.Response, error) {
	cfg, castOk := inCfg.ReqConfig.(*HTTPRequestConfig)
	if !castOk {
		return dto.Response{}, errors.New("problem casting to httprequestconfig")
	}

	req, err := c.prepare(ctx, cfg)
	if err != nil {
		return dto.Response{}, err
	}

	httpResp, err := c.do(ctx, req)
	if err != nil {
		var httpErr *dto.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr.Response(), err
		}
		return dto.Response{}, err
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return dto.Response{}, fmt.Errorf("read body: %w", err)
	}

	return dto.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header.Clone(),
		Body:       bodyBytes,
	}, nil
}

// Open performs an authenticated GET and hands back the unread response.
// The caller closes the body.
func (c *HTTPClient) Open(ctx context.Context, url string) (*http.Response, error) {
	reqCfg := DefaultHTTPRequestConfig()
	reqCfg.WithURL(url)

	req, err := c.prepare(ctx, &reqCfg)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req)
}

func (c *HTTPClient) prepare(ctx context.Context, cfg *HTTPRequestConfig) (*HTTPRequest, error) {
	reqAny, err := cfg.NewRequest(ctx)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req, ok := reqAny.(*HTTPRequest)
	if !ok {
		return nil, errors.New("problem casting built request to httprequest")
	}
	req.URL = utils.JoinURL(c.cfg.BaseURL, req.URL)

	for _, mw := range c.cfg.Middlewares {
		if err := mw(ctx, req); err != nil {
			return nil, fmt.Errorf("middleware aborted: %w", err)
		}
	}

	if err := req.FinalizeBody(); err != nil {
		return nil, err
	}
	return req, nil
}

// do sends req and, on a first 401, runs the refresh and replay cycle.
func (c *HTTPClient) do(ctx context.Context, req *HTTPRequest) (*http.Response, error) {
	httpResp, err := c.roundTrip(ctx, req)
	if err == nil || req.Retried || c.cfg.AuthService == nil || !dto.IsUnauthorized(err) {
		return httpResp, err
	}
	if !c.recoverUnauthorized(ctx, req) {
		return nil, err
	}
	return c.do(ctx, req)
}

// roundTrip is a single send with the pre-send and post-receive hooks applied.
// A 2xx response is returned with its body unread.
func (c *HTTPClient) roundTrip(ctx context.Context, req *HTTPRequest) (*http.Response, error) {
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	httpReq, err := req.build(ctx, c.cfg.DefaultHeaders)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.cfg.WithCredentials {
		c.attachCookies(httpReq)
	}

	start := time.Now()
	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		if httpResp != nil {
			httpResp.Body.Close()
		}
		failure := &dto.NetworkFailure{Method: req.Method, URL: req.URL, Err: err}
		c.observe(req, 0, time.Since(start), failure)
		return nil, failure
	}

	if c.cfg.WithCredentials {
		c.captureCookies(httpResp.Cookies())
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		body, readErr := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		if readErr != nil {
			c.relay.Debug(relays.RlyNetLog{Msg: fmt.Sprintf("read error body %s: %v", req.URL, readErr)})
		}
		httpErr := &dto.HTTPError{
			StatusCode: httpResp.StatusCode,
			Method:     req.Method,
			URL:        req.URL,
			Headers:    httpResp.Header.Clone(),
			Body:       body,
		}
		c.observe(req, httpResp.StatusCode, time.Since(start), httpErr)
		return nil, httpErr
	}

	c.observe(req, httpResp.StatusCode, time.Since(start), nil)
	return httpResp, nil
}

func (c *HTTPClient) observe(req *HTTPRequest, status int, elapsed time.Duration, err error) {
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.ObserveRequest(req.Method, status, elapsed)
	}
	c.relay.Debug(relays.RlyNetRequest{
		Method:  req.Method,
		URL:     req.URL,
		Status:  status,
		Retried: req.Retried,
		Elapsed: elapsed,
		Err:     err,
	})
}
