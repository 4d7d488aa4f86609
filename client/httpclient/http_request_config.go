package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/authnet/utils"
)

// HTTPRequestConfig is immutable input (safe to reuse).
type HTTPRequestConfig struct {
	Method string                 `json:"method" yaml:"method"`
	URL    string                 `json:"url" yaml:"url"`
	Body   map[string]interface{} `json:"body" yaml:"body"`
	// BodyType application/json, application/x-www-form-urlencoded
	BodyType string            `json:"body_type" yaml:"body_type"`
	Headers  map[string]string `json:"headers" yaml:"headers"`
}

func DefaultHTTPRequestConfig() HTTPRequestConfig {
	return HTTPRequestConfig{
		Method:   http.MethodGet,
		Body:     map[string]interface{}{},
		BodyType: utils.ContentTypeJSON,
		Headers:  make(map[string]string),
	}
}

func (c *HTTPRequestConfig) Ref() dto.NetClientType {
	return NetClientHTTPRef
}

func (c *HTTPRequestConfig) WithMethod(method string) *HTTPRequestConfig {
	c.Method = method
	return c
}
func (c *HTTPRequestConfig) WithBody(body map[string]interface{}) *HTTPRequestConfig {
	c.Body = body
	return c
}
func (c *HTTPRequestConfig) WithBodyType(bodyType string) *HTTPRequestConfig {
	c.BodyType = bodyType
	return c
}
func (c *HTTPRequestConfig) WithHeaders(headers map[string]string) *HTTPRequestConfig {
	c.Headers = headers
	return c
}
func (c *HTTPRequestConfig) WithURL(url string) *HTTPRequestConfig {
	c.URL = url
	return c
}

// NewRequest creates a per-call mutable request object, so concurrent calls
// built from one config never share headers, body or the retry flag.
func (c *HTTPRequestConfig) NewRequest(ctx context.Context) (any, error) {
	r := &HTTPRequest{
		Method:   c.Method,
		URL:      c.URL,
		BodyType: c.BodyType,
		Headers:  make(map[string]string, len(c.Headers)),
		Body:     make(map[string]any, len(c.Body)),
	}
	if r.Method == "" {
		r.Method = http.MethodGet
	}
	for k, v := range c.Headers {
		r.SetHeader(k, v)
	}
	for k, v := range c.Body {
		r.Body[k] = v
	}
	return r, nil
}

// HTTPRequest is per-call mutable state.
type HTTPRequest struct {
	Method   string
	URL      string
	Body     map[string]any
	BodyType string
	// Headers keys are kept in canonical form
	Headers map[string]string
	// Finalized wire body, reused verbatim when the request is replayed
	BodyBytes   []byte
	ContentType string
	// Retried is set once the request has been replayed after a token refresh.
	// It is never reset, so a request is replayed at most once.
	Retried bool
}

func (r *HTTPRequest) ClientType() dto.NetClientType { return NetClientHTTPRef }

func (r *HTTPRequest) SetHeader(k, v string) {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
	r.Headers[http.CanonicalHeaderKey(k)] = v
}

func (r *HTTPRequest) Header(k string) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers[http.CanonicalHeaderKey(k)]
}

// FinalizeBody encodes Body once per call. Bytes already present, set by a
// middleware or by the first attempt, are sent as they are.
func (r *HTTPRequest) FinalizeBody() error {
	if r.BodyBytes != nil {
		return nil
	}
	encoded, contentType, err := utils.PrepareBody(r.Body, r.BodyType)
	if err != nil {
		return fmt.Errorf("prepare body: %w", err)
	}
	r.BodyBytes = encoded
	if r.ContentType == "" {
		r.ContentType = contentType
	}
	return nil
}

// build produces a fresh *http.Request. Header precedence, lowest first:
// client defaults, body content type, request headers.
func (r *HTTPRequest) build(ctx context.Context, defaults map[string]string) (*http.Request, error) {
	var body io.Reader
	if len(r.BodyBytes) > 0 {
		body = bytes.NewReader(r.BodyBytes)
	}
	httpReq, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, err
	}
	for k, v := range defaults {
		httpReq.Header.Set(k, v)
	}
	if r.ContentType != "" {
		httpReq.Header.Set("Content-Type", r.ContentType)
	}
	for k, v := range r.Headers {
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}
