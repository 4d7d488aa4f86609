package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/joy-dx/authnet/relays"
	relayDTO "github.com/joy-dx/relay/dto"
	"golang.org/x/time/rate"
)

var ErrDomainBlocked = errors.New("domain not allowed")

// StaticHeaderMiddleware injects static headers into every request.
func StaticHeaderMiddleware(headers map[string]string) Middleware {
	return func(ctx context.Context, r *HTTPRequest) error {
		for k, v := range headers {
			r.SetHeader(k, v)
		}
		return nil
	}
}

// RequestIDMiddleware tags each call with an X-Request-ID unless one is set.
// A replayed request keeps its id.
func RequestIDMiddleware() Middleware {
	return func(ctx context.Context, r *HTTPRequest) error {
		if r.Header("X-Request-ID") == "" {
			r.SetHeader("X-Request-ID", uuid.NewString())
		}
		return nil
	}
}

func LoggingMiddleware(relay relayDTO.RelayInterface) Middleware {
	return func(ctx context.Context, r *HTTPRequest) error {
		relay.Debug(relays.RlyNetLog{Msg: fmt.Sprintf("[HTTP] %s %s", r.Method, r.URL)})
		return nil
	}
}

func InjectFieldMiddleware(key string, val any) Middleware {
	return func(ctx context.Context, r *HTTPRequest) error {
		if r.Body == nil {
			r.Body = map[string]any{}
		}
		r.Body[key] = val

		// Force FinalizeBody to rebuild from Body.
		r.BodyBytes = nil
		r.ContentType = ""
		return nil
	}
}

// DomainPolicyMiddleware rejects requests whose host is blacklisted or, when a
// whitelist is given, not on it. Entries match the host and its subdomains.
func DomainPolicyMiddleware(blacklist, whitelist []string) Middleware {
	return func(ctx context.Context, r *HTTPRequest) error {
		u, err := url.Parse(r.URL)
		if err != nil {
			return fmt.Errorf("parse url: %w", err)
		}
		host := strings.ToLower(u.Hostname())
		if host == "" {
			return nil
		}
		for _, d := range blacklist {
			if domainMatches(host, d) {
				return fmt.Errorf("%w: %s is blacklisted", ErrDomainBlocked, host)
			}
		}
		if len(whitelist) == 0 {
			return nil
		}
		for _, d := range whitelist {
			if domainMatches(host, d) {
				return nil
			}
		}
		return fmt.Errorf("%w: %s is not whitelisted", ErrDomainBlocked, host)
	}
}

func domainMatches(host, domain string) bool {
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "."))
	if domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// RateLimitMiddleware holds each call until limiter admits it. A replay after
// token recovery is part of the same call and is not throttled again.
func RateLimitMiddleware(limiter *rate.Limiter) Middleware {
	return func(ctx context.Context, r *HTTPRequest) error {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
		return nil
	}
}
