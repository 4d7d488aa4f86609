package authnet

import (
	"context"
	"errors"
	"sort"

	"github.com/joy-dx/authnet/client/httpclient"
	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/authnet/relays"
	"golang.org/x/time/rate"
)

func (s *NetSvc) State() *dto.NetState {
	s.clientsMu.RLock()
	clients := make([]string, 0, len(s.clients))
	for ref := range s.clients {
		clients = append(clients, ref)
	}
	s.clientsMu.RUnlock()
	sort.Strings(clients)

	return &dto.NetState{
		BaseURL:                  s.cfg.BaseURL,
		LoginPath:                s.cfg.LoginPath,
		WithCredentials:          s.cfg.WithCredentials,
		ExtraHeaders:             s.cfg.ExtraHeaders,
		RequestTimeout:           s.cfg.RequestTimeout,
		UserAgent:                s.cfg.UserAgent,
		BlacklistDomains:         s.cfg.BlacklistDomains,
		WhitelistDomains:         s.cfg.WhitelistDomains,
		DownloadCallbackInterval: s.cfg.DownloadCallbackInterval,
		Clients:                  clients,
		TransfersStatus:          s.transferState.GetAll(),
	}
}

// Hydrate registers the default authenticated client built from the config.
func (s *NetSvc) Hydrate(ctx context.Context) error {
	if s.cfg == nil {
		return errors.New("no net config")
	}
	if s.relay == nil {
		return errors.New("no relay implementation")
	}
	if s.cfg.AuthService == nil {
		s.relay.Warn(relays.RlyNetLog{Msg: "No auth service configured, requests are sent unauthenticated"})
	}

	defaultClientCfg := s.defaultClientConfig()
	defaultClient := httpclient.NewHTTPClient(dto.NET_DEFAULT_CLIENT_REF, s.cfg, &defaultClientCfg)
	s.RegisterClient(dto.NET_DEFAULT_CLIENT_REF, defaultClient)

	return nil
}

func (s *NetSvc) defaultClientConfig() httpclient.HTTPClientConfig {
	clientCfg := httpclient.DefaultHTTPClientConfig()
	clientCfg.WithBaseURL(s.cfg.BaseURL).
		WithCredentialsPolicy(s.cfg.WithCredentials).
		WithAuthService(s.cfg.AuthService).
		WithRelogin(s.cfg.LoginPath, s.cfg.OnRelogin).
		WithMetrics(s.cfg.Metrics)

	static := map[string]string{}
	if s.cfg.UserAgent != "" {
		static["User-Agent"] = s.cfg.UserAgent
	}
	for k, v := range s.cfg.ExtraHeaders {
		static[k] = v
	}
	if s.cfg.RequestsPerSecond > 0 {
		burst := max(s.cfg.RateBurst, 1)
		clientCfg.WithMiddleware(httpclient.RateLimitMiddleware(rate.NewLimiter(rate.Limit(s.cfg.RequestsPerSecond), burst)))
	}
	clientCfg.WithMiddleware(
		httpclient.DomainPolicyMiddleware(s.cfg.BlacklistDomains, s.cfg.WhitelistDomains),
		httpclient.StaticHeaderMiddleware(static),
		httpclient.RequestIDMiddleware(),
		httpclient.LoggingMiddleware(s.relay),
	)
	return clientCfg
}
