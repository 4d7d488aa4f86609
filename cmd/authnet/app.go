package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/joy-dx/authnet"
	"github.com/joy-dx/authnet/auth"
	"github.com/joy-dx/authnet/config"
	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/authnet/metrics"
	"github.com/joy-dx/authnet/relays"
	"github.com/joy-dx/authnet/utils"
	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultClientID = "default"

type app struct {
	cfg      *config.NetSvcConfig
	svc      *authnet.NetSvc
	store    *auth.FileStore
	auth     *auth.SessionAuthService
	relay    *reloginTracker
	registry *prometheus.Registry
	errOut   io.Writer
}

// reloginTracker counts re-login handlers about to start so the process does
// not exit before the session has been cleared.
type reloginTracker struct {
	relayDTO.RelayInterface
	pending sync.WaitGroup
}

func (r *reloginTracker) Warn(data relayDTO.RelayEventInterface) {
	if ev, ok := data.(relays.RlyAuthRecovery); ok && ev.Outcome != dto.RecoveryReplayed {
		r.pending.Add(1)
	}
	r.RelayInterface.Warn(data)
}

func buildApp(cmd *cobra.Command, opts *rootOptions, errOut io.Writer) (*app, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	cfg.WithBaseURL(config.Resolve(opts.baseURL, config.EnvBaseURL, cfg.BaseURL)).
		WithClientID(config.Resolve(opts.clientID, config.EnvClientID, defaultClientID)).
		WithTokenFile(config.Resolve(opts.tokenFile, config.EnvTokenFile, cfg.TokenFile)).
		WithLoginPath(config.Resolve(opts.loginPath, config.EnvLoginPath, cfg.LoginPath)).
		WithRefreshURL(config.Resolve(opts.refreshURL, config.EnvRefreshURL, cfg.RefreshURL)).
		WithExtraHeaders(opts.headers)
	if cmd.Flags().Changed("timeout") {
		cfg.WithRequestTimeout(opts.timeout)
	}
	if cmd.Flags().Changed("rate") {
		cfg.WithRateLimit(opts.rate, 1)
	}

	relay := &reloginTracker{RelayInterface: newLogRelay(opts, errOut)}
	cfg.WithRelay(relay)

	warnings, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		relay.Warn(relays.RlyNetLog{Msg: w})
	}

	refresher, err := newRefresher(&cfg, opts.tokenURL)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      &cfg,
		store:    auth.NewFileStore(cfg.TokenFile, cfg.ClientID),
		relay:    relay,
		registry: prometheus.NewRegistry(),
		errOut:   errOut,
	}
	a.auth = auth.NewSessionAuthService(a.store, refresher, relay)
	cfg.WithAuthService(a.auth).
		WithReloginHandler(a.relogin).
		WithMetrics(metrics.NewRecorder(a.registry))

	a.svc = authnet.NewNetSvc(&cfg)
	if err := a.svc.Hydrate(cmd.Context()); err != nil {
		return nil, err
	}
	return a, nil
}

// newLogRelay picks the sink: slog text by default, zap JSON lines on request.
func newLogRelay(opts *rootOptions, errOut io.Writer) relayDTO.RelayInterface {
	if opts.logJSON {
		level := zapcore.InfoLevel
		if opts.debug {
			level = zapcore.DebugLevel
		}
		core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(errOut), level)
		return relays.NewZapRelay(zap.New(core))
	}
	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	return relays.NewSlogRelay(slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level})))
}

// newRefresher prefers the OAuth2 grant when a token url is given. Without
// either endpoint a 401 goes straight to re-login.
func newRefresher(cfg *config.NetSvcConfig, tokenURL string) (auth.Refresher, error) {
	switch {
	case tokenURL != "":
		return auth.NewOAuth2Refresher(cfg.ClientID, tokenURL, nil), nil
	case cfg.RefreshURL != "":
		return auth.NewEndpointRefresher(cfg.RefreshURL, nil)
	default:
		return nil, nil
	}
}

func (a *app) relogin(loginPath string) {
	defer a.relay.pending.Done()
	// the request context may already be gone
	if err := a.auth.Logout(context.Background()); err != nil {
		fmt.Fprintf(a.errOut, "failed to clear session: %v\n", err)
	}
	fmt.Fprintf(a.errOut, "Session expired. Sign in again at %s\n", utils.JoinURL(a.cfg.BaseURL, loginPath))
}

// settle blocks until every started re-login handler has finished.
func (a *app) settle() {
	a.relay.pending.Wait()
}
