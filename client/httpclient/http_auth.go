package httpclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/authnet/relays"
)

// normalizeAuthType ensures proper "Bearer", "Basic", or custom capitalization.
func normalizeAuthType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "bearer":
		return "Bearer"
	case "basic":
		return "Basic"
	default:
		if strings.TrimSpace(t) == "" {
			return "Bearer"
		}
		return t
	}
}

// authorize is the pre-send hook. A replayed request keeps the Authorization
// header written during recovery.
func (c *HTTPClient) authorize(ctx context.Context, req *HTTPRequest) error {
	if req.Retried || c.cfg.AuthService == nil {
		return nil
	}
	token, err := c.cfg.AuthService.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("authorize request: %w", err)
	}
	if token == "" {
		return nil
	}
	req.SetHeader("Authorization", "Bearer "+token)
	return nil
}

// recoverUnauthorized exchanges the stored refresh token for a new access
// token. It reports whether req is ready to be replayed.
func (c *HTTPClient) recoverUnauthorized(ctx context.Context, req *HTTPRequest) bool {
	refreshToken, err := c.cfg.AuthService.RefreshToken(ctx)
	if err != nil || refreshToken == "" {
		c.forceRelogin(req, dto.RecoveryNoRefreshToken, err)
		return false
	}

	tok, err := c.cfg.AuthService.Login(ctx, refreshToken)
	if err != nil {
		c.forceRelogin(req, dto.RecoveryRefreshFailed, err)
		return false
	}
	if tok.AccessToken == "" {
		c.forceRelogin(req, dto.RecoveryEmptyToken, nil)
		return false
	}

	req.Retried = true
	req.SetHeader("Authorization", normalizeAuthType(tok.TokenType)+" "+tok.AccessToken)

	if c.cfg.Metrics != nil {
		c.cfg.Metrics.ObserveRecovery(dto.RecoveryReplayed)
	}
	c.relay.Info(relays.RlyAuthRecovery{
		Method:  req.Method,
		URL:     req.URL,
		Outcome: dto.RecoveryReplayed,
		Msg:     "access token refreshed, replaying request",
	})
	return true
}

// forceRelogin starts the re-login handler without waiting for it.
func (c *HTTPClient) forceRelogin(req *HTTPRequest, outcome dto.RecoveryOutcome, cause error) {
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.ObserveRecovery(outcome)
	}
	c.relay.Warn(relays.RlyAuthRecovery{
		Method:    req.Method,
		URL:       req.URL,
		Outcome:   outcome,
		LoginPath: c.loginPath,
		Err:       cause,
		Msg:       "session could not be refreshed, re-login required",
	})
	if c.cfg.OnRelogin != nil {
		go c.cfg.OnRelogin(c.loginPath)
	}
}
