package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/authnet/relays"
	relayDTO "github.com/joy-dx/relay/dto"
)

// Refresher exchanges a refresh token for a fresh token pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (dto.TokenInfo, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, refreshToken string) (dto.TokenInfo, error)

func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (dto.TokenInfo, error) {
	return f(ctx, refreshToken)
}

// SessionAuthService reads tokens from a SessionStore and writes back whatever
// a successful refresh returns.
type SessionAuthService struct {
	store     dto.SessionStore
	refresher Refresher
	relay     relayDTO.RelayInterface
}

func NewSessionAuthService(store dto.SessionStore, refresher Refresher, relay relayDTO.RelayInterface) *SessionAuthService {
	if relay == nil {
		relay = relays.Discard
	}
	return &SessionAuthService{store: store, refresher: refresher, relay: relay}
}

func (s *SessionAuthService) session(ctx context.Context) (dto.TokenInfo, error) {
	tok, err := s.store.Get(ctx)
	if errors.Is(err, dto.ErrNoSession) {
		return dto.TokenInfo{}, nil
	}
	if err != nil {
		return dto.TokenInfo{}, fmt.Errorf("read session: %w", err)
	}
	return tok, nil
}

func (s *SessionAuthService) AccessToken(ctx context.Context) (string, error) {
	tok, err := s.session(ctx)
	return tok.AccessToken, err
}

func (s *SessionAuthService) RefreshToken(ctx context.Context) (string, error) {
	tok, err := s.session(ctx)
	return tok.RefreshToken, err
}

// Login refreshes the session. When the server does not rotate refresh tokens
// the one used for the call is kept. A response without an access token is
// returned as is and not stored.
func (s *SessionAuthService) Login(ctx context.Context, refreshToken string) (dto.TokenInfo, error) {
	if s.refresher == nil {
		return dto.TokenInfo{}, errors.New("no refresher configured")
	}
	tok, err := s.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		return dto.TokenInfo{}, err
	}
	if tok.AccessToken == "" {
		return tok, nil
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = refreshToken
	}
	if err := s.store.Set(ctx, tok); err != nil {
		// the new token is still usable for this process
		s.relay.Warn(relays.RlyNetLog{Msg: fmt.Sprintf("failed to persist refreshed session: %v", err)})
	}
	s.relay.Debug(relays.RlyNetLog{Msg: "session refreshed"})
	return tok, nil
}

// Logout forgets the stored session.
func (s *SessionAuthService) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}
