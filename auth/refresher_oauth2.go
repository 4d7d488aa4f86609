package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/joy-dx/authnet/dto"
	"golang.org/x/oauth2"
)

// OAuth2Refresher runs a standard refresh_token grant against an OAuth2
// token endpoint.
type OAuth2Refresher struct {
	cfg        *oauth2.Config
	httpClient *http.Client
}

func NewOAuth2Refresher(clientID, tokenURL string, httpClient *http.Client) *OAuth2Refresher {
	return &OAuth2Refresher{
		cfg: &oauth2.Config{
			ClientID: clientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
	}
}

func (o *OAuth2Refresher) Refresh(ctx context.Context, refreshToken string) (dto.TokenInfo, error) {
	if refreshToken == "" {
		return dto.TokenInfo{}, ErrRefreshTokenExpired
	}
	if o.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	}

	tok, err := o.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			if isExpiredGrant(retrieveErr.ErrorCode) || (retrieveErr.Response != nil && retrieveErr.Response.StatusCode == http.StatusUnauthorized) {
				return dto.TokenInfo{}, ErrRefreshTokenExpired
			}
		}
		return dto.TokenInfo{}, fmt.Errorf("oauth2 refresh: %w", err)
	}

	return dto.TokenInfo{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.Type(),
		Expiry:       tok.Expiry,
	}, nil
}
