package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	retry "github.com/appleboy/go-httpretry"
	"github.com/joy-dx/authnet/dto"
)

const refreshTokenTimeout = 10 * time.Second

// EndpointRefresher calls the application's own login endpoint with
// {"refreshToken": "..."} and reads the new pair from the JSON reply.
type EndpointRefresher struct {
	url    string
	client *retry.Client
}

// NewEndpointRefresher wraps httpClient (nil for a default one) with retries.
func NewEndpointRefresher(refreshURL string, httpClient *http.Client) (*EndpointRefresher, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: refreshTokenTimeout}
	}
	client, err := retry.NewBackgroundClient(retry.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create retry client: %w", err)
	}
	return &EndpointRefresher{url: refreshURL, client: client}, nil
}

// refreshResponse accepts both the app's camelCase fields and OAuth names.
type refreshResponse struct {
	AccessToken       string `json:"accessToken"`
	RefreshToken      string `json:"refreshToken"`
	TokenType         string `json:"tokenType"`
	ExpiresIn         int    `json:"expiresIn"`
	OAuthAccessToken  string `json:"access_token"`
	OAuthRefreshToken string `json:"refresh_token"`
	OAuthTokenType    string `json:"token_type"`
	OAuthExpiresIn    int    `json:"expires_in"`
}

func (r refreshResponse) token(now time.Time) dto.TokenInfo {
	tok := dto.TokenInfo{
		AccessToken:  firstNonEmpty(r.AccessToken, r.OAuthAccessToken),
		RefreshToken: firstNonEmpty(r.RefreshToken, r.OAuthRefreshToken),
		TokenType:    firstNonEmpty(r.TokenType, r.OAuthTokenType),
	}
	expiresIn := r.ExpiresIn
	if expiresIn == 0 {
		expiresIn = r.OAuthExpiresIn
	}
	if expiresIn > 0 {
		tok.Expiry = now.Add(time.Duration(expiresIn) * time.Second)
	}
	return tok
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (e *EndpointRefresher) Refresh(ctx context.Context, refreshToken string) (dto.TokenInfo, error) {
	if refreshToken == "" {
		return dto.TokenInfo{}, ErrRefreshTokenExpired
	}
	reqCtx, cancel := context.WithTimeout(ctx, refreshTokenTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return dto.TokenInfo{}, err
	}
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return dto.TokenInfo{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.DoWithContext(reqCtx, req)
	if err != nil {
		return dto.TokenInfo{}, fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return dto.TokenInfo{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return dto.TokenInfo{}, refreshFailure(e.url, resp.StatusCode, body)
	}

	var out refreshResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return dto.TokenInfo{}, fmt.Errorf("failed to parse token response: %w", err)
	}
	return out.token(time.Now()), nil
}

func refreshFailure(url string, status int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		if isExpiredGrant(errResp.Error) {
			return ErrRefreshTokenExpired
		}
		if status == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", ErrRefreshTokenExpired, errResp.Error)
		}
		return fmt.Errorf("%s: %s", errResp.Error, firstNonEmpty(errResp.ErrorDescription, errResp.Message))
	}
	if status == http.StatusUnauthorized {
		return ErrRefreshTokenExpired
	}
	return fmt.Errorf("refresh failed: %w", &dto.HTTPError{StatusCode: status, Method: http.MethodPost, URL: url, Body: body})
}
