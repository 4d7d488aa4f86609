package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joy-dx/authnet/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointRefresher(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		body       string
		wantAccess string
		wantRotate string
		wantExpiry bool
		wantErr    error
		wantStatus int
	}{
		{
			name:       "camel case",
			status:     http.StatusOK,
			body:       `{"accessToken":"new1","refreshToken":"r2","expiresIn":3600}`,
			wantAccess: "new1",
			wantRotate: "r2",
			wantExpiry: true,
		},
		{
			name:       "oauth names",
			status:     http.StatusOK,
			body:       `{"access_token":"new1","token_type":"bearer"}`,
			wantAccess: "new1",
		},
		{
			name:   "empty access token is not an error",
			status: http.StatusOK,
			body:   `{}`,
		},
		{
			name:    "invalid grant",
			status:  http.StatusBadRequest,
			body:    `{"error":"invalid_grant","error_description":"expired"}`,
			wantErr: ErrRefreshTokenExpired,
		},
		{
			name:    "bare 401",
			status:  http.StatusUnauthorized,
			body:    ``,
			wantErr: ErrRefreshTokenExpired,
		},
		{
			name:       "other client error keeps status",
			status:     http.StatusForbidden,
			body:       `plain`,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotBody map[string]string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				b, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(b, &gotBody)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			refresher, err := NewEndpointRefresher(srv.URL+"/auth/login", nil)
			require.NoError(t, err)

			tok, err := refresher.Refresh(context.Background(), "r1")
			assert.Equal(t, "r1", gotBody["refreshToken"])

			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.wantStatus != 0:
				require.Error(t, err)
				assert.Equal(t, tc.wantStatus, dto.StatusCode(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.wantAccess, tok.AccessToken)
				assert.Equal(t, tc.wantRotate, tok.RefreshToken)
				assert.Equal(t, tc.wantExpiry, !tok.Expiry.IsZero())
			}
		})
	}
}

func TestEndpointRefresher_EmptyRefreshToken(t *testing.T) {
	refresher, err := NewEndpointRefresher("http://127.0.0.1:1/never", nil)
	require.NoError(t, err)
	_, err = refresher.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrRefreshTokenExpired)
}

func TestOAuth2Refresher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("refresh_token") != "good" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "studdybuddy-cli", r.PostForm.Get("client_id"))
		_, _ = w.Write([]byte(`{"access_token":"new1","refresh_token":"r2","token_type":"bearer","expires_in":60}`))
	}))
	defer srv.Close()

	refresher := NewOAuth2Refresher("studdybuddy-cli", srv.URL+"/oauth/token", srv.Client())

	tok, err := refresher.Refresh(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "new1", tok.AccessToken)
	assert.Equal(t, "r2", tok.RefreshToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.WithinDuration(t, time.Now().Add(time.Minute), tok.Expiry, 10*time.Second)

	_, err = refresher.Refresh(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrRefreshTokenExpired)
}
