package dto

import (
	"context"
	"net/http"
	"time"
)

type NetInterface interface {
	Hydrate(ctx context.Context) error
	State() *NetState
	DownloadFile(ctx context.Context, cfg *DownloadFileConfig) error
	Get(ctx context.Context, url string, withRetry bool) (Response, error)
	Post(ctx context.Context, url string, payload map[string]interface{}, withRetry bool) (Response, error)
	Put(ctx context.Context, url string, payload map[string]interface{}, withRetry bool) (Response, error)
	Delete(ctx context.Context, url string, withRetry bool) (Response, error)
	RegisterClient(ref string, client NetClientInterface)
	RequestOnce(ctx context.Context, cfg *RequestConfig) (Response, error)
	RequestWithRetry(ctx context.Context, cfg *RequestConfig) (Response, error)
}

// AuthService supplies credentials to the HTTP client. Implementations own the
// stored session; the client only reads tokens and asks for a refresh.
type AuthService interface {
	// AccessToken returns the current access token, or "" when signed out.
	AccessToken(ctx context.Context) (string, error)
	// RefreshToken returns the current refresh token, or "" when none is stored.
	RefreshToken(ctx context.Context) (string, error)
	// Login exchanges a refresh token for a new access token and stores the result.
	Login(ctx context.Context, refreshToken string) (TokenInfo, error)
}

// SessionStore holds one client's token pair.
// Get returns ErrNoSession when nothing is stored.
type SessionStore interface {
	Get(ctx context.Context) (TokenInfo, error)
	Set(ctx context.Context, tok TokenInfo) error
	Clear(ctx context.Context) error
}

// ReloginFunc forces the user back to the login entry point.
type ReloginFunc func(loginPath string)

// NetMetrics receives request and auth recovery observations. Implementations
// must be safe for concurrent use.
type NetMetrics interface {
	ObserveRequest(method string, status int, elapsed time.Duration)
	ObserveRecovery(outcome RecoveryOutcome)
}

// StreamClientInterface is implemented by clients able to hand back an unread body.
type StreamClientInterface interface {
	Open(ctx context.Context, url string) (*http.Response, error)
}

// NetClientInterface is what NetSvc dispatches to.
type NetClientInterface interface {
	Ref() string
	Type() NetClientType
	ProcessRequest(ctx context.Context, cfg *RequestConfig) (Response, error)
}
