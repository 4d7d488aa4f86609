package auth

import "errors"

// ErrRefreshTokenExpired indicates that the refresh token has expired or is invalid
var ErrRefreshTokenExpired = errors.New("refresh token expired or invalid")

// errorResponse is the OAuth style error body returned by token endpoints.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
}

func isExpiredGrant(code string) bool {
	return code == "invalid_grant" || code == "invalid_token"
}
