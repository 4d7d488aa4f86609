package utils

import (
	"context"
	"errors"
	"net"
)

// IsTemporaryErr reports whether a transport error is worth another attempt.
// Context errors never are, the retry loop decides on those itself. Network
// timeouts and unclassified network errors are.
func IsTemporaryErr(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var tempErr interface{ Temporary() bool }
	if errors.As(err, &tempErr) {
		return tempErr.Temporary()
	}
	return true
}
