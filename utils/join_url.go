package utils

import (
	"net/url"
	"strings"
)

// JoinURL resolves target against base. Absolute targets are returned as is,
// anything else is appended to the base path so "/projects/42" against
// "https://api.example.com/v1" yields "https://api.example.com/v1/projects/42".
func JoinURL(base, target string) string {
	if base == "" {
		return target
	}
	if u, err := url.Parse(target); err == nil && u.IsAbs() {
		return target
	}
	if target == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(target, "/")
}
