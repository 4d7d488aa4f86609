package utils

import (
	"net/url"
	"path"
)

// FilenameFromUrl returns the unescaped last path segment of inputUrl.
// URLs without a usable segment yield "download".
func FilenameFromUrl(inputUrl string) (string, error) {
	u, err := url.Parse(inputUrl)
	if err != nil {
		return "", err
	}
	unescaped, err := url.PathUnescape(u.EscapedPath())
	if err != nil {
		return "", err
	}
	name := path.Base(unescaped)
	if name == "." || name == "/" || name == "" {
		return "download", nil
	}
	return name, nil
}
