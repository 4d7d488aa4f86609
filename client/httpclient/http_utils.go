package httpclient

import (
	"net/http"
	"time"
)

// attachCookies adds stored cookies the request does not already carry.
func (c *HTTPClient) attachCookies(req *http.Request) {
	c.cookieMu.RLock()
	defer c.cookieMu.RUnlock()
	now := time.Now()
	for _, ck := range c.cookies {
		if cookieExpired(ck, now) {
			continue
		}
		if _, err := req.Cookie(ck.Name); err == nil {
			continue
		}
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
}

// captureCookies stores updated cookies, dropping ones the server expired.
func (c *HTTPClient) captureCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	c.cookieMu.Lock()
	defer c.cookieMu.Unlock()
	now := time.Now()
	for _, cookie := range cookies {
		c.storeOrReplaceCookie(cookie)
	}
	kept := c.cookies[:0]
	for _, ck := range c.cookies {
		if !cookieExpired(ck, now) {
			kept = append(kept, ck)
		}
	}
	c.cookies = kept
}

// storeOrReplaceCookie updates or appends a cookie by its name.
func (c *HTTPClient) storeOrReplaceCookie(cookie *http.Cookie) {
	for i, existing := range c.cookies {
		if existing.Name == cookie.Name {
			c.cookies[i] = cookie
			return
		}
	}
	c.cookies = append(c.cookies, cookie)
}

// Cookies returns a copy of the stored cookies.
func (c *HTTPClient) Cookies() []*http.Cookie {
	c.cookieMu.RLock()
	defer c.cookieMu.RUnlock()
	out := make([]*http.Cookie, len(c.cookies))
	copy(out, c.cookies)
	return out
}

func cookieExpired(ck *http.Cookie, now time.Time) bool {
	if ck.MaxAge < 0 {
		return true
	}
	return !ck.Expires.IsZero() && ck.Expires.Before(now)
}
