package auth

import (
	"net/http"
	"net/url"
	"strings"
)

// CookieName is the client-facing credential cookie.
const CookieName = "auth_token"

// Source tags which carrier supplied a credential.
type Source int

const (
	SourceNone Source = iota
	SourceHeader
	SourceCookie
)

func (s Source) String() string {
	switch s {
	case SourceHeader:
		return "header"
	case SourceCookie:
		return "cookie"
	}
	return "none"
}

// FromRequest locates a candidate token string. The Authorization header
// wins over the cookie: it carries the raw token and is never
// percent-encoded, while some cookie-setting callers double-encode.
func FromRequest(r *http.Request) (string, Source) {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(a, "Bearer ") {
		if t := clean(strings.TrimPrefix(a, "Bearer ")); t != "" {
			return t, SourceHeader
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		v := c.Value
		if dec, err := url.PathUnescape(v); err == nil {
			v = dec
		}
		if t := clean(v); t != "" {
			return t, SourceCookie
		}
	}
	return "", SourceNone
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
