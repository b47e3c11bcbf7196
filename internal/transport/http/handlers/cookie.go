package handlers

import (
	"net/http"
	"strings"
	"time"
)

// SessionCookieConfig describes the session cookie contract. The handler
// layer is the only place cookies are built; services never see them.
type SessionCookieConfig struct {
	Name     string
	Secure   bool
	SameSite string
}

func (c SessionCookieConfig) sameSite() http.SameSite {
	switch strings.ToLower(c.SameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// NewSessionCookie builds the Set-Cookie value carrying the raw session token.
// The cookie is always HttpOnly and scoped to the whole site.
func NewSessionCookie(cfg SessionCookieConfig, token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.sameSite(),
	}
}

// ClearSessionCookie builds a cookie that instructs the browser to drop the
// session cookie immediately.
func ClearSessionCookie(cfg SessionCookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.sameSite(),
	}
}
