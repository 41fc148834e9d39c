package auth

import (
	"net/http"
	"time"
)

const CookieName = "jwt"

// CookiePolicy decides the session cookie attributes. Production cookies
// are Secure and cross-site; development ones are Lax.
type CookiePolicy struct {
	Secure  bool
	MaxDays int
}

func (p CookiePolicy) sameSite() http.SameSite {
	if p.Secure {
		return http.SameSiteNoneMode
	}

	return http.SameSiteLaxMode
}

func (p CookiePolicy) Session(token string, now time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(time.Duration(p.MaxDays) * 24 * time.Hour),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.sameSite(),
	}
}

// Cleared overwrites the session cookie with an empty, already expired one.
func (p CookiePolicy) Cleared() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.sameSite(),
	}
}
