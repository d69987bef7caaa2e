package middleware

import (
	"net/http"
	"time"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
	StateCookieName   = "oauthState"
)

// stateCookieTTL bounds one handshake round trip.
const stateCookieTTL = 10 * time.Minute

// CookieWriter issues and clears the session cookie pair. Cookies are
// HTTP-only and SameSite=Lax; Secure is enabled in production where the API
// is served over HTTPS.
type CookieWriter struct {
	secure     bool
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCookieWriter(secure bool, accessTTL time.Duration, refreshTTL time.Duration) *CookieWriter {
	return &CookieWriter{secure: secure, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (c *CookieWriter) SetAuthCookies(w http.ResponseWriter, accessToken string, refreshToken string) {
	http.SetCookie(w, c.cookie(AccessCookieName, accessToken, int(c.accessTTL.Seconds())))
	http.SetCookie(w, c.cookie(RefreshCookieName, refreshToken, int(c.refreshTTL.Seconds())))
}

func (c *CookieWriter) ClearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(AccessCookieName, "", -1))
	http.SetCookie(w, c.cookie(RefreshCookieName, "", -1))
}

func (c *CookieWriter) SetOAuthState(w http.ResponseWriter, state string) {
	http.SetCookie(w, c.cookie(StateCookieName, state, int(stateCookieTTL.Seconds())))
}

func (c *CookieWriter) ClearOAuthState(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(StateCookieName, "", -1))
}

func (c *CookieWriter) cookie(name string, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.secure,
	}
}
