package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"linknote/internal/model"
)

type sessionTokens interface {
	VerifyAccess(token string) (model.SessionClaims, error)
	VerifyRefresh(token string) (model.SessionClaims, error)
	MintAccess(claims model.SessionClaims) (string, error)
}

type contextKey string

const sessionContextKey contextKey = "session_claims"

// AuthMiddleware authenticates requests from the cookie pair. A valid access
// token is accepted directly; otherwise a valid refresh token silently mints
// a new access token and re-issues both cookies. The refresh token itself is
// never rotated, so its replay window is its full lifetime.
type AuthMiddleware struct {
	tokens  sessionTokens
	cookies *CookieWriter
}

func NewAuthMiddleware(tokens sessionTokens, cookies *CookieWriter) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, cookies: cookies}
}

// Require rejects unauthenticated requests with 401 AUTH_REQUIRED.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return m.authenticate(next, false)
}

// Optional attaches an identity when the cookies validate and proceeds
// anonymously when they do not.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return m.authenticate(next, true)
}

func (m *AuthMiddleware) authenticate(next http.Handler, optional bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(AccessCookieName); err == nil && cookie.Value != "" {
			if claims, err := m.tokens.VerifyAccess(cookie.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(withSession(r.Context(), claims)))
				return
			}
		}

		if cookie, err := r.Cookie(RefreshCookieName); err == nil && cookie.Value != "" {
			if claims, err := m.tokens.VerifyRefresh(cookie.Value); err == nil {
				accessToken, mintErr := m.tokens.MintAccess(claims)
				if mintErr == nil {
					// Renewed access cookie, unchanged refresh cookie.
					m.cookies.SetAuthCookies(w, accessToken, cookie.Value)
					next.ServeHTTP(w, r.WithContext(withSession(r.Context(), claims)))
					return
				}
			}
		}

		if optional {
			next.ServeHTTP(w, r)
			return
		}

		writeAuthRequired(w)
	})
}

func withSession(ctx context.Context, claims model.SessionClaims) context.Context {
	return context.WithValue(ctx, sessionContextKey, claims)
}

func SessionFromContext(ctx context.Context) (model.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionContextKey).(model.SessionClaims)
	return claims, ok
}

func writeAuthRequired(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Message: "Unauthorized",
		Error:   "AUTH_REQUIRED",
	})
}
