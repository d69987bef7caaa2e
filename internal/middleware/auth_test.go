package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"linknote/internal/model"
	"linknote/internal/service"
)

func newTestAuth(t *testing.T) (*AuthMiddleware, *service.TokenService) {
	t.Helper()

	tokens := service.NewTokenService("test-access-secret", "test-refresh-secret", 15*time.Minute, 7*24*time.Hour)
	cookies := NewCookieWriter(false, 15*time.Minute, 7*24*time.Hour)
	return NewAuthMiddleware(tokens, cookies), tokens
}

func identityEcho(t *testing.T, captured *model.SessionClaims, attached *bool) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := SessionFromContext(r.Context())
		*attached = ok
		if ok {
			*captured = claims
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareNoCookies(t *testing.T) {
	t.Parallel()

	mw, _ := newTestAuth(t)

	t.Run("required route returns 401 AUTH_REQUIRED", func(t *testing.T) {
		var attached bool
		var claims model.SessionClaims
		handler := mw.Require(identityEcho(t, &claims, &attached))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookmarks", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, attached)

		var body model.APIResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.False(t, body.Success)
		require.Equal(t, "AUTH_REQUIRED", body.Error)
	})

	t.Run("optional route proceeds without identity", func(t *testing.T) {
		var attached bool
		var claims model.SessionClaims
		handler := mw.Optional(identityEcho(t, &claims, &attached))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookmarks", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.False(t, attached)
	})
}

func TestAuthMiddlewareValidAccessToken(t *testing.T) {
	t.Parallel()

	mw, tokens := newTestAuth(t)
	identity := model.SessionClaims{UserID: "user-1", Email: "user@example.com"}

	accessToken, err := tokens.MintAccess(identity)
	require.NoError(t, err)

	var attached bool
	var claims model.SessionClaims
	handler := mw.Require(identityEcho(t, &claims, &attached))

	req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: accessToken})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, attached)
	require.Equal(t, identity, claims)

	// No renewal happened, so no cookies were re-issued.
	require.Empty(t, rec.Result().Cookies())
}

func TestAuthMiddlewareSilentRenewal(t *testing.T) {
	t.Parallel()

	mw, tokens := newTestAuth(t)
	identity := model.SessionClaims{UserID: "user-1", Email: "user@example.com"}

	expired := service.NewTokenService("test-access-secret", "test-refresh-secret", -time.Minute, 7*24*time.Hour)
	expiredAccess, err := expired.MintAccess(identity)
	require.NoError(t, err)
	refreshToken, err := tokens.MintRefresh(identity)
	require.NoError(t, err)

	var attached bool
	var claims model.SessionClaims
	handler := mw.Require(identityEcho(t, &claims, &attached))

	req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: expiredAccess})
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: refreshToken})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, attached)
	require.Equal(t, identity, claims)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	access := byName[AccessCookieName]
	require.NotNil(t, access)
	require.NotEqual(t, expiredAccess, access.Value)

	renewed, err := tokens.VerifyAccess(access.Value)
	require.NoError(t, err)
	require.Equal(t, identity, renewed)

	// The refresh token is not rotated.
	refresh := byName[RefreshCookieName]
	require.NotNil(t, refresh)
	require.Equal(t, refreshToken, refresh.Value)
}

func TestAuthMiddlewareRejectsRefreshTokenAsAccess(t *testing.T) {
	t.Parallel()

	mw, tokens := newTestAuth(t)
	refreshToken, err := tokens.MintRefresh(model.SessionClaims{UserID: "user-1", Email: "user@example.com"})
	require.NoError(t, err)

	var attached bool
	var claims model.SessionClaims
	handler := mw.Require(identityEcho(t, &claims, &attached))

	// A refresh token stuffed into the access cookie alone still authenticates
	// via the refresh path only when present under its own cookie name.
	req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: refreshToken})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, attached)
}
