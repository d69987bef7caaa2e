//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"linknote/internal/middleware"
	"linknote/internal/model"
	"linknote/pkg/client"
)

func TestMeRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	api, err := client.New(env.server.URL)
	require.NoError(t, err)

	_, err = api.Me(context.Background())

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "AUTH_REQUIRED", apiErr.Code)
}

func TestMeReturnsProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "user@example.com")
	api := env.newClient(t, user)

	profile, err := api.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, user.ID, profile.ID)
	require.Equal(t, "user@example.com", profile.Email)
}

func TestSilentRenewal(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "user@example.com")

	refreshToken, err := env.tokens.MintRefresh(model.SessionClaims{UserID: user.ID, Email: user.Email})
	require.NoError(t, err)

	// Only the refresh cookie rides along, as after an expired access token.
	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: middleware.RefreshCookieName, Value: refreshToken})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var gotAccess, gotRefresh bool
	for _, cookie := range resp.Cookies() {
		switch cookie.Name {
		case middleware.AccessCookieName:
			gotAccess = true
			require.NotEmpty(t, cookie.Value)
			claims, err := env.tokens.VerifyAccess(cookie.Value)
			require.NoError(t, err)
			require.Equal(t, user.ID, claims.UserID)
		case middleware.RefreshCookieName:
			gotRefresh = true
			require.Equal(t, refreshToken, cookie.Value, "refresh token must not rotate on renewal")
		}
	}
	require.True(t, gotAccess, "renewal must issue a fresh access cookie")
	require.True(t, gotRefresh, "renewal must re-issue the refresh cookie")
}

func TestLogoutClearsCookies(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "user@example.com")

	claims := model.SessionClaims{UserID: user.ID, Email: user.Email}
	accessToken, err := env.tokens.MintAccess(claims)
	require.NoError(t, err)
	refreshToken, err := env.tokens.MintRefresh(claims)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/auth/logout", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: middleware.AccessCookieName, Value: accessToken})
	req.AddCookie(&http.Cookie{Name: middleware.RefreshCookieName, Value: refreshToken})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	cleared := map[string]bool{}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.AccessCookieName || cookie.Name == middleware.RefreshCookieName {
			require.Empty(t, cookie.Value)
			require.Negative(t, cookie.MaxAge)
			cleared[cookie.Name] = true
		}
	}
	require.Len(t, cleared, 2, "logout must expire both session cookies")
}
