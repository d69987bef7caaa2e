//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"linknote/internal/config"
	"linknote/internal/database"
	"linknote/internal/handler"
	"linknote/internal/middleware"
	"linknote/internal/model"
	"linknote/internal/repository"
	"linknote/internal/router"
	"linknote/internal/service"
	"linknote/pkg/client"
)

type testEnv struct {
	server       *httptest.Server
	tokens       *service.TokenService
	userRepo     *repository.UserRepository
	bookmarkRepo *repository.BookmarkRepository
}

// newTestEnv builds the full HTTP stack against a real Postgres instance.
// Tests are skipped when TEST_DATABASE_URL is not set.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration tests")
	}

	db, err := database.New(context.Background(), databaseURL, 4, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(context.Background()))

	// Each test starts from empty tables; bookmarks cascade from users.
	_, err = db.Pool.Exec(context.Background(), `TRUNCATE users CASCADE`)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db.Pool)
	bookmarkRepo := repository.NewBookmarkRepository(db.Pool)

	tokens := service.NewTokenService("it-access-secret", "it-refresh-secret", 15*time.Minute, 7*24*time.Hour)
	cookies := middleware.NewCookieWriter(false, 15*time.Minute, 7*24*time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(tokens, cookies)

	userService := service.NewUserService(userRepo)
	bookmarkService := service.NewBookmarkService(bookmarkRepo)
	oauthService := service.NewOAuthService("it-client-id", "it-client-secret", "http://localhost:3000", userRepo)

	cfg := &config.Config{
		CORSOrigins:      []string{"http://localhost:5173"},
		RateLimitRPM:     0,
		AuthRateLimitRPM: 1000,
		RequestTimeout:   30 * time.Second,
		FrontendURL:      "http://localhost:5173",
	}

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:     handler.NewAuthHandler(oauthService, tokens, userService, cookies, cfg.FrontendURL),
		Bookmark: handler.NewBookmarkHandler(bookmarkService),
		User:     handler.NewUserHandler(userService, cookies),
	})

	server := httptest.NewServer(appRouter)
	t.Cleanup(server.Close)

	return &testEnv{
		server:       server,
		tokens:       tokens,
		userRepo:     userRepo,
		bookmarkRepo: bookmarkRepo,
	}
}

// createUser registers a user the way the OAuth callback would.
func (e *testEnv) createUser(t *testing.T, email string) model.User {
	t.Helper()

	user, err := e.userRepo.Upsert(context.Background(), model.GoogleProfile{
		GoogleID:    fmt.Sprintf("google-%s", uuid.NewString()),
		Email:       email,
		DisplayName: "Test User",
	})
	require.NoError(t, err)
	return user
}

// rawCreateBookmark posts a create request without the client library's
// input mirror, returning the response status.
func (e *testEnv) rawCreateBookmark(t *testing.T, user model.User, title string, url string) int {
	t.Helper()

	accessToken, err := e.tokens.MintAccess(model.SessionClaims{UserID: user.ID, Email: user.Email})
	require.NoError(t, err)

	payload, err := json.Marshal(model.CreateBookmarkRequest{Title: title, URL: url})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/bookmarks", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.AccessCookieName, Value: accessToken})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp.StatusCode
}

// newClient returns an API client with a freshly minted session.
func (e *testEnv) newClient(t *testing.T, user model.User) *client.Client {
	t.Helper()

	claims := model.SessionClaims{UserID: user.ID, Email: user.Email}
	accessToken, err := e.tokens.MintAccess(claims)
	require.NoError(t, err)
	refreshToken, err := e.tokens.MintRefresh(claims)
	require.NoError(t, err)

	c, err := client.New(e.server.URL)
	require.NoError(t, err)
	require.NoError(t, c.SetSessionCookies(accessToken, refreshToken))
	return c
}
