package handler

import (
	"log/slog"
	"net/http"

	"linknote/internal/middleware"
	"linknote/internal/model"
	"linknote/internal/service"
)

type AuthHandler struct {
	oauth       *service.OAuthService
	tokens      *service.TokenService
	users       *service.UserService
	cookies     *middleware.CookieWriter
	frontendURL string
}

func NewAuthHandler(oauth *service.OAuthService, tokens *service.TokenService, users *service.UserService, cookies *middleware.CookieWriter, frontendURL string) *AuthHandler {
	return &AuthHandler{
		oauth:       oauth,
		tokens:      tokens,
		users:       users,
		cookies:     cookies,
		frontendURL: frontendURL,
	}
}

// GoogleLogin starts the handshake: anti-CSRF state goes into a short-lived
// cookie and the browser is sent to Google's consent page.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := h.oauth.NewState()
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.SetOAuthState(w, state)
	http.Redirect(w, r, h.oauth.AuthURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback finishes the handshake. Every failure path lands on the
// login page with an error flag instead of a JSON body, since the caller is
// a browser mid-redirect.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearOAuthState(w)

	stateCookie, err := r.Cookie(middleware.StateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.redirectLoginError(w, r)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectLoginError(w, r)
		return
	}

	user, err := h.oauth.CompleteLogin(r.Context(), code)
	if err != nil {
		slog.Warn("google login failed", "error", err.Error())
		h.redirectLoginError(w, r)
		return
	}

	claims := model.SessionClaims{UserID: user.ID, Email: user.Email}
	accessToken, err := h.tokens.MintAccess(claims)
	if err != nil {
		h.redirectLoginError(w, r)
		return
	}
	refreshToken, err := h.tokens.MintRefresh(claims)
	if err != nil {
		h.redirectLoginError(w, r)
		return
	}

	h.cookies.SetAuthCookies(w, accessToken, refreshToken)
	http.Redirect(w, r, h.frontendURL+"/dashboard", http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearAuthCookies(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	user, err := h.users.Get(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user.Profile(), nil)
}

func (h *AuthHandler) redirectLoginError(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.frontendURL+"/login?error=auth_failed", http.StatusFound)
}
