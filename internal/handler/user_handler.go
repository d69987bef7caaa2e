package handler

import (
	"encoding/json"
	"net/http"

	"linknote/internal/middleware"
	"linknote/internal/model"
	"linknote/internal/service"
	"linknote/pkg/apierror"
)

type UserHandler struct {
	service *service.UserService
	cookies *middleware.CookieWriter
}

func NewUserHandler(service *service.UserService, cookies *middleware.CookieWriter) *UserHandler {
	return &UserHandler{service: service, cookies: cookies}
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), claims.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user.Profile(), nil)
}

// DeleteMe removes the account and ends the session in one step; the store
// cascades bookmark deletion.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteAccount(r.Context(), claims.UserID); err != nil {
		writeError(w, err)
		return
	}

	h.cookies.ClearAuthCookies(w)
	writeMessage(w, http.StatusOK, "Account deleted successfully")
}
