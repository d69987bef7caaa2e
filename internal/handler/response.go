package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"linknote/internal/model"
	"linknote/internal/service"
	"linknote/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, pagination *model.Pagination) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Message: message,
	})
}

// writeError maps service errors onto the response envelope. Unclassified
// errors become an opaque 500; the detail is only logged server-side.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := model.APIResponse{
		Success: false,
		Message: "Unexpected server error",
	}

	var verr *service.ValidationError
	var apiErr *apierror.APIError
	if errors.As(err, &verr) {
		status = http.StatusBadRequest
		body.Message = "Validation failed"
		body.Errors = verr.Fields
	} else if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Message = apiErr.Message
		body.Error = apiErr.Code
	} else if errors.Is(err, model.ErrBookmarkNotFound) {
		status = http.StatusNotFound
		body.Message = "Bookmark not found"
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrUnauthorized) || errors.Is(err, model.ErrInvalidToken) {
		status = http.StatusUnauthorized
		body.Message = "Unauthorized"
		body.Error = "AUTH_REQUIRED"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Message = "Invalid input"
	} else {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
