package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"linknote/internal/model"
)

const maxDisplayNameLen = 50

type profileStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	UpdateProfile(ctx context.Context, id string, displayName *string, avatarURL *string) (model.User, error)
	Delete(ctx context.Context, id string) error
}

type UserService struct {
	store profileStore
}

func NewUserService(store profileStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) Get(ctx context.Context, userID string) (model.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return model.User{}, model.ErrUserNotFound
	}

	return s.store.FindByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (model.User, error) {
	var fields []model.FieldError

	if req.DisplayName != nil {
		trimmed := strings.TrimSpace(*req.DisplayName)
		*req.DisplayName = trimmed
		if utf8.RuneCountInString(trimmed) > maxDisplayNameLen {
			fields = append(fields, model.FieldError{Field: "display_name", Message: "Display name max 50 chars"})
		}
	}

	if req.AvatarURL != nil && !validWebURL(*req.AvatarURL) {
		fields = append(fields, model.FieldError{Field: "avatar_url", Message: "Invalid URL found"})
	}

	if len(fields) > 0 {
		return model.User{}, &ValidationError{Fields: fields}
	}

	return s.store.UpdateProfile(ctx, userID, req.DisplayName, req.AvatarURL)
}

// DeleteAccount removes the user row; owned bookmarks are deleted by the
// store's cascading foreign key.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, userID)
}
