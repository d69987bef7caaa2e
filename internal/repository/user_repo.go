package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"linknote/internal/model"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, google_id, display_name, avatar_url, created_at, updated_at
		 FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.GoogleID, &u.DisplayName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Upsert inserts a user keyed by google_id or refreshes the stored profile
// fields when the row already exists. A single statement avoids the
// duplicate-row race of a separate find-then-insert under concurrent first
// logins from the same identity.
func (r *UserRepository) Upsert(ctx context.Context, profile model.GoogleProfile) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, google_id, display_name, avatar_url)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (google_id) DO UPDATE
		 SET display_name = EXCLUDED.display_name,
		     avatar_url = EXCLUDED.avatar_url,
		     updated_at = now()
		 RETURNING id, email, google_id, display_name, avatar_url, created_at, updated_at`,
		profile.Email, profile.GoogleID, profile.DisplayName, profile.AvatarURL).
		Scan(&u.ID, &u.Email, &u.GoogleID, &u.DisplayName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, displayName *string, avatarURL *string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET display_name = COALESCE($2, display_name),
		     avatar_url = COALESCE($3, avatar_url),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING id, email, google_id, display_name, avatar_url, created_at, updated_at`,
		id, displayName, avatarURL).
		Scan(&u.ID, &u.Email, &u.GoogleID, &u.DisplayName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("update user profile: %w", err)
	}
	return u, nil
}

// Delete removes the user row; the bookmarks FK cascades.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
