package model

import "time"

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	GoogleID    string    `json:"-"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Profile is the public shape of a user returned by /auth/me and /users/me.
type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

// GoogleProfile is the verified identity assertion extracted from a Google
// ID token during the callback leg of the handshake.
type GoogleProfile struct {
	GoogleID    string
	Email       string
	DisplayName string
	AvatarURL   string
}

// SessionClaims is the identity carried by both token classes.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
