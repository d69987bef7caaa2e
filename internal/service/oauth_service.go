package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"linknote/internal/model"
)

type userStore interface {
	Upsert(ctx context.Context, profile model.GoogleProfile) (model.User, error)
}

type idTokenVerifier func(ctx context.Context, token string, audience string) (*idtoken.Payload, error)

// OAuthService drives the Google login handshake: consent redirect, code
// exchange, ID-token verification, and local user upsert.
type OAuthService struct {
	conf   *oauth2.Config
	verify idTokenVerifier
	users  userStore
}

func NewOAuthService(clientID string, clientSecret string, backendURL string, users userStore) *OAuthService {
	return &OAuthService{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  backendURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
		},
		verify: idtoken.Validate,
		users:  users,
	}
}

// NewState returns a random anti-CSRF state token for one handshake.
func (s *OAuthService) NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (s *OAuthService) AuthURL(state string) string {
	return s.conf.AuthCodeURL(state)
}

// CompleteLogin exchanges the callback code, verifies the returned ID token
// against our client ID, and upserts the local user keyed by the Google
// subject identifier.
func (s *OAuthService) CompleteLogin(ctx context.Context, code string) (model.User, error) {
	token, err := s.conf.Exchange(ctx, code)
	if err != nil {
		return model.User{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return model.User{}, fmt.Errorf("token response has no id_token")
	}

	payload, err := s.verify(ctx, rawIDToken, s.conf.ClientID)
	if err != nil {
		return model.User{}, fmt.Errorf("verify id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return model.User{}, fmt.Errorf("email not present in id token")
	}
	displayName, _ := payload.Claims["name"].(string)
	avatarURL, _ := payload.Claims["picture"].(string)

	return s.users.Upsert(ctx, model.GoogleProfile{
		GoogleID:    payload.Subject,
		Email:       email,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	})
}
