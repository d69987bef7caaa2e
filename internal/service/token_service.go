package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"linknote/internal/model"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type tokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies the two session token classes. Each class
// carries the same identity claims but has its own secret and TTL, so a
// leaked refresh secret never validates access tokens and vice versa.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret string, refreshSecret string, accessTTL time.Duration, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *TokenService) MintAccess(claims model.SessionClaims) (string, error) {
	return s.sign(claims, tokenTypeAccess, s.accessSecret, s.accessTTL)
}

func (s *TokenService) MintRefresh(claims model.SessionClaims) (string, error) {
	return s.sign(claims, tokenTypeRefresh, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) VerifyAccess(tokenString string) (model.SessionClaims, error) {
	return s.verify(tokenString, tokenTypeAccess, s.accessSecret)
}

func (s *TokenService) VerifyRefresh(tokenString string) (model.SessionClaims, error) {
	return s.verify(tokenString, tokenTypeRefresh, s.refreshSecret)
}

func (s *TokenService) sign(claims model.SessionClaims, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	return token.SignedString(secret)
}

// verify fails closed: a malformed token, wrong signature, expired claim, or
// wrong token class all collapse into ErrInvalidToken so callers cannot
// distinguish the failure mode.
func (s *TokenService) verify(tokenString string, expectedType string, secret []byte) (model.SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return model.SessionClaims{}, model.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return model.SessionClaims{}, model.ErrInvalidToken
	}

	if claims.Type != expectedType || claims.UserID == "" {
		return model.SessionClaims{}, model.ErrInvalidToken
	}

	return model.SessionClaims{UserID: claims.UserID, Email: claims.Email}, nil
}
