package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// --- DTOs ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// --- Interface ---

// AuthService authenticates the single configured operator. This is an
// internal finance tool with one account, not a user-management system:
// credentials come from the environment, there is no user table and no
// refresh-token rotation.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
}

type authService struct {
	email        string
	passwordHash []byte
	secret       []byte
	tokenTTL     time.Duration
}

// NewAuthService hashes the configured plaintext password once at startup so
// login comparisons go through bcrypt.
func NewAuthService(email, password string, secret []byte) (AuthService, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be configured")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	return &authService{
		email:        email,
		passwordHash: hash,
		secret:       secret,
		tokenTTL:     24 * time.Hour,
	}, nil
}

// --- Implementation ---

func (s *authService) Login(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	if req.Email != s.email {
		return TokenResponse{}, fmt.Errorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)); err != nil {
		return TokenResponse{}, fmt.Errorf("invalid email or password")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": s.email,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}
