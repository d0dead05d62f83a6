package services

import (
	"context"
	"net/http"
	"net/url"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/models"
)

type AuthService struct {
	client Doer
}

func NewAuthService(client Doer) *AuthService {
	return &AuthService{client: client}
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := s.client.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "/auth/login", Body: req}, &out)
	return out, err
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := s.client.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "/auth/register", Body: req}, &out)
	return out, err
}

// Refresh sends the refresh token as a query parameter, which is what the
// backend's /auth/refresh endpoint binds.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	var out models.AuthResponse
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/refresh",
		Query:  url.Values{"refreshToken": {refreshToken}},
	}, &out)
	return out.Tokens(), err
}

func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	var available bool
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/auth/check-email",
		Query:  url.Values{"email": {email}},
	}, &available)
	return available, err
}
