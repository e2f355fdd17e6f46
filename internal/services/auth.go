// Package services layers one typed operation per backend resource family on
// top of the shared API client. No service resolves across entities; that is
// the controller's job.
package services

import (
	"context"

	"example.com/fitcoach/internal/api"
	"example.com/fitcoach/internal/domain"
)

// AuthService maps the user-service endpoints.
type AuthService struct {
	client *api.Client
}

// NewAuthService constructs an AuthService.
func NewAuthService(client *api.Client) *AuthService {
	return &AuthService{client: client}
}

type loginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token.
func (s *AuthService) Login(ctx context.Context, userID, password string) (domain.LoginResult, error) {
	var result domain.LoginResult
	err := s.client.Post(ctx, "/user-service/login", loginRequest{UserID: userID, Password: password}, &result)
	return result, err
}
