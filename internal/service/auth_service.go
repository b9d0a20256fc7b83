package service

import (
	"context"
	"fmt"

	"roster/internal/auth"
	"roster/internal/errors"
	"roster/internal/repository"
)

// AuthService verifies operator credentials and issues access tokens.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
}

type authService struct {
	credRepo   repository.CredentialRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(credRepo repository.CredentialRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		credRepo:   credRepo,
		jwtService: jwtService,
	}
}

// Authenticate compares username and password verbatim against the credential
// table. Exactly one matching row is required; none or several are both
// ErrInvalidCredentials.
func (s *authService) Authenticate(ctx context.Context, username, password string) (string, error) {
	creds, err := s.credRepo.FindMatching(ctx, username, password, 2)
	if err != nil {
		return "", fmt.Errorf("%w: find credentials: %v", errors.ErrStoreUnavailable, err)
	}
	if len(creds) != 1 {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(username)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return token, nil
}
