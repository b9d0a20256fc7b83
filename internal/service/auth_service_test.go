package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roster/internal/auth"
	apperrors "roster/internal/errors"
	"roster/internal/model"
)

func TestAuthService_Authenticate(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockCredentialRepository)
		expectedError error
	}{
		{
			name:     "single matching row",
			username: "admin",
			password: "1234",
			setupMock: func(m *MockCredentialRepository) {
				m.On("FindMatching", mock.Anything, "admin", "1234", 2).
					Return([]model.Credential{{UserID: "admin", Password: "1234"}}, nil)
			},
		},
		{
			name:     "no matching row",
			username: "admin",
			password: "wrong",
			setupMock: func(m *MockCredentialRepository) {
				m.On("FindMatching", mock.Anything, "admin", "wrong", 2).Return([]model.Credential{}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "ambiguous duplicate rows",
			username: "dup",
			password: "pw",
			setupMock: func(m *MockCredentialRepository) {
				m.On("FindMatching", mock.Anything, "dup", "pw", 2).
					Return([]model.Credential{{UserID: "dup", Password: "pw"}, {UserID: "dup", Password: "pw"}}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "store down",
			username: "admin",
			password: "1234",
			setupMock: func(m *MockCredentialRepository) {
				m.On("FindMatching", mock.Anything, "admin", "1234", 2).Return(nil, errors.New("dial tcp: refused"))
			},
			expectedError: apperrors.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCredentialRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret", time.Hour)
			svc := NewAuthService(mockRepo, jwtService)

			token, err := svc.Authenticate(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				claims, err := jwtService.ValidateToken(token)
				require.NoError(t, err)
				assert.Equal(t, tt.username, claims.Subject)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
