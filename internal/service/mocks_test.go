package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"roster/internal/model"
)

// MockCredentialRepository is a mock implementation of CredentialRepository.
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) FindMatching(ctx context.Context, userID, password string, limit int) ([]model.Credential, error) {
	args := m.Called(ctx, userID, password, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Credential), args.Error(1)
}

func (m *MockCredentialRepository) Create(ctx context.Context, cred *model.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

// MockEmployeeRepository is a mock implementation of EmployeeRepository.
type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) List(ctx context.Context) ([]model.Employee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) Update(ctx context.Context, psc string, tagID *string, projectID *int64) (int64, error) {
	args := m.Called(ctx, psc, tagID, projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEmployeeRepository) Upsert(ctx context.Context, employee *model.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

// MockProjectRepository is a mock implementation of ProjectRepository.
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepository) Upsert(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}
