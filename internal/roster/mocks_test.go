package roster

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"roster/internal/model"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) ListEmployees(ctx context.Context, token string) ([]model.Employee, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Employee), args.Error(1)
}

func (m *MockAPI) ListProjects(ctx context.Context, token string) ([]model.Project, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockAPI) UpdateEmployee(ctx context.Context, token, psc string, tagID *string, projectID *int64) error {
	args := m.Called(ctx, token, psc, tagID, projectID)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
