package service

import (
	"context"
	"fmt"
	"time"

	"roster/internal/cache"
	"roster/internal/errors"
	"roster/internal/model"
	"roster/internal/repository"
)

const projectsCacheKey = "roster:projects"

// RosterService exposes the record store operations behind the access gate.
type RosterService interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	UpdateEmployee(ctx context.Context, psc string, tagID *string, projectID *int64) error
}

type rosterService struct {
	employees   repository.EmployeeRepository
	projects    repository.ProjectRepository
	cache       *cache.Client
	projectsTTL time.Duration
}

// NewRosterService creates a roster service. Projects are read-only here, so
// their listing is cached for projectsTTL; employees are always read through.
func NewRosterService(
	employees repository.EmployeeRepository,
	projects repository.ProjectRepository,
	cache *cache.Client,
	projectsTTL time.Duration,
) RosterService {
	return &rosterService{
		employees:   employees,
		projects:    projects,
		cache:       cache,
		projectsTTL: projectsTTL,
	}
}

// ListEmployees returns all employees ordered by PSC.
func (s *rosterService) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list employees: %v", errors.ErrStoreUnavailable, err)
	}
	return employees, nil
}

// ListProjects returns all projects ordered by description.
func (s *rosterService) ListProjects(ctx context.Context) ([]model.Project, error) {
	var cached []model.Project
	if s.cache.GetJSON(ctx, projectsCacheKey, &cached) {
		return cached, nil
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list projects: %v", errors.ErrStoreUnavailable, err)
	}

	s.cache.SetJSON(ctx, projectsCacheKey, projects, s.projectsTTL)
	return projects, nil
}

// UpdateEmployee overwrites tag and project of one employee. A PSC that
// matches no row is reported as ErrEmployeeNotFound rather than acknowledged.
func (s *rosterService) UpdateEmployee(ctx context.Context, psc string, tagID *string, projectID *int64) error {
	if projectID != nil && *projectID == 0 {
		projectID = nil
	}

	n, err := s.employees.Update(ctx, psc, tagID, projectID)
	if err != nil {
		return fmt.Errorf("%w: update employee %s: %v", errors.ErrStoreUnavailable, psc, err)
	}
	if n == 0 {
		return errors.ErrEmployeeNotFound
	}
	return nil
}
