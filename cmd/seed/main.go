package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"roster/internal/config"
	"roster/internal/db"
	"roster/internal/model"
	"roster/internal/repository"
)

const defaultSeedFile = "seed.yaml"

// SeedFile is the layout of the YAML seed document.
type SeedFile struct {
	Users []struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"users"`
	Projects []struct {
		Seq         int64  `yaml:"seq"`
		Description string `yaml:"description"`
	} `yaml:"projects"`
	Employees []struct {
		PSC       string  `yaml:"psc"`
		TagID     *string `yaml:"tagId"`
		ProjectID *int64  `yaml:"projectId"`
	} `yaml:"employees"`
}

type seedStats struct {
	users, projects, employees, skipped int
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	logger.Info("starting seed script")

	path := defaultSeedFile
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.Open(cfg)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The seed target is usually a fresh dev store
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	doc, err := readSeedFile(path)
	if err != nil {
		logger.Error("read seed file", slog.String("path", path), slog.String("error", err.Error()))
		os.Exit(1)
	}

	stats, err := seed(context.Background(),
		repository.NewCredentialRepository(gormDB),
		repository.NewProjectRepository(gormDB),
		repository.NewEmployeeRepository(gormDB),
		doc,
	)
	if err != nil {
		logger.Error("seed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seed completed",
		slog.Int("users_created", stats.users),
		slog.Int("projects", stats.projects),
		slog.Int("employees", stats.employees),
		slog.Int("users_skipped", stats.skipped),
	)
}

func readSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc SeedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}

// seed is idempotent: projects and employees are upserted by key, users are
// created only when the exact pair is not present yet.
func seed(
	ctx context.Context,
	creds repository.CredentialRepository,
	projects repository.ProjectRepository,
	employees repository.EmployeeRepository,
	doc *SeedFile,
) (seedStats, error) {
	var stats seedStats

	for _, u := range doc.Users {
		existing, err := creds.FindMatching(ctx, u.Username, u.Password, 1)
		if err != nil {
			return stats, fmt.Errorf("check user %s: %w", u.Username, err)
		}
		if len(existing) > 0 {
			stats.skipped++
			continue
		}
		if err := creds.Create(ctx, &model.Credential{UserID: u.Username, Password: u.Password}); err != nil {
			return stats, fmt.Errorf("create user %s: %w", u.Username, err)
		}
		stats.users++
	}

	for _, p := range doc.Projects {
		if err := projects.Upsert(ctx, &model.Project{Seq: p.Seq, Description: p.Description}); err != nil {
			return stats, fmt.Errorf("upsert project %d: %w", p.Seq, err)
		}
		stats.projects++
	}

	for _, e := range doc.Employees {
		if e.PSC == "" {
			return stats, fmt.Errorf("employee without psc")
		}
		if err := employees.Upsert(ctx, &model.Employee{PSC: e.PSC, TagID: e.TagID, ProjectID: e.ProjectID}); err != nil {
			return stats, fmt.Errorf("upsert employee %s: %w", e.PSC, err)
		}
		stats.employees++
	}

	return stats, nil
}
