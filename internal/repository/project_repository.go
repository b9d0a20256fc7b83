package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roster/internal/model"
)

// ProjectRepository reads project reference data.
type ProjectRepository interface {
	List(ctx context.Context) ([]model.Project, error)
	Upsert(ctx context.Context, project *model.Project) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// List returns every project ordered by description.
func (r *projectRepository) List(ctx context.Context) ([]model.Project, error) {
	projects := make([]model.Project, 0)
	if err := r.db.WithContext(ctx).Order("prjDesc ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Upsert inserts a project or updates its description. Used by seeding.
func (r *projectRepository) Upsert(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "prjSeq"}},
		DoUpdates: clause.AssignmentColumns([]string{"prjDesc"}),
	}).Create(project).Error
}
