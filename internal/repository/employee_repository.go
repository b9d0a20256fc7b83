package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roster/internal/model"
)

// EmployeeRepository is the only writer of roster rows.
type EmployeeRepository interface {
	List(ctx context.Context) ([]model.Employee, error)
	// Update sets tag and project for psc and reports how many rows matched.
	Update(ctx context.Context, psc string, tagID *string, projectID *int64) (int64, error)
	Upsert(ctx context.Context, employee *model.Employee) error
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository.
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

// List returns every employee ordered by PSC.
func (r *employeeRepository) List(ctx context.Context) ([]model.Employee, error) {
	employees := make([]model.Employee, 0)
	if err := r.db.WithContext(ctx).Order("empPSC ASC").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// Update writes both editable columns. Nil pointers become NULL.
func (r *employeeRepository) Update(ctx context.Context, psc string, tagID *string, projectID *int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Employee{}).
		Where("empPSC = ?", psc).
		Updates(map[string]interface{}{
			"empTagId":  tagID,
			"empProjID": projectID,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// Upsert inserts an employee or overwrites its editable columns. Used by seeding.
func (r *employeeRepository) Upsert(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "empPSC"}},
		DoUpdates: clause.AssignmentColumns([]string{"empTagId", "empProjID"}),
	}).Create(employee).Error
}
