package repository

import (
	"context"

	"gorm.io/gorm"

	"roster/internal/model"
)

// CredentialRepository looks up operator logins.
type CredentialRepository interface {
	// FindMatching returns at most limit rows whose user id and password both
	// equal the given values exactly.
	FindMatching(ctx context.Context, userID, password string, limit int) ([]model.Credential, error)
	Create(ctx context.Context, cred *model.Credential) error
}

type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository builds a GORM-backed repository.
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) FindMatching(ctx context.Context, userID, password string, limit int) ([]model.Credential, error) {
	var creds []model.Credential
	if err := r.db.WithContext(ctx).
		Where("usrID = ? AND usrPWD = ?", userID, password).
		Limit(limit).
		Find(&creds).Error; err != nil {
		return nil, err
	}
	return creds, nil
}

func (r *credentialRepository) Create(ctx context.Context, cred *model.Credential) error {
	return r.db.WithContext(ctx).Create(cred).Error
}
