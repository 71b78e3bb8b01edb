package repository

import (
	"context"
	"strings"
	"time"

	"github.com/lshigami/examhall/internal/model"
	"gorm.io/gorm"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	// FindByUsernameFold matches the username case-insensitively.
	FindByUsernameFold(ctx context.Context, username string) ([]model.Admin, error)
	UpdateUsername(ctx context.Context, id uint, username string) error
	UpdatePasswordHash(ctx context.Context, id uint, hash *string) error
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) FindByUsernameFold(ctx context.Context, username string) ([]model.Admin, error) {
	var admins []model.Admin
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		Order("id ASC").
		Find(&admins).Error
	return admins, err
}

func (r *adminRepository) UpdateUsername(ctx context.Context, id uint, username string) error {
	return r.db.WithContext(ctx).Model(&model.Admin{}).Where("id = ?", id).Update("username", username).Error
}

func (r *adminRepository) UpdatePasswordHash(ctx context.Context, id uint, hash *string) error {
	return r.db.WithContext(ctx).Model(&model.Admin{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func (r *adminRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Admin{}).Where("id = ?", id).Update("last_login", at).Error
}
