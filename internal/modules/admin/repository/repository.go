package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"anoa.com/eventtech/internal/entity"
	"anoa.com/eventtech/pkg/apperror"
	"anoa.com/eventtech/pkg/database"
	"gorm.io/gorm"
)

type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	UsernameExists(ctx context.Context, username string) bool
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	LogAction(ctx context.Context, adminID uint, action string) error
	RecentActions(ctx context.Context, limit int) ([]entity.AuditLog, error)
	ValidateSession(ctx context.Context, adminID uint) bool
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND role = ?", username, entity.RoleAdmin).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *adminRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, entity.RoleAdmin).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *adminRepository) Create(ctx context.Context, user *entity.User) error {
	if user.Role == "" {
		user.Role = entity.RoleAdmin
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("username %q: %w", user.Username, apperror.ErrConflict)
		}
		return err
	}
	return nil
}

// UsernameExists treats lookup failures as taken.
func (r *adminRepository) UsernameExists(ctx context.Context, username string) bool {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		log.Printf("[admin] username check failed: %v", err)
		return true
	}
	return count > 0
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ? AND role = ?", id, entity.RoleAdmin).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *adminRepository) LogAction(ctx context.Context, adminID uint, action string) error {
	return r.db.WithContext(ctx).Create(&entity.AuditLog{
		AdminID: adminID,
		Action:  action,
	}).Error
}

func (r *adminRepository) RecentActions(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// ValidateSession re-checks that the admin row still exists with the
// admin role. Lookup failures count as invalid.
func (r *adminRepository) ValidateSession(ctx context.Context, adminID uint) bool {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ? AND role = ?", adminID, entity.RoleAdmin).
		Count(&count).Error; err != nil {
		log.Printf("[admin] session validation failed: %v", err)
		return false
	}
	return count > 0
}
