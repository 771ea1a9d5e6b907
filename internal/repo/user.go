package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jobdeck/jobboard/internal/models"
)

type UserRepo struct {
	DB *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// GetByEmail returns (nil, nil) when no user carries the email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) GetByUID(ctx context.Context, uid uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("uid = ?", uid).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	if user.UID == uuid.Nil {
		user.UID = uuid.New()
	}
	if err := r.DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *UserRepo) Save(ctx context.Context, user *models.User) error {
	if err := r.DB.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// MarkVerified flips the flag with a single-row update; re-verifying an
// already verified user is a no-op.
func (r *UserRepo) MarkVerified(ctx context.Context, uid uuid.UUID) error {
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("uid = ?", uid).
		Update("is_verified", true).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, uid uuid.UUID) error {
	if err := r.DB.WithContext(ctx).Where("uid = ?", uid).Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List filters by role when one is given.
func (r *UserRepo) List(ctx context.Context, role string, offset, limit int) ([]models.User, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	var users []models.User
	if err := q.Order("created_at ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return users, total, nil
}
