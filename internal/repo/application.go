package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jobdeck/jobboard/internal/models"
)

type ApplicationRepo struct {
	DB *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) *ApplicationRepo {
	return &ApplicationRepo{DB: db}
}

func (r *ApplicationRepo) GetByUID(ctx context.Context, uid uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.DB.WithContext(ctx).Where("uid = ?", uid).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &app, nil
}

// Exists reports whether the user already applied to the job.
func (r *ApplicationRepo) Exists(ctx context.Context, jobUID, userUID uuid.UUID) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Application{}).
		Where("job_uid = ? AND user_uid = ?", jobUID, userUID).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *ApplicationRepo) Create(ctx context.Context, app *models.Application) error {
	if app.UID == uuid.Nil {
		app.UID = uuid.New()
	}
	if err := r.DB.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *ApplicationRepo) Save(ctx context.Context, app *models.Application) error {
	if err := r.DB.WithContext(ctx).Save(app).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *ApplicationRepo) Delete(ctx context.Context, uid uuid.UUID) error {
	if err := r.DB.WithContext(ctx).Where("uid = ?", uid).Delete(&models.Application{}).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *ApplicationRepo) List(ctx context.Context, offset, limit int) ([]models.Application, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Application{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	var apps []models.Application
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&apps).Error; err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return apps, total, nil
}

func (r *ApplicationRepo) ListByJob(ctx context.Context, jobUID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	if err := r.DB.WithContext(ctx).Where("job_uid = ?", jobUID).Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return apps, nil
}

func (r *ApplicationRepo) ListByUser(ctx context.Context, userUID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	if err := r.DB.WithContext(ctx).Where("user_uid = ?", userUID).Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return apps, nil
}
