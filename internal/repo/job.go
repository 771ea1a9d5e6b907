package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jobdeck/jobboard/internal/models"
)

type JobRepo struct {
	DB *gorm.DB
}

func NewJobRepo(db *gorm.DB) *JobRepo {
	return &JobRepo{DB: db}
}

func (r *JobRepo) GetByUID(ctx context.Context, uid uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.DB.WithContext(ctx).Where("uid = ?", uid).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &job, nil
}

func (r *JobRepo) Create(ctx context.Context, job *models.Job) error {
	if job.UID == uuid.Nil {
		job.UID = uuid.New()
	}
	if err := r.DB.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *JobRepo) Save(ctx context.Context, job *models.Job) error {
	if err := r.DB.WithContext(ctx).Save(job).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *JobRepo) Delete(ctx context.Context, uid uuid.UUID) error {
	if err := r.DB.WithContext(ctx).Where("uid = ?", uid).Delete(&models.Job{}).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *JobRepo) List(ctx context.Context, offset, limit int) ([]models.Job, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Job{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	var jobs []models.Job
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&jobs).Error; err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return jobs, total, nil
}
