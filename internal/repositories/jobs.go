package repositories

import (
	"context"
	"time"

	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

func (repo *Jobs) Add(ctx context.Context, job *models.JobListing) error {
	return repo.db.WithContext(ctx).Create(job).Error
}

func (repo *Jobs) GetByID(ctx context.Context, id int) (*models.JobListing, error) {

	var job models.JobListing
	err := repo.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFound("job", id)
		}
		return nil, err
	}
	return &job, nil
}

func (repo *Jobs) Get(ctx context.Context, limit int, offset int) ([]models.JobListing, error) {

	var jobs []models.JobListing
	if err := repo.db.WithContext(ctx).
		Limit(limit).
		Offset(offset).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (repo *Jobs) GetPublishedBetween(ctx context.Context, from time.Time, to time.Time) ([]models.JobListing, error) {

	var jobs []models.JobListing
	if err := repo.db.WithContext(ctx).
		Where("published_at >= ? AND published_at < ?", from, to).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (repo *Jobs) CountPublishedBetween(ctx context.Context, from time.Time, to time.Time) (int64, error) {

	var count int64
	if err := repo.db.WithContext(ctx).Model(&models.JobListing{}).
		Where("published_at >= ? AND published_at < ?", from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
