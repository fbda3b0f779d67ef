package repositories

import (
	"context"

	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TailoredCVs struct {
	db *gorm.DB
}

func NewTailoredCVsRepository(db *gorm.DB) *TailoredCVs {
	return &TailoredCVs{db: db}
}

func (repo *TailoredCVs) Add(ctx context.Context, cv *models.TailoredCV) error {
	return repo.db.WithContext(ctx).Create(cv).Error
}

func (repo *TailoredCVs) GetByID(ctx context.Context, id int) (*models.TailoredCV, error) {

	var cv models.TailoredCV
	err := repo.db.WithContext(ctx).First(&cv, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFound("tailored cv", id)
		}
		return nil, err
	}
	return &cv, nil
}

func (repo *TailoredCVs) GetByProfileAndJob(ctx context.Context, profileID int, jobID int) ([]models.TailoredCV, error) {

	var cvs []models.TailoredCV
	if err := repo.db.WithContext(ctx).
		Where("profile_id = ? AND job_id = ?", profileID, jobID).
		Order("created_at").
		Find(&cvs).Error; err != nil {
		return nil, err
	}
	return cvs, nil
}
