package repositories

import (
	"context"

	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Profiles struct {
	db *gorm.DB
}

func NewProfilesRepository(db *gorm.DB) *Profiles {
	return &Profiles{db: db}
}

func (repo *Profiles) Add(ctx context.Context, profile *models.Profile) error {
	return repo.db.WithContext(ctx).Create(profile).Error
}

func (repo *Profiles) GetByID(ctx context.Context, id int) (*models.Profile, error) {

	var profile models.Profile
	err := repo.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFound("profile", id)
		}
		return nil, err
	}
	return &profile, nil
}

func (repo *Profiles) Get(ctx context.Context, limit int, offset int) ([]models.Profile, error) {

	var profiles []models.Profile
	if err := repo.db.WithContext(ctx).
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// AttachVector stores a freshly embedded vector and bumps the version.
// The structured résumé fields stay untouched.
func (repo *Profiles) AttachVector(ctx context.Context, id int, vector models.Vector) error {

	profile, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	profile.Vector = vector
	profile.VectorVersion++
	return repo.db.WithContext(ctx).Save(profile).Error
}
