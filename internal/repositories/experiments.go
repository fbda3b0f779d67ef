package repositories

import (
	"context"

	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Experiments struct {
	db *gorm.DB
}

func NewExperimentsRepository(db *gorm.DB) *Experiments {
	return &Experiments{db: db}
}

func (repo *Experiments) Add(ctx context.Context, experiment *models.Experiment) error {
	return repo.db.WithContext(ctx).Create(experiment).Error
}

func (repo *Experiments) GetByID(ctx context.Context, id int) (*models.Experiment, error) {

	var experiment models.Experiment
	err := repo.db.WithContext(ctx).First(&experiment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFound("experiment", id)
		}
		return nil, err
	}
	return &experiment, nil
}

func (repo *Experiments) Update(ctx context.Context, experiment *models.Experiment) error {
	return repo.db.WithContext(ctx).Save(experiment).Error
}
