package repositories

import (
	"context"

	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Insights struct {
	db *gorm.DB
}

func NewInsightsRepository(db *gorm.DB) *Insights {
	return &Insights{db: db}
}

// SaveAsCurrent stores a freshly generated insight and supersedes the prior
// current one for the same (type, profile, period) key. Priors are kept for
// history with current=false.
func (repo *Insights) SaveAsCurrent(ctx context.Context, insight *models.MarketInsight) error {

	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.Model(&models.MarketInsight{}).
			Where("profile_id = ? AND type = ? AND period_days = ? AND current = ?",
				insight.ProfileID, insight.Type, insight.PeriodDays, true).
			Update("current", false).Error; err != nil {
			return err
		}

		insight.Current = true
		return tx.Create(insight).Error
	})
}

func (repo *Insights) GetCurrent(ctx context.Context, profileID int,
	insightType models.InsightType, periodDays int) (*models.MarketInsight, error) {

	var insight models.MarketInsight
	err := repo.db.WithContext(ctx).
		Where("profile_id = ? AND type = ? AND period_days = ? AND current = ?",
			profileID, insightType, periodDays, true).
		First(&insight).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFound("insight", string(insightType))
		}
		return nil, err
	}
	return &insight, nil
}

func (repo *Insights) GetHistory(ctx context.Context, profileID int,
	insightType models.InsightType, periodDays int) ([]models.MarketInsight, error) {

	var insights []models.MarketInsight
	if err := repo.db.WithContext(ctx).
		Where("profile_id = ? AND type = ? AND period_days = ?", profileID, insightType, periodDays).
		Order("generated_at DESC").
		Find(&insights).Error; err != nil {
		return nil, err
	}
	return insights, nil
}
