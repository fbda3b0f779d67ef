package repositories

import (
	"context"
	"time"

	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"gorm.io/gorm"
)

// FunnelEvents is the append-only lifecycle event log. Events are never
// updated or deleted; the aggregator reads whatever exists at call time.
type FunnelEvents struct {
	db *gorm.DB
}

func NewFunnelEventsRepository(db *gorm.DB) *FunnelEvents {
	return &FunnelEvents{db: db}
}

func (repo *FunnelEvents) Append(ctx context.Context, event *models.FunnelEvent) error {
	return repo.db.WithContext(ctx).Create(event).Error
}

func (repo *FunnelEvents) GetByProfileInWindow(ctx context.Context, profileID int,
	from time.Time, to time.Time) ([]models.FunnelEvent, error) {

	var events []models.FunnelEvent
	if err := repo.db.WithContext(ctx).
		Where("profile_id = ? AND created_at >= ? AND created_at < ?", profileID, from, to).
		Order("created_at").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (repo *FunnelEvents) GetByTailoredCV(ctx context.Context, tailoredCVID int) ([]models.FunnelEvent, error) {

	var events []models.FunnelEvent
	if err := repo.db.WithContext(ctx).
		Where("tailored_cv_id = ?", tailoredCVID).
		Order("created_at").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
