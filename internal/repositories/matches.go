package repositories

import (
	"context"

	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Matches struct {
	db *gorm.DB
}

func NewMatchesRepository(db *gorm.DB) *Matches {
	return &Matches{db: db}
}

// Upsert stores a scored candidate for a (profile, job) pair. Re-scoring
// overwrites the score fields of an existing candidate and keeps its
// dismissed flag, so a dismissed match is never resurrected.
func (repo *Matches) Upsert(ctx context.Context, candidate models.MatchCandidate) error {

	var existing models.MatchCandidate
	err := repo.db.WithContext(ctx).
		Where("profile_id = ? AND job_id = ?", candidate.ProfileID, candidate.JobID).
		First(&existing).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repo.db.WithContext(ctx).Create(&candidate).Error
		}
		return err
	}

	existing.OverallScore = candidate.OverallScore
	existing.Breakdown = candidate.Breakdown
	existing.Explanation = candidate.Explanation
	return repo.db.WithContext(ctx).Save(&existing).Error
}

func (repo *Matches) GetActiveByProfile(ctx context.Context, profileID int) ([]models.MatchCandidate, error) {

	var candidates []models.MatchCandidate
	if err := repo.db.WithContext(ctx).
		Where("profile_id = ? AND dismissed = ?", profileID, false).
		Order("overall_score DESC").
		Find(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

func (repo *Matches) Dismiss(ctx context.Context, profileID int, jobID int) error {

	res := repo.db.WithContext(ctx).Model(&models.MatchCandidate{}).
		Where("profile_id = ? AND job_id = ?", profileID, jobID).
		Update("dismissed", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFound("match candidate", jobID)
	}
	return nil
}
