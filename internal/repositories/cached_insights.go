package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	gocache "github.com/patrickmn/go-cache"
)

type insightSource interface {
	SaveAsCurrent(ctx context.Context, insight *models.MarketInsight) error
	GetCurrent(ctx context.Context, profileID int, insightType models.InsightType, periodDays int) (*models.MarketInsight, error)
}

// CachedInsights memoizes current-insight reads. Writes go through the
// underlying repository and invalidate the affected key immediately.
type CachedInsights struct {
	repo  insightSource
	cache *gocache.Cache
}

func NewCachedInsights(repo insightSource) *CachedInsights {
	return &CachedInsights{repo: repo, cache: gocache.New(5*time.Minute, 10*time.Minute)}
}

func (c CachedInsights) SaveAsCurrent(ctx context.Context, insight *models.MarketInsight) error {

	if err := c.repo.SaveAsCurrent(ctx, insight); err != nil {
		return err
	}

	c.cache.Delete(insightKey(insight.ProfileID, insight.Type, insight.PeriodDays))
	return nil
}

func (c CachedInsights) GetCurrent(ctx context.Context, profileID int,
	insightType models.InsightType, periodDays int) (*models.MarketInsight, error) {

	key := insightKey(profileID, insightType, periodDays)
	if value, found := c.cache.Get(key); found {
		return value.(*models.MarketInsight), nil
	}

	insight, err := c.repo.GetCurrent(ctx, profileID, insightType, periodDays)
	if insight != nil {
		if err = c.cache.Add(key, insight, gocache.DefaultExpiration); err != nil {
			return insight, err
		}
	}

	return insight, err
}

func insightKey(profileID int, insightType models.InsightType, periodDays int) string {
	return fmt.Sprintf("%d:%s:%d", profileID, insightType, periodDays)
}
